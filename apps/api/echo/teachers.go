package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

type teacherApi struct {
	svc *school.Service
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := teacherApi{svc: svc}

	tg := g.Group("/teachers", jwt, adminMiddleware())
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

func (api *teacherApi) query(ctx echo.Context) error {
	teachers, err := api.svc.Repo().Teachers()
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []school.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data school.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	teacher, err := api.svc.AddTeacher(data)
	if err != nil {
		return errors.Wrap(err, "adding teacher")
	}
	return ctx.JSON(http.StatusCreated, teacher)
}

func (api *teacherApi) update(ctx echo.Context) error {
	var data school.Teacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Teacher")
	}
	data.ID = ctx.Param("id")

	teacher, err := api.svc.UpdateTeacher(data)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteTeacher(ctx.Param("id")); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
