package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

type studentApi struct {
	svc *school.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students", jwt, adminMiddleware())
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.POST("/import", api.importCSV)
	sg.POST("/promote", api.promote)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
	sg.POST("/:id/notes", api.addNote)
	sg.GET("/:id/stats", api.stats)
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.Repo().Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []school.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	student, err := api.svc.AddStudent(data)
	if err != nil {
		return errors.Wrap(err, "adding student")
	}
	return ctx.JSON(http.StatusCreated, student)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data school.Student
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	data.ID = ctx.Param("id")

	student, err := api.svc.UpdateStudent(data)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, student)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteStudent(ctx.Param("id")); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) addNote(ctx echo.Context) error {
	var data school.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	student, err := api.svc.AddStudentNote(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding student note")
	}
	return ctx.JSON(http.StatusOK, student)
}

func (api *studentApi) stats(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := findStudentByID(api.svc, id); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}

	attendance, err := api.svc.Repo().Attendance()
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	fees, err := api.svc.Repo().Fees()
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	return ctx.JSON(http.StatusOK, school.ComputeStudentStats(id, attendance, fees))
}

func (api *studentApi) importCSV(ctx echo.Context) error {
	var data CSVImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CSVImportRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	imported, err := api.svc.ImportStudentsCSV(data.Data)
	if err != nil {
		return errors.Wrap(err, "importing students")
	}
	return ctx.JSON(http.StatusOK, CSVImportResponse{Imported: imported})
}

func (api *studentApi) promote(ctx echo.Context) error {
	var data school.Promotion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Promotion")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	promoted, err := api.svc.PromoteStudents(data)
	if err != nil {
		return errors.Wrap(err, "promoting students")
	}
	return ctx.JSON(http.StatusOK, PromotionResponse{Promoted: promoted})
}

type (
	CSVImportRequest struct {
		Data string `json:"data"`
	}

	CSVImportResponse struct {
		Imported int `json:"imported"`
	}

	PromotionResponse struct {
		Promoted int `json:"promoted"`
	}
)

func (r *CSVImportRequest) Validate() error {
	if r.Data == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "data", Error: "this field is required"})
	}
	return nil
}
