package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

type gradesApi struct {
	svc *school.Service
}

func registerGradesAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := gradesApi{svc: svc}

	gg := g.Group("/grades", jwt, adminMiddleware())
	gg.GET("", api.query)
	gg.POST("", api.save)
	gg.GET("/analytics", api.analytics)
	gg.GET("/top", api.topStudents)
}

func (api *gradesApi) query(ctx echo.Context) error {
	results, err := api.svc.Repo().ExamResults()
	if err != nil {
		return errors.Wrap(err, "querying exam results")
	}
	if results == nil {
		results = []school.ExamResult{}
	}
	return ctx.JSON(http.StatusOK, results)
}

// save upserts a batch of scores by (studentId, subject, date, term).
func (api *gradesApi) save(ctx echo.Context) error {
	var batch []school.ExamResult
	if err := ctx.Bind(&batch); err != nil {
		return errors.Wrap(err, "binding to []ExamResult")
	}
	if err := validateExamBatch(batch); err != nil {
		return err
	}

	merged, err := api.svc.SaveExamResults(batch)
	if err != nil {
		return errors.Wrap(err, "saving exam results")
	}
	return ctx.JSON(http.StatusOK, merged)
}

func (api *gradesApi) analytics(ctx echo.Context) error {
	results, err := api.svc.Repo().ExamResults()
	if err != nil {
		return errors.Wrap(err, "querying exam results")
	}
	students, err := api.svc.Repo().Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	analytics := school.AnalyzeClass(
		results,
		students,
		school.GradeLevel(ctx.QueryParam("grade")),
		ctx.QueryParam("subject"),
		ctx.QueryParam("date"),
		school.Term(ctx.QueryParam("term")),
	)
	return ctx.JSON(http.StatusOK, analytics)
}

func (api *gradesApi) topStudents(ctx echo.Context) error {
	results, err := api.svc.Repo().ExamResults()
	if err != nil {
		return errors.Wrap(err, "querying exam results")
	}
	students, err := api.svc.Repo().Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, school.TopStudents(results, students))
}

func validateExamBatch(batch []school.ExamResult) error {
	for i, r := range batch {
		if r.StudentID == "" || r.Subject == "" || r.Date == "" {
			return core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("[%d]", i), Error: "studentId, subject and date are required",
			})
		}
		if !r.Term.Valid() {
			return core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("[%d].term", i), Error: "must be a valid term",
			})
		}
		if r.Score < 0 || r.Score > 100 {
			return core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("[%d].score", i), Error: "must be between 0 and 100",
			})
		}
	}
	return nil
}
