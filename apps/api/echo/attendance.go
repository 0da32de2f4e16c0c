package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

type attendanceApi struct {
	svc *school.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt, adminMiddleware())
	ag.GET("", api.query)
	ag.POST("", api.save)
	ag.GET("/history", api.history)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	records, err := api.svc.Repo().Attendance()
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []school.AttendanceRecord{}
	}
	return ctx.JSON(http.StatusOK, records)
}

// save upserts a batch of records by (studentId, date). Records for pairs
// outside the batch are untouched.
func (api *attendanceApi) save(ctx echo.Context) error {
	var batch []school.AttendanceRecord
	if err := ctx.Bind(&batch); err != nil {
		return errors.Wrap(err, "binding to []AttendanceRecord")
	}
	if err := validateAttendanceBatch(batch); err != nil {
		return err
	}

	merged, err := api.svc.SaveAttendance(batch)
	if err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	return ctx.JSON(http.StatusOK, merged)
}

// history reports the per-day roll-up, newest day first. An empty grade
// filter covers the whole school.
func (api *attendanceApi) history(ctx echo.Context) error {
	records, err := api.svc.Repo().Attendance()
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	students, err := api.svc.Repo().Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	grade := school.GradeLevel(ctx.QueryParam("grade"))
	return ctx.JSON(http.StatusOK, school.AttendanceHistory(records, students, grade))
}

func validateAttendanceBatch(batch []school.AttendanceRecord) error {
	for i, r := range batch {
		if r.StudentID == "" || r.Date == "" {
			return core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("[%d]", i), Error: "studentId and date are required",
			})
		}
		if !r.Status.Valid() {
			return core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("[%d].status", i), Error: "must be Present, Absent or Late",
			})
		}
	}
	return nil
}
