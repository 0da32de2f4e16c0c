package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/school"
)

type dashboardApi struct {
	svc *school.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := dashboardApi{svc: svc}
	g.GET("/dashboard", api.get, jwt, adminMiddleware())
	g.GET("/activities", api.activities, jwt, adminMiddleware())
}

func (api *dashboardApi) activities(ctx echo.Context) error {
	activities, err := api.svc.Repo().Activities()
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	if activities == nil {
		activities = []school.ActivityLog{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

// get assembles the admin landing page payload in one round trip.
func (api *dashboardApi) get(ctx echo.Context) error {
	repo := api.svc.Repo()

	students, err := repo.Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	teachers, err := repo.Teachers()
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	attendance, err := repo.Attendance()
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	fees, err := repo.Fees()
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	expenses, err := repo.Expenses()
	if err != nil {
		return errors.Wrap(err, "querying expenses")
	}
	results, err := repo.ExamResults()
	if err != nil {
		return errors.Wrap(err, "querying exam results")
	}
	activities, err := repo.Activities()
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}

	today := time.Now().Format("2006-01-02")
	resp := DashboardResponse{
		StudentCount:        len(students),
		TeacherCount:        len(teachers),
		TodayAttendanceRate: school.TodayAttendanceRate(attendance, today),
		Finances:            school.SummarizeFinances(fees, expenses),
		TopStudents:         school.TopStudents(results, students),
		GradeDistribution:   school.GradeDistribution(students),
		IncomeTrend:         school.IncomeTrend(fees),
		Activities:          activities,
	}
	return ctx.JSON(http.StatusOK, resp)
}

type DashboardResponse struct {
	StudentCount        int                     `json:"studentCount"`
	TeacherCount        int                     `json:"teacherCount"`
	TodayAttendanceRate int                     `json:"todayAttendanceRate"`
	Finances            school.FinancialSummary `json:"finances"`
	TopStudents         []school.RankedStudent  `json:"topStudents"`
	GradeDistribution   []school.GradeCount     `json:"gradeDistribution"`
	IncomeTrend         []school.TrendPoint     `json:"incomeTrend"`
	Activities          []school.ActivityLog    `json:"activities"`
}
