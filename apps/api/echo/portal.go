package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/school"
)

type portalApi struct {
	svc *school.Service
}

func registerPortalAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := portalApi{svc: svc}
	g.GET("/portal", api.get, jwt, parentMiddleware())
}

// get returns the read-only parent view for the student bound to the token:
// the student's record, attendance stats, scores, fees and the current
// school-wide announcement.
func (api *portalApi) get(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	student, err := findStudentByID(api.svc, claims.StudentID)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}
	// the access code never leaves the server once logged in
	student.ParentAccessCode = ""

	repo := api.svc.Repo()
	attendance, err := repo.Attendance()
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	fees, err := repo.Fees()
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	results, err := repo.ExamResults()
	if err != nil {
		return errors.Wrap(err, "querying exam results")
	}
	announcement, err := repo.Announcement()
	if err != nil {
		return errors.Wrap(err, "loading announcement")
	}
	settings, err := repo.Settings()
	if err != nil {
		return errors.Wrap(err, "loading settings")
	}

	studentFees := make([]school.FeeRecord, 0)
	for _, f := range fees {
		if f.StudentID == student.ID {
			studentFees = append(studentFees, f)
		}
	}
	studentResults := make([]school.ExamResult, 0)
	for _, r := range results {
		if r.StudentID == student.ID {
			studentResults = append(studentResults, r)
		}
	}

	resp := PortalResponse{
		Student:      student,
		Stats:        school.ComputeStudentStats(student.ID, attendance, fees),
		Grades:       studentResults,
		Fees:         studentFees,
		Announcement: announcement,
		SchoolName:   settings.Name,
		Currency:     settings.Currency,
	}
	return ctx.JSON(http.StatusOK, resp)
}

type PortalResponse struct {
	Student      school.Student      `json:"student"`
	Stats        school.StudentStats `json:"stats"`
	Grades       []school.ExamResult `json:"grades"`
	Fees         []school.FeeRecord  `json:"fees"`
	Announcement string              `json:"announcement"`
	SchoolName   string              `json:"schoolName"`
	Currency     string              `json:"currency"`
}
