package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

type financeApi struct {
	svc *school.Service
}

func registerFinanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := financeApi{svc: svc}

	fg := g.Group("/fees", jwt, adminMiddleware())
	fg.GET("", api.queryFees)
	fg.POST("", api.createFee)
	fg.POST("/bulk", api.generateFees)
	fg.GET("/summary", api.summary)
	fg.GET("/trend", api.trend)
	fg.GET("/overdue", api.overdue)
	fg.POST("/overdue/report", api.overdueReport)
	fg.PUT("/:id", api.updateFee)
	fg.DELETE("/:id", api.destroyFee)

	eg := g.Group("/expenses", jwt, adminMiddleware())
	eg.GET("", api.queryExpenses)
	eg.POST("", api.createExpense)
}

func (api *financeApi) queryFees(ctx echo.Context) error {
	fees, err := api.svc.Repo().Fees()
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	if fees == nil {
		fees = []school.FeeRecord{}
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *financeApi) createFee(ctx echo.Context) error {
	var data school.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	fee, err := api.svc.AddFee(data)
	if err != nil {
		return errors.Wrap(err, "adding fee")
	}
	return ctx.JSON(http.StatusCreated, fee)
}

func (api *financeApi) updateFee(ctx echo.Context) error {
	var data school.FeeRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FeeRecord")
	}
	data.ID = ctx.Param("id")

	fee, err := api.svc.UpdateFee(data)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating fee")
	}
	return ctx.JSON(http.StatusOK, fee)
}

func (api *financeApi) destroyFee(ctx echo.Context) error {
	if err := api.svc.DeleteFee(ctx.Param("id")); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting fee")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *financeApi) generateFees(ctx echo.Context) error {
	var data school.BulkFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkFee")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	fees, err := api.svc.GenerateFees(data)
	if err != nil {
		if errors.Cause(err) == school.ErrEmptyCohort {
			return core.NewValidationError(nil, core.FieldError{Field: "grade", Error: school.ErrEmptyCohort.Error()})
		}
		return errors.Wrap(err, "generating fees")
	}
	return ctx.JSON(http.StatusCreated, fees)
}

func (api *financeApi) summary(ctx echo.Context) error {
	fees, err := api.svc.Repo().Fees()
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	expenses, err := api.svc.Repo().Expenses()
	if err != nil {
		return errors.Wrap(err, "querying expenses")
	}
	return ctx.JSON(http.StatusOK, school.SummarizeFinances(fees, expenses))
}

func (api *financeApi) trend(ctx echo.Context) error {
	fees, err := api.svc.Repo().Fees()
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	return ctx.JSON(http.StatusOK, school.IncomeTrend(fees))
}

func (api *financeApi) overdue(ctx echo.Context) error {
	fees, err := api.svc.Repo().Fees()
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	students, err := api.svc.Repo().Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, school.OverdueFees(fees, students))
}

func (api *financeApi) overdueReport(ctx echo.Context) error {
	var data OverdueReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OverdueReportRequest")
	}
	if data.Email == "" {
		data.Email = core.Conf.DefaultFromEmail
	}

	sent, err := api.svc.SendOverdueReport(data.Email)
	if err != nil {
		return errors.Wrap(err, "sending overdue report")
	}
	return ctx.JSON(http.StatusOK, OverdueReportResponse{Overdue: sent})
}

func (api *financeApi) queryExpenses(ctx echo.Context) error {
	expenses, err := api.svc.Repo().Expenses()
	if err != nil {
		return errors.Wrap(err, "querying expenses")
	}
	if expenses == nil {
		expenses = []school.ExpenseRecord{}
	}
	return ctx.JSON(http.StatusOK, expenses)
}

func (api *financeApi) createExpense(ctx echo.Context) error {
	var data school.NewExpense
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	expense, err := api.svc.AddExpense(data)
	if err != nil {
		return errors.Wrap(err, "adding expense")
	}
	return ctx.JSON(http.StatusCreated, expense)
}

type (
	OverdueReportRequest struct {
		Email string `json:"email"`
	}

	OverdueReportResponse struct {
		Overdue int `json:"overdue"`
	}
)
