package echoapi

import (
	"io/ioutil"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

type settingsApi struct {
	svc *school.Service
}

func registerSettingsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := settingsApi{svc: svc}

	sg := g.Group("/settings", jwt, adminMiddleware())
	sg.GET("", api.get)
	sg.PUT("", api.update)
	sg.POST("/pin", api.setPIN)
	sg.GET("/backup", api.exportBackup)
	sg.POST("/restore", api.restoreBackup)
	sg.POST("/reset", api.factoryReset)

	ag := g.Group("/announcement")
	ag.GET("", api.getAnnouncement, jwt)
	ag.PUT("", api.updateAnnouncement, jwt, adminMiddleware())
}

func (api *settingsApi) get(ctx echo.Context) error {
	settings, err := api.svc.Repo().Settings()
	if err != nil {
		return errors.Wrap(err, "loading settings")
	}
	return ctx.JSON(http.StatusOK, settings)
}

func (api *settingsApi) update(ctx echo.Context) error {
	current, err := api.svc.Repo().Settings()
	if err != nil {
		return errors.Wrap(err, "loading settings")
	}

	var data school.SchoolSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SchoolSettings")
	}
	// the PIN hash is only writable via /settings/pin
	data.AdminPINHash = current.AdminPINHash

	if err := api.svc.Repo().SaveSettings(data); err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *settingsApi) setPIN(ctx echo.Context) error {
	var data SetPINRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetPINRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.PIN), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing PIN")
	}

	settings, err := api.svc.Repo().Settings()
	if err != nil {
		return errors.Wrap(err, "loading settings")
	}
	settings.AdminPINHash = string(hash)
	if err := api.svc.Repo().SaveSettings(settings); err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "PIN updated."})
}

func (api *settingsApi) exportBackup(ctx echo.Context) error {
	backup, err := api.svc.ExportBackup()
	if err != nil {
		return errors.Wrap(err, "exporting backup")
	}
	return ctx.JSON(http.StatusOK, backup)
}

func (api *settingsApi) restoreBackup(ctx echo.Context) error {
	raw, err := ioutil.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}

	if err := api.svc.RestoreBackup(raw); err != nil {
		if errors.Cause(err) == school.ErrInvalidBackup {
			return core.NewValidationError(school.ErrInvalidBackup)
		}
		return errors.Wrap(err, "restoring backup")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Backup restored."})
}

func (api *settingsApi) factoryReset(ctx echo.Context) error {
	if err := api.svc.FactoryReset(); err != nil {
		return errors.Wrap(err, "resetting data")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "All data cleared."})
}

func (api *settingsApi) getAnnouncement(ctx echo.Context) error {
	text, err := api.svc.Repo().Announcement()
	if err != nil {
		return errors.Wrap(err, "loading announcement")
	}
	return ctx.JSON(http.StatusOK, AnnouncementResponse{Text: text})
}

func (api *settingsApi) updateAnnouncement(ctx echo.Context) error {
	var data AnnouncementRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnnouncementRequest")
	}

	if err := api.svc.Repo().SaveAnnouncement(data.Text); err != nil {
		return errors.Wrap(err, "saving announcement")
	}
	return ctx.JSON(http.StatusOK, AnnouncementResponse{Text: data.Text})
}

type (
	SetPINRequest struct {
		PIN string `json:"pin"`
	}

	AnnouncementRequest struct {
		Text string `json:"text"`
	}

	AnnouncementResponse struct {
		Text string `json:"text"`
	}
)

func (r *SetPINRequest) Validate() error {
	if len(r.PIN) < 4 {
		return core.NewValidationError(nil, core.FieldError{Field: "pin", Error: "must be at least 4 characters"})
	}
	return nil
}
