package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/internal/webserver"
)

// registerSettingsRoutes exposes sys_config
func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", updateSetting)
}

func listSettings(c echo.Context) error {
	db := GetDB(c).Model(&domain.SysConfig{})
	if category := strings.TrimSpace(c.QueryParam("type")); category != "" {
		db = db.Where("type = ?", category)
	}
	var rows []domain.SysConfig
	if err := db.Order("sort").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

type settingPayload struct {
	Type  string `json:"type" form:"type"`
	Name  string `json:"name" form:"name"`
	Value string `json:"value" form:"value"`
}

func updateSetting(c echo.Context) error {
	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting", err.Error())
	}
	if strings.TrimSpace(payload.Type) == "" || strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Type and name are required", nil)
	}

	if err := webserver.AppCtx().ConfigMgr().SetValue(payload.Type, payload.Name, payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update setting", err.Error())
	}
	writeOpLog(c, "setting_update", payload.Type+"."+payload.Name)
	return ok(c, payload)
}
