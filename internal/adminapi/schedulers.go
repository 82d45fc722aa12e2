package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/internal/webserver"
)

// registerSchedulerRoutes exposes background task management
func registerSchedulerRoutes() {
	webserver.ApiGET("/schedulers", listSchedulers)
	webserver.ApiPOST("/schedulers/:id/run", runSchedulerNow)
	webserver.ApiPUT("/schedulers/:id", updateScheduler)
}

func listSchedulers(c echo.Context) error {
	var rows []domain.SysScheduler
	if err := GetDB(c).Order("id").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query schedulers", err.Error())
	}
	return ok(c, rows)
}

func runSchedulerNow(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}
	writeOpLog(c, "scheduler_run", c.Param("id"))
	if err := webserver.AppCtx().RunSchedulerNow(id); err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Scheduler not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

type schedulerPayload struct {
	Interval int    `json:"interval" form:"interval"`
	Status   string `json:"status" form:"status"`
}

func updateScheduler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}
	var payload schedulerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse scheduler", err.Error())
	}
	if payload.Status != "enabled" && payload.Status != "disabled" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Status must be 'enabled' or 'disabled'", nil)
	}
	if payload.Interval < 10 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Interval must be at least 10 seconds", nil)
	}

	res := GetDB(c).Model(&domain.SysScheduler{}).Where("id = ?", id).Updates(map[string]interface{}{
		"interval": payload.Interval,
		"status":   payload.Status,
	})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update scheduler", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Scheduler not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
