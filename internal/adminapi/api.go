package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/internal/webserver"
	"github.com/obrasuite/obrasuite/pkg/common"
	"gorm.io/gorm"
)

// Init registers every admin API route group.
func Init() {
	registerCatalogRoutes()
	registerCartRoutes()
	registerDiscountRoutes()
	registerOrderRoutes()
	registerSettingsRoutes()
	registerSchedulerRoutes()
	registerMetricsRoutes()
}

// GetDB returns the request scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return webserver.AppCtx().DB()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      0,
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// parsePagination reads page/pageSize query params with sane bounds.
func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// writeOpLog records an audit entry for mutating admin actions.
func writeOpLog(c echo.Context, action, desc string) {
	_ = GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   "api",
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}).Error
}
