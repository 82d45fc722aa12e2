package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/obrasuite/obrasuite/internal/webserver"
	"github.com/obrasuite/obrasuite/pkg/metrics"
	"github.com/spf13/cast"
)

// registerMetricsRoutes exposes operational metric summaries
func registerMetricsRoutes() {
	webserver.ApiGET("/metrics/summary", metricsSummary)
}

func metricsSummary(c echo.Context) error {
	hours := cast.ToInt(c.QueryParam("hours"))
	if hours <= 0 || hours > 24*30 {
		hours = 24
	}
	window := time.Duration(hours) * time.Hour

	names := []string{
		metrics.MetricCatalogSyncDuration,
		metrics.MetricCatalogSyncProducts,
		metrics.MetricSystemCPUPercent,
		metrics.MetricSystemMemPercent,
	}
	summaries := make([]metrics.Summary, 0, len(names))
	for _, name := range names {
		sm, err := metrics.Summarize(name, window)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to summarize metrics", err.Error())
		}
		summaries = append(summaries, sm)
	}
	return ok(c, map[string]interface{}{
		"window_hours": hours,
		"series":       summaries,
		"sync_status":  webserver.AppCtx().Catalog().Status(),
	})
}
