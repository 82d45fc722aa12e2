package metrics

import (
	"path/filepath"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

const (
	MetricCatalogSyncDuration = "catalog_sync_duration_ms"
	MetricCatalogSyncProducts = "catalog_sync_products"
	MetricSystemCPUPercent    = "system_cpu_percent"
	MetricSystemMemPercent    = "system_mem_percent"
)

var storage tstorage.Storage

// InitMetrics opens the local time-series store under workdir.
func InitMetrics(workdir string) error {
	var err error
	storage, err = tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	return err
}

func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}

// Record appends one sample to the named series, silently dropped when
// the store is not initialized (tests).
func Record(metric string, value float64) {
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{
		{
			Metric:    metric,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
	if err != nil {
		zap.L().Warn("metrics insert failed", zap.String("metric", metric), zap.Error(err))
	}
}

// Summary describes one metric series over a time window.
type Summary struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	P95    float64 `json:"p95"`
	Last   float64 `json:"last"`
}

// Summarize computes min/max/mean/p95 for a metric over the past window.
func Summarize(metric string, window time.Duration) (Summary, error) {
	sm := Summary{Metric: metric}
	if storage == nil {
		return sm, nil
	}
	end := time.Now().Unix()
	start := end - int64(window.Seconds())
	points, err := storage.Select(metric, nil, start, end)
	if err != nil {
		if err == tstorage.ErrNoDataPoints {
			return sm, nil
		}
		return sm, err
	}
	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.Value)
	}
	if len(values) == 0 {
		return sm, nil
	}
	sm.Count = len(values)
	sm.Min, _ = stats.Min(values)
	sm.Max, _ = stats.Max(values)
	sm.Mean, _ = stats.Mean(values)
	sm.P95, _ = stats.Percentile(values, 95)
	sm.Last = values[len(values)-1]
	return sm, nil
}
