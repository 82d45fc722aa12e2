package app

import (
	"context"
	"time"

	"github.com/obrasuite/obrasuite/pkg/metrics"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))

	// periodic catalog refresh from the app config cron expression
	spec := a.appConfig.Catalog.RefreshCron
	if spec != "" {
		_, err := a.sched.AddFunc(spec, func() {
			if !a.GetSettingsBoolValue("catalog", "auto_sync") {
				return
			}
			if err := a.catalogSvc.Sync(context.Background()); err != nil {
				zap.L().Error("scheduled catalog sync failed", zap.Error(err))
			}
		})
		if err != nil {
			zap.L().Error("invalid catalog refresh cron", zap.String("spec", spec), zap.Error(err))
		}
	}

	a.sched.Start()
}

// collectSystemMetrics samples host load into the metrics store.
func (a *Application) collectSystemMetrics() {
	percents, err := cpu.Percent(time.Second, false)
	if err == nil && len(percents) > 0 {
		metrics.Record(metrics.MetricSystemCPUPercent, percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		metrics.Record(metrics.MetricSystemMemPercent, vm.UsedPercent)
	}
}
