package app

import (
	"context"
	"time"

	"github.com/obrasuite/obrasuite/internal/domain"
	"go.uber.org/zap"
)

// SchedulerService runs enabled schedulers periodically
func (a *Application) StartSchedulerService(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runSchedulers(ctx)
			}
		}
	}()
}

// runSchedulers executes enabled schedulers whose next run is due
func (a *Application) runSchedulers(ctx context.Context) {
	var schedulers []domain.SysScheduler
	a.gormDB.Where("status = ?", "enabled").Find(&schedulers)
	now := time.Now()
	for _, sched := range schedulers {
		if sched.NextRunAt.IsZero() || !now.Before(sched.NextRunAt) {
			a.runScheduler(ctx, &sched)
			a.gormDB.Model(&domain.SysScheduler{}).
				Where("id = ?", sched.ID).
				Update("next_run_at", now.Add(time.Duration(sched.Interval)*time.Second))
		}
	}
}

func (a *Application) runScheduler(ctx context.Context, sched *domain.SysScheduler) {
	result, message := "success", ""
	switch sched.TaskType {
	case "catalog_sync":
		if !a.GetSettingsBoolValue("catalog", "auto_sync") {
			result, message = "skipped", "auto_sync disabled"
			break
		}
		if err := a.catalogSvc.Sync(ctx); err != nil {
			result, message = "failed", err.Error()
		} else {
			message = "catalog refreshed"
		}
	case "system_metrics":
		a.collectSystemMetrics()
	default:
		result, message = "skipped", "unsupported task type"
	}

	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  result,
		"last_message": message,
	})

	if result == "failed" {
		zap.L().Warn("scheduler run failed",
			zap.String("task_type", sched.TaskType),
			zap.String("message", message))
	}
}

// RunSchedulerNow triggers a scheduler execution immediately by ID
func (a *Application) RunSchedulerNow(id int64) error {
	var sched domain.SysScheduler
	if err := a.gormDB.First(&sched, id).Error; err != nil {
		return err
	}

	a.runScheduler(context.Background(), &sched)

	now := time.Now()
	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"next_run_at": now.Add(time.Duration(sched.Interval) * time.Second),
	})
	return nil
}
