package app

import (
	"errors"
	"time"

	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type settingSchema struct {
	Category    string
	Name        string
	Default     string
	Description string
}

var defaultSettings = []settingSchema{
	{"catalog", "page_size", "500", "Page size used against the external catalog feed"},
	{"catalog", "auto_sync", "true", "Whether the scheduler refreshes the catalog"},
	{"cart", "max_lines", "200", "Upper bound on distinct cart lines"},
	{"orders", "pickup_address", "Av. Rivadavia 1234, CABA", "Branch address shown for takeaway orders"},
	{"orders", "delivery_windows", "8:00 - 12:00,12:00 - 16:00,16:00 - 20:00", "Selectable delivery windows"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", schema.Category, schema.Name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   schema.Category,
				Name:   schema.Name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Category+"."+schema.Name),
				zap.String("default", schema.Default))
		}
	}
}

// checkDiscount guarantees exactly one active global discount row exists.
// A fresh install starts at 0%.
func (a *Application) checkDiscount() {
	var row domain.GlobalDiscount
	err := a.gormDB.Where("active = ?", true).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.GlobalDiscount{
			ID:         common.UUIDint64(),
			Percentage: 0,
			Active:     true,
			Remark:     "storewide discount",
		}).Error; err != nil {
			zap.L().Error("failed to create default discount row", zap.Error(err))
			return
		}
		zap.L().Info("initialized global discount row at 0%")
	case err != nil:
		zap.L().Error("failed to query global discount", zap.Error(err))
	}
}

// checkSchedulers initializes default scheduled tasks
func (a *Application) checkSchedulers() {
	defaultSchedulers := []domain.SysScheduler{
		{
			Name:     "Catalog Sync",
			TaskType: "catalog_sync",
			Interval: 21600, // 6 hours
			Status:   common.ENABLED,
			Remark:   "Full re-fetch of the external product catalog",
		},
		{
			Name:     "System Metrics",
			TaskType: "system_metrics",
			Interval: 60,
			Status:   common.ENABLED,
			Remark:   "Samples host cpu/memory into the metrics store",
		},
	}

	for _, sched := range defaultSchedulers {
		var count int64
		a.gormDB.Model(&domain.SysScheduler{}).
			Where("task_type = ?", sched.TaskType).
			Count(&count)

		if count == 0 {
			sched.ID = common.UUIDint64()
			sched.NextRunAt = time.Now().Add(time.Duration(sched.Interval) * time.Second)
			if err := a.gormDB.Create(&sched).Error; err != nil {
				zap.L().Error("failed to create default scheduler",
					zap.String("name", sched.Name),
					zap.Error(err))
			} else {
				zap.L().Info("initialized default scheduler",
					zap.String("name", sched.Name),
					zap.String("task_type", sched.TaskType))
			}
		}
	}
}
