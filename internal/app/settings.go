package app

import (
	"sync"
	"time"

	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/pkg/common"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// ConfigManager caches sys_config rows with a short TTL so hot paths do
// not query the settings table per request.
type ConfigManager struct {
	app *Application

	mu       sync.RWMutex
	values   map[string]string
	loadedAt time.Time
	ttl      time.Duration
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{
		app:    app,
		values: map[string]string{},
		ttl:    30 * time.Second,
	}
}

func settingKey(category, name string) string {
	return category + "." + name
}

func (m *ConfigManager) reloadIfStale() {
	m.mu.RLock()
	fresh := time.Since(m.loadedAt) < m.ttl
	m.mu.RUnlock()
	if fresh {
		return
	}

	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Warn("settings reload failed", zap.Error(err))
		return
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[settingKey(row.Type, row.Name)] = row.Value
	}

	m.mu.Lock()
	m.values = values
	m.loadedAt = time.Now()
	m.mu.Unlock()
}

func (m *ConfigManager) GetString(category, name string) string {
	m.reloadIfStale()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[settingKey(category, name)]
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// SetValue writes one setting through to the database and invalidates the
// cache.
func (m *ConfigManager) SetValue(category, name, value string) error {
	var row domain.SysConfig
	err := m.app.DB().Where("type = ? and name = ?", category, name).First(&row).Error
	if err != nil {
		row = domain.SysConfig{ID: common.UUIDint64(), Type: category, Name: name, Value: value}
		err = m.app.DB().Create(&row).Error
	} else {
		err = m.app.DB().Model(&domain.SysConfig{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.loadedAt = time.Time{}
	m.mu.Unlock()
	return nil
}
