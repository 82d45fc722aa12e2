package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/obrasuite/obrasuite/config"
	"github.com/obrasuite/obrasuite/internal/cart"
	"github.com/obrasuite/obrasuite/internal/catalog"
	"github.com/obrasuite/obrasuite/internal/pricing"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
}

// BusProvider provides the application event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// ConfigManagerProvider provides configuration manager access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// CatalogProvider provides the catalog sync service
type CatalogProvider interface {
	Catalog() *catalog.Service
}

// PricingProvider provides the storewide discount
type PricingProvider interface {
	Discount() *pricing.Provider
}

// CartProvider provides the durable cart store
type CartProvider interface {
	CartStore() *cart.Store
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	BusProvider
	ConfigManagerProvider
	CatalogProvider
	PricingProvider
	CartProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// RunSchedulerNow triggers a scheduler execution immediately by ID
	RunSchedulerNow(id int64) error
}
