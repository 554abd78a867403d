package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/config"
	"github.com/talkincode/voltdesk/internal/cart"
	"github.com/talkincode/voltdesk/internal/executor"
	"github.com/talkincode/voltdesk/internal/notify"
	"github.com/talkincode/voltdesk/internal/order"
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
	SaveSettings(settings map[string]interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ConfigManagerProvider provides configuration manager access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// ServiceProvider provides the domain services
type ServiceProvider interface {
	Bus() EventBus.Bus
	CartService() *cart.Service
	OrderService() *order.Service
	ExecutorService() *executor.Service
	NotifyService() *notify.Service
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	ConfigManagerProvider
	ServiceProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
