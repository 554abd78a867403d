package app

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/config"
	"github.com/talkincode/voltdesk/internal/cart"
	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/internal/executor"
	"github.com/talkincode/voltdesk/internal/notify"
	"github.com/talkincode/voltdesk/internal/order"
	"github.com/talkincode/voltdesk/internal/webhook"
	"github.com/talkincode/voltdesk/pkg/metrics"
)

type Application struct {
	appConfig     *config.AppConfig
	gormDB        *gorm.DB
	sched         *cron.Cron
	bus           EventBus.Bus
	configManager *ConfigManager

	cartStore cart.Store
	carts     *cart.Service
	orders    *order.Service
	executors *executor.Service
	notifier  *notify.Service
	crm       *webhook.CRMSync
}

// Ensure Application implements all interfaces
var (
	_ DBProvider            = (*Application)(nil)
	_ ConfigProvider        = (*Application)(nil)
	_ SettingsProvider      = (*Application)(nil)
	_ SchedulerProvider     = (*Application)(nil)
	_ ConfigManagerProvider = (*Application)(nil)
	_ AppContext            = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Configure output paths
	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.Logger.FileEnable {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.Logger.Filename)
	}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	// Initialize metrics with workdir convention
	err = metrics.Init(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	// Initialize database connection
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	// Ensure database schema is migrated before loading configs
	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	// wait for database initialization to complete
	go func() {
		time.Sleep(3 * time.Second)
		a.checkSuper()
		a.checkSettings()
	}()

	// Initialize the configuration manager
	a.configManager = NewConfigManager(a)

	a.bus = EventBus.New()
	a.initServices()
	a.initJob()
}

// initServices wires the domain services onto the shared bus and stores.
func (a *Application) initServices() {
	a.cartStore = a.buildCartStore()
	a.carts = cart.NewService(a.cartStore)

	a.executors = executor.NewService(executor.NewGormRepository(a.gormDB))

	a.orders = order.NewService(
		order.NewGormRepository(a.gormDB),
		order.NewGormHistoryRepository(a.gormDB),
		a.carts,
		a.bus,
	)
	a.orders.SetExecutorUpdater(a.executors)
	a.orders.SetRevealDelayFunc(func() time.Duration {
		return time.Duration(a.configManager.GetInt("orders", "PhoneRevealMinutes", 20)) * time.Minute
	})
	a.executors.SetAutoRankUpgradeFunc(func() bool {
		return a.configManager.GetBoolDefault("executor", "AutoRankUpgrade", true)
	})

	if a.appConfig.Webhook.Enabled {
		crm, err := webhook.NewCRMSync(a.appConfig.Webhook)
		if err != nil {
			zap.L().Error("failed to start crm sync", zap.Error(err))
		} else {
			a.crm = crm
			a.orders.SetCRMSyncer(crm)
		}
	}

	a.notifier = notify.NewService(a.buildNotifyStore())
	if a.appConfig.SMTP.Enabled {
		a.notifier.EnableEmail(a.appConfig.SMTP)
	}
	if err := a.notifier.SubscribeBus(a.bus); err != nil {
		zap.L().Error("failed to subscribe notifications", zap.Error(err))
	}
}

func (a *Application) buildCartStore() cart.Store {
	switch a.appConfig.CartStore.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr: a.appConfig.CartStore.RedisAddr,
			DB:   a.appConfig.CartStore.RedisDB,
		})
		return cart.NewRedisStore(rdb)
	case "memory":
		return cart.NewMemoryStore()
	default:
		path := filepath.Join(a.appConfig.System.Workdir, "data", "carts.db")
		store, err := cart.NewBoltStore(path)
		if err != nil {
			zap.L().Error("failed to open cart store, falling back to memory",
				zap.String("path", path), zap.Error(err))
			return cart.NewMemoryStore()
		}
		return store
	}
}

func (a *Application) buildNotifyStore() notify.Store {
	switch a.appConfig.CartStore.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr: a.appConfig.CartStore.RedisAddr,
			DB:   a.appConfig.CartStore.RedisDB,
		})
		return notify.NewRedisStore(rdb)
	case "memory":
		return notify.NewMemoryStore()
	default:
		path := filepath.Join(a.appConfig.System.Workdir, "data", "notifications.db")
		store, err := notify.NewBoltStore(path)
		if err != nil {
			zap.L().Error("failed to open notification store, falling back to memory",
				zap.String("path", path), zap.Error(err))
			return notify.NewMemoryStore()
		}
		return store
	}
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Bus returns the shared event bus
func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// CartService returns the cart service
func (a *Application) CartService() *cart.Service {
	return a.carts
}

// OrderService returns the order service
func (a *Application) OrderService() *order.Service {
	return a.orders
}

// ExecutorService returns the executor service
func (a *Application) ExecutorService() *executor.Service {
	return a.executors
}

// NotifyService returns the notification service
func (a *Application) NotifyService() *notify.Service {
	return a.notifier
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.crm != nil {
		a.crm.Close()
	}
	if closer, ok := a.cartStore.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
