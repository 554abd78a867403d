package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appname  string `yaml:"appname" json:"appname"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// CartStoreConfig selects the cart/notification persistence port.
type CartStoreConfig struct {
	// Backend is one of memory, bbolt, redis.
	Backend   string `yaml:"backend" json:"backend"`
	RedisAddr string `yaml:"redis_addr" json:"redis_addr"`
	RedisDB   int    `yaml:"redis_db" json:"redis_db"`
}

type WebhookConfig struct {
	CrmURL  string `yaml:"crm_url" json:"crm_url"`
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Workers int    `yaml:"workers" json:"workers"`
}

type SMTPConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	User    string `yaml:"user" json:"user"`
	Passwd  string `yaml:"passwd" json:"passwd"`
	From    string `yaml:"from" json:"from"`
	To      string `yaml:"to" json:"to"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system" json:"system"`
	Web       WebConfig       `yaml:"web" json:"web"`
	Database  DBConfig        `yaml:"database" json:"database"`
	Logger    LoggerConfig    `yaml:"logger" json:"logger"`
	CartStore CartStoreConfig `yaml:"cart_store" json:"cart_store"`
	Webhook   WebhookConfig   `yaml:"webhook" json:"webhook"`
	SMTP      SMTPConfig      `yaml:"smtp" json:"smtp"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appname:  "VoltDesk",
		Location: "Europe/Moscow",
		Workdir:  "/var/voltdesk",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "voltdesk",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/voltdesk/voltdesk.log",
	},
	CartStore: CartStoreConfig{
		Backend: "bbolt",
	},
	Webhook: WebhookConfig{
		Workers: 4,
	},
	SMTP: SMTPConfig{
		Port: 25,
	},
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("VOLTDESK_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("VOLTDESK_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("VOLTDESK_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("VOLTDESK_WEB_PORT", &cfg.Web.Port)
	setEnvValue("VOLTDESK_WEB_SECRET", &cfg.Web.JwtSecret)

	setEnvValue("VOLTDESK_DB_TYPE", &cfg.Database.Type)
	setEnvValue("VOLTDESK_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("VOLTDESK_DB_PORT", &cfg.Database.Port)
	setEnvValue("VOLTDESK_DB_NAME", &cfg.Database.Name)
	setEnvValue("VOLTDESK_DB_USER", &cfg.Database.User)
	setEnvValue("VOLTDESK_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("VOLTDESK_CART_BACKEND", &cfg.CartStore.Backend)
	setEnvValue("VOLTDESK_CART_REDIS_ADDR", &cfg.CartStore.RedisAddr)

	setEnvValue("VOLTDESK_CRM_URL", &cfg.Webhook.CrmURL)
	setEnvBoolValue("VOLTDESK_CRM_ENABLED", &cfg.Webhook.Enabled)

	return cfg
}

// InitDirs creates the workdir layout.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0755)
}

// GetLogDir returns the log directory under workdir.
func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}
