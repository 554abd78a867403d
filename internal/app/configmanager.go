package app

import (
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/pkg/common"
)

// ConfigManager reads and updates system settings stored in sys_config.
// Values are fetched from the database on every call so that changes made
// through the admin API take effect without a restart.
type ConfigManager struct {
	app *Application
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app}
}

func (cm *ConfigManager) getValue(category, name string) (string, bool) {
	var cfg domain.SysConfig
	err := cm.app.gormDB.
		Where("type = ? and name = ?", category, name).
		First(&cfg).Error
	if err != nil {
		return "", false
	}
	return cfg.Value, true
}

// GetString returns a string setting, or "" when unset.
func (cm *ConfigManager) GetString(category, name string) string {
	val, _ := cm.getValue(category, name)
	return val
}

// GetStringDefault returns a string setting with a fallback.
func (cm *ConfigManager) GetStringDefault(category, name, def string) string {
	if val, ok := cm.getValue(category, name); ok && val != "" {
		return val
	}
	return def
}

// GetInt64 returns an int64 setting, or 0 when unset.
func (cm *ConfigManager) GetInt64(category, name string) int64 {
	val, ok := cm.getValue(category, name)
	if !ok {
		return 0
	}
	return cast.ToInt64(val)
}

// GetInt returns an int setting, or the fallback when unset.
func (cm *ConfigManager) GetInt(category, name string, def int) int {
	val, ok := cm.getValue(category, name)
	if !ok || val == "" {
		return def
	}
	return cast.ToInt(val)
}

// GetBoolDefault returns a boolean setting with a fallback.
func (cm *ConfigManager) GetBoolDefault(category, name string, def bool) bool {
	val, ok := cm.getValue(category, name)
	if !ok || val == "" {
		return def
	}
	return cast.ToBool(val)
}

// GetBool returns a boolean setting, or false when unset.
func (cm *ConfigManager) GetBool(category, name string) bool {
	val, ok := cm.getValue(category, name)
	if !ok {
		return false
	}
	return cast.ToBool(val)
}

// SaveSettings persists a batch of settings. Keys use the form
// "category.name"; a key without a category goes under "system".
func (a *Application) SaveSettings(settings map[string]interface{}) error {
	for key, value := range settings {
		category, name := "system", key
		if i := strings.Index(key, "."); i > 0 {
			category, name = key[:i], key[i+1:]
		}
		if err := a.configManager.SetValue(category, name, cast.ToString(value)); err != nil {
			return err
		}
	}
	return nil
}

// SetValue creates or updates a setting.
func (cm *ConfigManager) SetValue(category, name, value string) error {
	var cfg domain.SysConfig
	err := cm.app.gormDB.
		Where("type = ? and name = ?", category, name).
		First(&cfg).Error
	if err != nil {
		cfg = domain.SysConfig{
			ID:    common.UUIDint64(),
			Type:  category,
			Name:  name,
			Value: value,
		}
		if err := cm.app.gormDB.Create(&cfg).Error; err != nil {
			zap.S().Errorf("create config %s.%s error: %v", category, name, err)
			return err
		}
		return nil
	}
	return cm.app.gormDB.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Update("value", value).Error
}
