package models

import (
	"gorm.io/gorm"
)

// SystemSetting is a key/value row for platform-wide configuration, e.g. the
// base commission rate under key "platform_commission_rate".
type SystemSetting struct {
	gorm.Model
	SettingKey   string  `json:"settingKey" gorm:"column:setting_key;unique;not null"`
	SettingValue float64 `json:"settingValue" gorm:"column:setting_value;not null"`
}

// TableName specifies the table name
func (SystemSetting) TableName() string {
	return "system_settings"
}
