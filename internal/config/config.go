package config

import (
	"errors"
	"log"

	"github.com/ravstays/rav-backend/internal/models"
	"gorm.io/gorm"
)

const (
	// DefaultCommissionRate applies when no platform_commission_rate row exists.
	DefaultCommissionRate = 15.0

	CommissionRateKey = "platform_commission_rate"
)

// Settings is a read-only snapshot of platform configuration, loaded once per
// request path so commission resolution stays testable without a live store.
type Settings struct {
	PlatformCommissionRate float64
}

// LoadSettings reads the system_settings table into a snapshot. A missing key
// falls back to the default; a store failure falls back too, with a log line,
// since checkout should not abort on a config read.
func LoadSettings(db *gorm.DB) Settings {
	settings := Settings{PlatformCommissionRate: DefaultCommissionRate}

	var row models.SystemSetting
	err := db.Where("setting_key = ?", CommissionRateKey).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[CONFIG] Failed to read %s, using default: %v", CommissionRateKey, err)
		}
		return settings
	}

	settings.PlatformCommissionRate = row.SettingValue
	return settings
}
