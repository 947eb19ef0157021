package database

import (
	"errors"

	"github.com/ravstays/rav-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.OwnerAgreement{},
		&models.MembershipTier{},
		&models.UserMembership{},
		&models.CancellationRequest{},
		&models.BookingConfirmation{},
		&models.OwnerVerification{},
		&models.Dispute{},
		&models.DisputeMessage{},
		&models.SystemSetting{},
	)
	if err != nil {
		return err
	}

	// Update users table
	if db.Migrator().HasTable(&models.User{}) {
		if err := db.Exec(`ALTER TABLE users ADD COLUMN IF NOT EXISTS role text DEFAULT 'renter'`).Error; err != nil {
			return err
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('renter', 'owner', 'admin'))`)
	}

	// Status guards enforced at the database so concurrent cancellations can't
	// resurrect a cancelled booking
	db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
	db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled'))`)

	// Seed the platform base commission rate if absent
	var setting models.SystemSetting
	err = db.Where("setting_key = ?", "platform_commission_rate").First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.SystemSetting{SettingKey: "platform_commission_rate", SettingValue: 15}
		if err := db.Create(&setting).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	// Seed the default membership tiers if the table is empty
	var tierCount int64
	if err := db.Model(&models.MembershipTier{}).Count(&tierCount).Error; err != nil {
		return err
	}
	if tierCount == 0 {
		tiers := []models.MembershipTier{
			{Name: "standard", CommissionDiscountPct: 0},
			{Name: "silver", CommissionDiscountPct: 2},
			{Name: "gold", CommissionDiscountPct: 5},
		}
		if err := db.Create(&tiers).Error; err != nil {
			return err
		}
	}

	return nil
}
