package database

import (
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"worklog/models"
)

var DB *gorm.DB

func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	// Auto migrate the schema
	return DB.AutoMigrate(
		&models.User{},
		&models.Unit{},
		&models.Project{},
		&models.WorkItem{},
		&models.TimeEntry{},
		&models.CompanyHoliday{},
		&models.PersonalHoliday{},
		&models.AllowedDomain{},
		&models.AdminEmail{},
	)
}

// Bootstrap seeds the first administrator email. It is an explicit init
// step rather than a hook hidden in user creation: it only acts while
// the admin_emails table is empty, so an existing deployment is never
// touched.
func Bootstrap(adminEmail string) error {
	if adminEmail == "" {
		return nil
	}
	var count int64
	if err := DB.Model(&models.AdminEmail{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(adminEmail))
	if err := DB.Create(&models.AdminEmail{Email: email}).Error; err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("bootstrapped initial admin")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
