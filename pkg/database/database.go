package database

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inventory-service/internal/model"
	"inventory-service/pkg/config"
)

// Initialize opens the PostgreSQL connection, runs migrations and seeds the
// distinguished defaults. The returned handle is the single store owner; it
// is injected everywhere rather than read from a package global.
func Initialize(appConfig *config.Config) (*gorm.DB, error) {
	pgConfig := postgres.Config{
		DSN:                  appConfig.DB.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(appConfig.DB.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	if appConfig.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(appConfig.DB.MaxIdleConns)
	}
	if appConfig.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(appConfig.DB.MaxOpenConns)
	}
	if appConfig.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(appConfig.DB.ConnMaxLifetime)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedDefaults(db, appConfig.Seed.AdminPassword); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the table structure for every entity
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Branch{},
		&model.Category{},
		&model.Product{},
		&model.Tag{},
		&model.Transaction{},
		&model.Transfer{},
		&model.Sale{},
		&model.User{},
	)
}

// SeedDefaults creates the distinguished records the invariants depend on:
// the main branch and the admin account. Both are idempotent.
func SeedDefaults(db *gorm.DB, adminPassword string) error {
	var branch model.Branch
	err := db.First(&branch, "id = ?", model.MainBranchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Create(&model.Branch{
			ID:      model.MainBranchID,
			Name:    "Main Branch",
			Address: "Main Location",
		}).Error
	}
	if err != nil {
		return fmt.Errorf("failed to seed main branch: %w", err)
	}

	var admin model.User
	err = db.First(&admin, "username = ?", model.AdminUsername).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		err = db.Create(&model.User{
			Username:    model.AdminUsername,
			Password:    string(hash),
			Role:        model.RoleAdmin,
			Permissions: model.JoinPermissions(model.AllPermissions),
			Active:      true,
			CreatedBy:   "system",
		}).Error
	}
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
