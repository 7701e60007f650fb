package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.RevokedToken{},
		&models.Client{},
		&models.Car{},
		&models.Service{},
		&models.StockItem{},
		&models.StockMovement{},
		&models.WorkOrder{},
		&models.TechReport{},
		&models.Billing{},
		&models.Expense{},
		&models.Debt{},
		&models.DBChange{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedSuperAdmin creates the first SUPER_ADMIN account when none exists yet.
func SeedSuperAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if username == "" || password == "" {
		return errors.New("no super admin exists and seed credentials are empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username: username,
		Password: string(hashed),
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}
	utils.InfoLogger.Printf("Seeded super admin account %q", username)
	return nil
}

// OpenInMemory returns a migrated, isolated SQLite database with change hooks installed.
func OpenInMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := RegisterChangeHooks(db); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}
	return db, nil
}
