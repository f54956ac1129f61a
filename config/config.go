package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/talentbridge/backend/internal/gateway"
	"github.com/talentbridge/backend/internal/mailer"
	"github.com/talentbridge/backend/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

func LoadRazorpayConfig() (*RazorpayConfig, error) {
	return &RazorpayConfig{
		KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
	}, nil
}

func InitRazorpayClient(cfg *RazorpayConfig) (gateway.Client, error) {
	return gateway.NewRazorpayClient(cfg.KeyID, cfg.KeySecret), nil
}

func LoadSMTPConfig() (mailer.SMTPConfig, error) {
	port := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return mailer.SMTPConfig{}, fmt.Errorf("invalid SMTP_PORT: %v", err)
		}
		port = parsed
	}

	return mailer.SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       port,
		Username:   os.Getenv("SMTP_USER"),
		Password:   os.Getenv("SMTP_PASS"),
		From:       os.Getenv("SMTP_USER"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
		AppURL:     os.Getenv("APP_URL"),
	}, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

// createPendingTransactionIndex backs the one-pending-per-pair rule at
// the storage layer, so a concurrent duplicate submission loses even if
// it slips past the in-transaction check.
func createPendingTransactionIndex(db *gorm.DB) error {
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_single_pending " +
			"ON transactions (user_id, course_id) " +
			"WHERE status = 'pending' AND deleted_at IS NULL",
	).Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lecture{},
		&models.Question{},
		&models.Transaction{},
		&models.CourseProgress{},
	)
	if err != nil {
		return nil, err
	}

	if err := createPendingTransactionIndex(db); err != nil {
		return nil, err
	}

	seedAdmin(db)

	return db, nil
}

// seedAdmin provisions the admin account from the environment. There is
// no self-served admin signup.
func seedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.User
	if result := db.Where("email = ?", email).First(&existing); result.Error == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		ID:       uuid.New(),
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("failed to seed admin user: %v", err)
	}
}
