package devapi

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	ADDR            string
	DB_HOST         string
	DB_PORT         string
	DB_USER         string
	DB_PASSWORD     string
	DB_NAME         string
	DB_FILE         string
	JWT_SECRET      string
	KAFKA_ADDRESS   string
	PUBLISHABLE_KEY string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("no .env file, using system environment", "error", err)
	}

	config := &Config{
		ADDR:            getenv("DEVAPI_ADDR", ":8080"),
		DB_HOST:         os.Getenv("DB_HOST"),
		DB_PORT:         getenv("DB_PORT", "5432"),
		DB_USER:         os.Getenv("DB_USER"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		DB_FILE:         getenv("DB_FILE", "devapi.db"),
		JWT_SECRET:      getenv("JWT_SECRET", "dev-secret"),
		KAFKA_ADDRESS:   os.Getenv("KAFKA_ADDRESS"),
		PUBLISHABLE_KEY: getenv("PUBLISHABLE_KEY", "pk_test_dev"),
	}

	return config, nil
}

// InitDB opens postgres when DB_HOST is set, the local sqlite file
// otherwise, and migrates the schema.
func InitDB(configuration *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if configuration.DB_HOST != "" {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			configuration.DB_USER, configuration.DB_PASSWORD,
			configuration.DB_HOST, configuration.DB_PORT, configuration.DB_NAME,
		)
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(configuration.DB_FILE)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(
		&User{}, &Product{}, &CartItem{}, &Order{}, &OrderItem{},
		&Payment{}, &Devolution{}, &PasswordReset{}, &Setting{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
