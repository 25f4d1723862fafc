package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bazarghat/backend/internal/models"
)

type Config struct {
	ServerPort int
	LogLevel   string
	PublicURL  string
	StaticDir  string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	JWT_SECRET string
	AccessTTL  time.Duration

	MAIL_HOST     string
	MAIL_PORT     int
	MAIL_SENDER   string
	MAIL_PASSWORD string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	KAFKA_BROKERS []string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),
		PublicURL:  EnvDefault("PUBLIC_URL", "http://localhost:8080"),
		StaticDir:  EnvDefault("STATIC_DIR", "static"),

		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		JWT_SECRET: os.Getenv("JWT_SECRET"),
		AccessTTL:  time.Duration(EnvIntDefault("ACCESS_TTL_MINUTES", 15)) * time.Minute,

		MAIL_HOST:     EnvDefault("MAIL_HOST", "smtp.gmail.com"),
		MAIL_PORT:     EnvIntDefault("MAIL_PORT", 587),
		MAIL_SENDER:   os.Getenv("MAIL_SENDER"),
		MAIL_PASSWORD: os.Getenv("MAIL_PASSWORD"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		KAFKA_BROKERS: CSV(os.Getenv("KAFKA_BROKERS")),
	}

	return config, nil
}

// MustValidate stops the process when a value the auth or mail flow cannot
// run without is missing.
func (c *Config) MustValidate() {
	MustNonEmpty(c.JWT_SECRET, "JWT_SECRET")
	MustNonEmpty(c.DB_HOST, "DB_HOST")
	MustNonEmpty(c.DB_NAME, "DB_NAME")
	MustNonEmpty(c.MAIL_SENDER, "MAIL_SENDER")
	MustNonEmpty(c.MAIL_PASSWORD, "MAIL_PASSWORD")
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER, configuration.DB_PASSWORD,
		configuration.DB_HOST, configuration.DB_PORT, configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Business{}, &models.Product{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
