package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"community-app-go/pkg/logger"
)

type Config struct {
	HTTPPort   string
	Env        string
	CORS       CORSConfig
	DB         DBConfig
	Identity   IdentityConfig
	Moderation ModerationConfig
	Directory  DirectoryConfig
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// IdentityConfig points at the external identity provider that verifies
// bearer tokens and returns the principal for a request.
type IdentityConfig struct {
	URL          string
	APIKey       string
	Timeout      time.Duration
	SkipAuth     bool
	MockUserID   string
	MockUserName string
	MockUserRole string
}

// ModerationConfig points at the external text-moderation classifier.
type ModerationConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Skip    bool
}

type DirectoryConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	IDBatchSize     int
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			AllowedMethods: getEnvList("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
			AllowedHeaders: getEnvList("CORS_ALLOWED_HEADERS", "Authorization,Content-Type"),
			MaxAge:         getEnvDuration("CORS_MAX_AGE", 24*time.Hour),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "community_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Identity: IdentityConfig{
			URL:          getEnv("IDENTITY_URL", ""),
			APIKey:       getEnv("IDENTITY_API_KEY", ""),
			Timeout:      getEnvDuration("IDENTITY_TIMEOUT", 5*time.Second),
			SkipAuth:     getEnvBool("AUTH_SKIP", false),
			MockUserID:   getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserName: getEnv("AUTH_MOCK_USER_NAME", "Dev User"),
			MockUserRole: getEnv("AUTH_MOCK_USER_ROLE", "user"),
		},
		Moderation: ModerationConfig{
			URL:     getEnv("MODERATION_URL", ""),
			APIKey:  getEnv("MODERATION_API_KEY", ""),
			Timeout: getEnvDuration("MODERATION_TIMEOUT", 5*time.Second),
			Skip:    getEnvBool("MODERATION_SKIP", false),
		},
		Directory: DirectoryConfig{
			DefaultPageSize: getEnvInt("DIRECTORY_DEFAULT_PAGE_SIZE", 50),
			MaxPageSize:     getEnvInt("DIRECTORY_MAX_PAGE_SIZE", 500),
			IDBatchSize:     getEnvInt("DIRECTORY_ID_BATCH_SIZE", 500),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
