// internal/config/config.go
package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-default-secret-key"

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port string
}

type JWTConfig struct {
	Secret string
}

// RedisConfig is optional; an empty URL disables the listing cache.
type RedisConfig struct {
	URL string
}

// StorageConfig points at an S3-compatible bucket holding member photos.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Prefix        string
	UseSSL        bool
	PublicBaseURL string
}

type AuthConfig struct {
	// RequireCurrentToken makes the gate accept only the token issued by
	// the admin's most recent login.
	RequireCurrentToken bool
	RegistrationEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "alumni"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", defaultJWTSecret),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:        getEnv("STORAGE_BUCKET", "alumni-photos"),
			Prefix:        getEnv("STORAGE_PREFIX", "photos"),
			UseSSL:        getEnvBool("STORAGE_USE_SSL", false),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		},
		Auth: AuthConfig{
			RequireCurrentToken: getEnvBool("AUTH_REQUIRE_CURRENT_TOKEN", false),
			RegistrationEnabled: getEnvBool("ADMIN_REGISTRATION_ENABLED", true),
		},
		Env:      getEnv("ENVIRONMENT", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if config.Storage.PublicBaseURL == "" {
		scheme := "http"
		if config.Storage.UseSSL {
			scheme = "https"
		}
		config.Storage.PublicBaseURL = scheme + "://" + config.Storage.Endpoint + "/" + config.Storage.Bucket
	}

	if config.Env == "production" && config.JWT.Secret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid boolean for %s, using default", key)
		return defaultValue
	}
	return parsed
}
