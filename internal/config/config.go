package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Storage  StorageConfig
	Embedder EmbedderConfig
	Face     FaceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// StorageConfig holds face image storage configuration
type StorageConfig struct {
	Type     string // "local" for now
	BasePath string
	BaseURL  string
}

// EmbedderConfig points at the face embedding inference endpoint
type EmbedderConfig struct {
	Endpoint   string
	APIKey     string
	Dimensions int
}

// FaceConfig holds recognition thresholds
type FaceConfig struct {
	SimilarityThreshold float64
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timekeep-dtr"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	// Embedder configuration
	embedderDims, err := strconv.Atoi(getEnv("EMBEDDER_DIMENSIONS", "128"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMBEDDER_DIMENSIONS: %w", err)
	}
	config.Embedder = EmbedderConfig{
		Endpoint:   getEnv("EMBEDDER_ENDPOINT", ""),
		APIKey:     getEnv("EMBEDDER_API_KEY", ""),
		Dimensions: embedderDims,
	}

	// Face recognition thresholds
	threshold, err := strconv.ParseFloat(getEnv("FACE_SIMILARITY_THRESHOLD", "0.75"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FACE_SIMILARITY_THRESHOLD: %w", err)
	}
	config.Face = FaceConfig{
		SimilarityThreshold: threshold,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Embedder.Endpoint == "" {
		return fmt.Errorf("EMBEDDER_ENDPOINT is required")
	}
	if c.Face.SimilarityThreshold <= 0 || c.Face.SimilarityThreshold > 1 {
		return fmt.Errorf("FACE_SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
