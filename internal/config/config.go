package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
)

type Config struct {
	ServerAddr string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// JWTSecret signs access tokens; JWTRefreshSecret signs refresh tokens.
	// Separate secrets so compromise of one cannot forge the other token class.
	JWTSecret        string
	JWTRefreshSecret string

	RedisAddr string

	// MinIO/S3 configuration for job attachments and profile images
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3UseSSL       bool
	S3UsePathStyle bool

	CORSOrigins []string
}

func Load() *Config {
	useSSL, _ := strconv.ParseBool(getEnvOrDefault("S3_USE_SSL", "false"))
	pathStyle, _ := strconv.ParseBool(getEnvOrDefault("S3_USE_PATH_STYLE", "true"))

	return &Config{
		ServerAddr:       getEnvOrDefault("SERVER_ADDR", ":8080"),
		DBHost:           getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:           getEnvOrDefault("DB_PORT", "5432"),
		DBUser:           getEnvOrDefault("DB_USER", "careerhub"),
		DBPassword:       getEnvOrDefault("DB_PASSWORD", "careerhub_dev_password"),
		DBName:           getEnvOrDefault("DB_NAME", "careerhub"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", generateDefaultSecret()),
		JWTRefreshSecret: getEnvOrDefault("JWT_REFRESH_SECRET", generateDefaultSecret()),
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		S3Endpoint:       getEnvOrDefault("S3_ENDPOINT", "http://localhost:9000"),
		S3Region:         getEnvOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:      getEnvOrDefault("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnvOrDefault("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnvOrDefault("S3_BUCKET", "careerhub-files"),
		S3UseSSL:         useSSL,
		S3UsePathStyle:   pathStyle,
		CORSOrigins:      []string{getEnvOrDefault("CORS_ORIGIN", "*")},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// generateDefaultSecret produces a random per-process secret so a dev
// instance without JWT_SECRET set still rejects tokens minted elsewhere.
func generateDefaultSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "dev-secret-change-in-production"
	}
	return hex.EncodeToString(bytes)
}
