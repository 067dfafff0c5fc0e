package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	UsersTable   string
	S3BucketName string

	// JWTSecret signs session tokens. Required — the process refuses to
	// start without it.
	JWTSecret []byte
	TokenTTL  time.Duration

	// StoreTimeout bounds every DynamoDB call so a slow store fails the
	// request instead of hanging it.
	StoreTimeout time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
// It returns an error when JWT_SECRET is missing.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		UsersTable:   getEnv("DYNAMO_TABLE_USERS", "users"),
		S3BucketName: getEnv("S3_BUCKET_NAME", "mealhub-avatars"),

		JWTSecret: []byte(secret),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,

		StoreTimeout: time.Duration(getEnvInt("STORE_TIMEOUT_MS", 3000)) * time.Millisecond,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
