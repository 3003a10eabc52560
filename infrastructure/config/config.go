package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string

	// AWS configuration
	AWSRegion        string
	AWSAccessKeyID   string
	AWSSecretKey     string
	DynamoDBTable    string
	DynamoDBEndpoint string // local development override, empty in AWS

	// Secondary indexes
	UserQuoteIndex     string // GSI1 - quotations by creating user
	FamilyProductIndex string // GSI2 - products by family

	// Blob storage
	S3Bucket      string
	PresignExpiry time.Duration

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		AWSRegion:        getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:   getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoDBTable:    getEnv("DYNAMO_TABLE_NAME", "quotely"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT_URL", ""),

		UserQuoteIndex:     getEnv("USER_QUOTE_INDEX", "User-Date-Index"),
		FamilyProductIndex: getEnv("FAMILY_PRODUCT_INDEX", "Family-Product-Index"),

		S3Bucket:      getEnv("AWS_S3_BUCKET_NAME", ""),
		PresignExpiry: getEnvDuration("S3_PRESIGN_EXPIRY", time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMO_TABLE_NAME is required")
		}
		if c.S3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET_NAME is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable (seconds) with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
