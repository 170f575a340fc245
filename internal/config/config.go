package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB      DatabaseConfig
	Redis   RedisConfig
	Optilab OptilabConfig
	Worker  WorkerConfig
	S3      S3Config
	AWS     AWSConfig
	Email   EmailConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OptilabConfig contains credentials for the lens lab ordering integration.
// Training terminals are routed with the training key so practice orders never
// reach the production lab queue.
type OptilabConfig struct {
	BaseURL       string
	MemberID      string
	KeyProduction string
	KeyTraining   string
	WebhookSecret string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	StockAlertInterval  time.Duration
	ReportInterval      time.Duration
	ReportDailyHour     int // IST hour at which the daily report email goes out
	LabDispatchInterval time.Duration
	LabStatusInterval   time.Duration
	LabRetryInterval    time.Duration
	LabStatusStaleAfter time.Duration
	LabStatusMaxAge     time.Duration
}

// S3Config contains AWS S3 configuration for prescription scan uploads.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// AWSConfig contains AWS general configuration.
type AWSConfig struct {
	AccessKeyID       string
	SecretAccessKey   string
	RekognitionRegion string // ap-south-1 (Mumbai)
}

// EmailConfig contains the transactional email settings used for stock alerts
// and daily sales reports.
type EmailConfig struct {
	APIKey   string
	From     string
	ReportTo string // comma-separated recipient list
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Optilab lens lab
	cfg.Optilab = OptilabConfig{
		BaseURL:       getEnv("OPTILAB_BASE_URL", "https://api.optilab.in/v2"),
		MemberID:      getEnv("OPTILAB_MEMBER_ID", ""),
		KeyProduction: getEnv("OPTILAB_KEY_PRODUCTION", ""),
		KeyTraining:   getEnv("OPTILAB_KEY_TRAINING", ""),
		WebhookSecret: getEnv("OPTILAB_WEBHOOK_SECRET", ""),
	}

	// S3 (rx scan uploads, Mumbai region)
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "ap-south-1"),
		Bucket:          getEnv("S3_BUCKET", "netra-rx-scans"),
		Endpoint:        getEnv("S3_ENDPOINT", "https://s3.ap-south-1.amazonaws.com"),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// AWS General (Rekognition text detection)
	cfg.AWS = AWSConfig{
		AccessKeyID:       getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		RekognitionRegion: getEnv("AWS_REKOGNITION_REGION", "ap-south-1"),
	}

	// Email (Resend)
	cfg.Email = EmailConfig{
		APIKey:   getEnv("RESEND_API_KEY", ""),
		From:     getEnv("EMAIL_FROM", "Netra Optical <noreply@netraoptical.in>"),
		ReportTo: getEnv("EMAIL_REPORT_TO", ""),
	}

	// Workers (durations)
	var err error
	if cfg.Worker.StockAlertInterval, err = parseDurationEnv("STOCK_ALERT_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid STOCK_ALERT_INTERVAL: %w", err)
	}
	if cfg.Worker.ReportInterval, err = parseDurationEnv("REPORT_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid REPORT_INTERVAL: %w", err)
	}
	cfg.Worker.ReportDailyHour = getEnvInt("REPORT_DAILY_HOUR", 21)
	if cfg.Worker.ReportDailyHour < 0 || cfg.Worker.ReportDailyHour > 23 {
		return nil, errors.New("REPORT_DAILY_HOUR must be between 0 and 23")
	}
	if cfg.Worker.LabDispatchInterval, err = parseDurationEnv("LAB_DISPATCH_INTERVAL", "15s"); err != nil {
		return nil, fmt.Errorf("invalid LAB_DISPATCH_INTERVAL: %w", err)
	}
	if cfg.Worker.LabStatusInterval, err = parseDurationEnv("LAB_STATUS_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid LAB_STATUS_INTERVAL: %w", err)
	}
	if cfg.Worker.LabRetryInterval, err = parseDurationEnv("LAB_RETRY_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid LAB_RETRY_INTERVAL: %w", err)
	}
	if cfg.Worker.LabStatusStaleAfter, err = parseDurationEnv("LAB_STATUS_STALE_AFTER", "5m"); err != nil {
		return nil, fmt.Errorf("invalid LAB_STATUS_STALE_AFTER: %w", err)
	}
	if cfg.Worker.LabStatusMaxAge, err = parseDurationEnv("LAB_STATUS_MAX_AGE", "72h"); err != nil {
		return nil, fmt.Errorf("invalid LAB_STATUS_MAX_AGE: %w", err)
	}

	// Basic validation for DB parameters so startup fails with a clear message.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
