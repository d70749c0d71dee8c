package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"hyphema-tracker/internal/logger"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Storage  StorageConfig
	Detector DetectorConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// StorageConfig controls where uploaded eye photos are written.
type StorageConfig struct {
	UploadDir string
}

// DetectorConfig describes how the external hyphema detector is launched.
// The detector is a black box: one positional argument (absolute photo
// path), JSON on stdout, diagnostics on stderr.
type DetectorConfig struct {
	Interpreter string
	ScriptPath  string
	Timeout     time.Duration
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	maxUpload, err := strconv.ParseInt(getEnvOrDefault("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}

	detectorTimeout, err := time.ParseDuration(getEnvOrDefault("DETECTOR_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DETECTOR_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(getEnvOrDefault("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("LISTEN_PORT", "8080"),
			MaxUploadBytes:  maxUpload,
			ShutdownTimeout: shutdownTimeout,
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "hyphema_tracker"),
		},
		Storage: StorageConfig{
			UploadDir: getEnvOrDefault("UPLOAD_DIR", "uploads"),
		},
		Detector: DetectorConfig{
			Interpreter: getEnvOrDefault("DETECTOR_INTERPRETER", "python3"),
			ScriptPath:  getEnvOrDefault("DETECTOR_SCRIPT", "scripts/analyze_hyphema.py"),
			Timeout:     detectorTimeout,
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if cfg.Detector.ScriptPath == "" {
		return nil, fmt.Errorf("DETECTOR_SCRIPT must not be empty")
	}

	return cfg, nil
}
