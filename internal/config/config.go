package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Gemini Config
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// Ключ администратора, защищающий сброс состояния.
	// Пустое значение запрещает сброс полностью.
	AdminKey string `env:"ADMIN_KEY"`

	// CORS / WebSocket origins
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`

	// Rate limit для /analyze
	AnalyzeRateLimit  int           `env:"ANALYZE_RATE_LIMIT" envDefault:"10"`
	AnalyzeRateWindow time.Duration `env:"ANALYZE_RATE_WINDOW" envDefault:"30m"`

	// Сколько последних оповещений отдавать в bulk-read
	AdvisoryFeedLimit int `env:"ADVISORY_FEED_LIMIT" envDefault:"50"`

	// Засеивать ли дефолтные подразделения при пустой таблице
	SeedDefaultUnits bool `env:"SEED_DEFAULT_UNITS" envDefault:"true"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AdminKey:          os.Getenv("ADMIN_KEY"),
		AnalyzeRateLimit:  getEnvAsInt("ANALYZE_RATE_LIMIT", 10),
		AnalyzeRateWindow: getEnvAsDuration("ANALYZE_RATE_WINDOW", 30*time.Minute),
		AdvisoryFeedLimit: getEnvAsInt("ADVISORY_FEED_LIMIT", 50),
		SeedDefaultUnits:  getEnvAsBool("SEED_DEFAULT_UNITS", true),
	}

	// Загрузка разрешенных origins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	} else {
		cfg.AllowedOrigins = []string{"*"}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool возвращает значение переменной окружения как bool или значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
