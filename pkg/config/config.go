package config

import (
	"os"
	"strconv"
)

// Config holds environment driven configuration values.
type Config struct {
	Port               string
	Env                string
	PostgresConnStr    string
	JWTSecret          string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	LogLevel           string
	LogPath            string
	LogMaxSizeMB       int
	LogMaxBackups      int
	LogMaxAgeDays      int
	RateLimitPerMinute int
	UploadDir          string
	MaxUploadSizeMB    int
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		PostgresConnStr:    getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:          getEnv("JWT_SECRET", "supersecretjwtkey"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPath:            getEnv("LOG_PATH", ""),
		LogMaxSizeMB:       getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:      getEnvInt("LOG_MAX_AGE_DAYS", 7),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB:    getEnvInt("MAX_UPLOAD_SIZE_MB", 5),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
