package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries process-wide settings. It is built once at startup and
// passed into constructors; nothing reads the environment after Load.
type Config struct {
	Port               string
	DBPath             string
	JWTSecret          string
	TokenTTL           time.Duration
	CORSAllowedOrigins []string
}

// Load reads configuration from the environment, after loading a .env
// file if one is present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "data/badger"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenTTL:           time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60*24)) * time.Minute,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
