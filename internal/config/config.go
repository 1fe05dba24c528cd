package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración de la aplicación.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Backend de incidentes (upstream)
	BackendURL     string        `env:"BACKEND_URL"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Sesiones y caché
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	CacheTTL   time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Espera antes de refrescar tras un evento, para dar tiempo al backend
	// a reflejar la escritura.
	RefreshDebounce time.Duration `env:"REFRESH_DEBOUNCE" envDefault:"300ms"`

	// Webhook saliente opcional para reenviar eventos de incidentes
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Orígenes permitidos para CORS (separados por coma)
	CORSOrigins []string `env:"CORS_ORIGINS"`
}

// LoadConfig carga la configuración desde variables de entorno y el archivo .env.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error al cargar el archivo .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		BackendURL:        os.Getenv("BACKEND_URL"),
		BackendTimeout:    getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 8*time.Hour),
		CacheTTL:          getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		RefreshDebounce:   getEnvAsDuration("REFRESH_DEBOUNCE", 300*time.Millisecond),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
	}

	originsStr := os.Getenv("CORS_ORIGINS")
	if originsStr != "" {
		cfg.CORSOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.CORSOrigins {
			cfg.CORSOrigins[i] = strings.TrimSpace(origin)
		}
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv devuelve el valor de la variable de entorno o el valor por defecto.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt devuelve el valor como int o el valor por defecto.
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration devuelve el valor como time.Duration o el valor por defecto.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
