package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/FACorreiaa/go-placefinder/internal/app/models"
)

type PlacesConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	PageTokenDelay time.Duration
	// DetailFields is the allow-list forwarded on every details call.
	DetailFields    []string
	ParallelDetails bool
	DetailWorkers   int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type WizardConfig struct {
	QuestionCount       int
	DefaultMaxResults   int
	DefaultRadiusMeters int
	SessionTTL          time.Duration
	PriceMatchMode      models.PriceMatchMode
}

type Config struct {
	Places          PlacesConfig
	Gemini          GeminiConfig
	Wizard          WizardConfig
	ServerPort      string
	MetricsPort     string
	PprofEnabled    bool
	PprofPort       string
	ShutdownTimeout time.Duration
	LogLevel        string
}

// DefaultDetailFields matches what the wizard actually renders; the
// gateway never requests more than this.
var DefaultDetailFields = []string{
	"place_id", "name", "rating", "reviews", "price_level", "photos",
	"formatted_address", "types", "website", "url",
	"user_ratings_total", "geometry",
}

func Load() (*Config, error) {
	cfg := &Config{
		Places: PlacesConfig{
			APIKey:          os.Getenv("GOOGLE_PLACES_API_KEY"),
			BaseURL:         getEnvOrDefault("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api"),
			RequestTimeout:  getDurationOrDefault("PLACES_REQUEST_TIMEOUT", 15*time.Second),
			PageTokenDelay:  getDurationOrDefault("PLACES_PAGE_TOKEN_DELAY", 2*time.Second),
			DetailFields:    DefaultDetailFields,
			ParallelDetails: getBoolOrDefault("PLACES_PARALLEL_DETAILS", false),
			DetailWorkers:   getIntOrDefault("PLACES_DETAIL_WORKERS", 4),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Wizard: WizardConfig{
			QuestionCount:       getIntOrDefault("WIZARD_QUESTION_COUNT", 5),
			DefaultMaxResults:   getIntOrDefault("WIZARD_MAX_RESULTS", models.DefaultMaxResults),
			DefaultRadiusMeters: getIntOrDefault("WIZARD_DEFAULT_RADIUS", 5000),
			SessionTTL:          getDurationOrDefault("WIZARD_SESSION_TTL", 30*time.Minute),
			PriceMatchMode:      models.PriceMatchMode(getEnvOrDefault("PRICE_MATCH_MODE", string(models.PriceMatchExact))),
		},
		ServerPort:      getEnvOrDefault("SERVER_PORT", "8094"),
		MetricsPort:     getEnvOrDefault("METRICS_PORT", "9092"),
		PprofEnabled:    getBoolOrDefault("PPROF_ENABLED", true),
		PprofPort:       getEnvOrDefault("PPROF_PORT", "6060"),
		ShutdownTimeout: getDurationOrDefault("SHUTDOWN_TIMEOUT", 5*time.Second),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if cfg.Places.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_PLACES_API_KEY environment variable is required")
	}
	if cfg.Wizard.QuestionCount != 5 && cfg.Wizard.QuestionCount != 7 {
		return nil, fmt.Errorf("WIZARD_QUESTION_COUNT must be 5 or 7, got %d", cfg.Wizard.QuestionCount)
	}
	switch cfg.Wizard.PriceMatchMode {
	case models.PriceMatchExact, models.PriceMatchRange:
	default:
		return nil, fmt.Errorf("PRICE_MATCH_MODE must be %q or %q", models.PriceMatchExact, models.PriceMatchRange)
	}
	if cfg.Wizard.DefaultMaxResults < 1 {
		return nil, fmt.Errorf("WIZARD_MAX_RESULTS must be positive")
	}
	if cfg.Wizard.DefaultRadiusMeters < 1 || cfg.Wizard.DefaultRadiusMeters > models.MaxRadiusMeters {
		return nil, fmt.Errorf("WIZARD_DEFAULT_RADIUS must be between 1 and %d", models.MaxRadiusMeters)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
