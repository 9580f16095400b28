package config

import (
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	MediaDir    string

	// Twilio Config
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// Firebase Config
	FirebaseCredentials string

	// Routing provider for the safe-route feature
	RoutingAPIBaseURL string
	RoutingAPIKey     string

	// App Settings
	MaxRespondersPerAlert int
	DefaultPIN            string
	RateLimitRequests     int
	RateLimitWindow       int // minutes
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "mongodb://localhost:27017/aegis"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		MediaDir:    getEnv("MEDIA_DIR", "./media"),

		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		RoutingAPIBaseURL: getEnv("ROUTING_API_BASE_URL", "https://router.project-osrm.org"),
		RoutingAPIKey:     getEnv("ROUTING_API_KEY", ""),

		MaxRespondersPerAlert: getEnvAsInt("MAX_RESPONDERS_PER_ALERT", 3),
		DefaultPIN:            getEnv("DEFAULT_DEACTIVATION_PIN", "2580"),
		RateLimitRequests:     getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:       getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 1),
	}
}

func InitRedis(cfg *Config) *redis.Client {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		// Fallback to default config
		opt = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	return redis.NewClient(opt)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
