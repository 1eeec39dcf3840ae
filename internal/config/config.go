package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	JWTTTL       time.Duration
	ResetTTL     time.Duration
	RedisAddr    string
	AllowOrigins []string

	// Stripe credentials. When StripeSecretKey is empty the mock payment
	// gateway is selected at startup.
	StripeSecretKey     string
	StripeWebhookSecret string
	MockWebhookToken    string
}

// Load reads configuration from the environment, with an optional .env
// file for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		MongoURI:            getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getenv("MONGO_DB", "bazaar"),
		JWTSecret:           getenv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:              getdur("JWT_TTL", 24*time.Hour),
		ResetTTL:            getdur("RESET_TOKEN_TTL", time.Hour),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		AllowOrigins:        splitCSV(getenv("CORS_ORIGINS", "*")),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		MockWebhookToken:    getenv("MOCK_WEBHOOK_TOKEN", "test_webhook_token"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
