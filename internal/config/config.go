package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	ConnectTimeout  time.Duration
	OpTimeout       time.Duration
	JWTSecret       string
	TokenTTL        time.Duration
	AuthUsername    string
	AuthPassword    string
}

func Load() (Config, error) {
	_ = godotenv.Load() // load .env if present

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI required")
	}

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        mongoURI,
		MongoDatabase:   getEnv("MONGO_DB", "assessment_db"),
		MongoCollection: getEnv("MONGO_COLLECTION", "employees"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AuthUsername:    getEnv("AUTH_USERNAME", "testuser"),
		AuthPassword:    getEnv("AUTH_PASSWORD", "testpassword"),
	}

	var err error
	if cfg.ConnectTimeout, err = getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.OpTimeout, err = getDuration("MONGO_OP_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 5s or 30m: %w", key, err)
	}
	return d, nil
}
