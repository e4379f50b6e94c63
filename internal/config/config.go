package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Port      int
	DBURL     string
	JWTSecret string
	AccessTTL time.Duration
	UploadDir string

	// geocoding provider
	GeoBaseURL string
	GeoAPIKey  string

	RedisAddr     string
	RedisPassword string

	OTLPEndpoint string
}

func Load() Config {
	// .env is optional; real env vars always win
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:           env,
		Port:          port,
		DBURL:         dbURL,
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		AccessTTL:     time.Duration(getEnvInt("ACCESS_TTL_MIN", 60)) * time.Minute,
		UploadDir:     getEnv("UPLOAD_DIR", "uploads/images"),
		GeoBaseURL:    getEnv("GEO_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GeoAPIKey:     getEnv("GEO_API_KEY", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "placeshare")
	pass := getEnv("DB_PASSWORD", "placeshare")
	name := getEnv("DB_NAME", "placeshare")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
