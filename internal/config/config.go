package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	JWTSecret string
	TokenTTL  time.Duration

	AllowedOrigins []string

	AdminUsername string
	AdminPassword string

	Storage Storage

	OTLPEndpoint string
}

// Storage holds the S3-compatible object storage settings (Cloudflare R2).
type Storage struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

func Load() Config {
	// best effort for local dev; real deployments set env directly
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("AUTH_TOKEN_TTL", 24*time.Hour),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		Storage: Storage{
			Endpoint:        getEnv("R2_ENDPOINT", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("R2_BUCKET_NAME", ""),
			PublicBaseURL:   getEnv("R2_PUBLIC_URL", ""),
		},

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	// a full DATABASE_URL wins (managed postgres hands one out)
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "carsapi")
	pass := getEnv("DB_PASSWORD", "carsapi")
	name := getEnv("DB_NAME", "carsapi")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}
