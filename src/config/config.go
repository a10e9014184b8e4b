package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config รวมค่าที่อ่านจาก environment ทั้งหมดไว้ที่เดียว
type Config struct {
	AppEnv         string
	AppURI         string
	AppBaseURL     string
	AllowedOrigins string

	MongoURI string
	MongoDB  string
	RedisURI string

	JWTSecret string

	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
	AdminEmail string

	// Google sign-in; disabled when GoogleClientID is empty
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirect     string
	FrontendURL        string
}

var (
	cfg      *Config
	loadOnce sync.Once
)

// Load reads .env once and returns the shared configuration.
func Load() *Config {
	loadOnce.Do(func() {
		// โหลดค่า Environment Variables จากไฟล์ .env (ถ้ามี)
		_ = godotenv.Load()
		cfg = FromEnv()
	})
	return cfg
}

// FromEnv builds a Config from the current process environment without touching .env.
func FromEnv() *Config {
	return &Config{
		AppEnv:         getEnv("APP_ENV", "production"),
		AppURI:         getEnv("APP_URI", "8888"),
		AppBaseURL:     os.Getenv("APP_BASE_URL"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        getEnv("MONGO_DB", "SurveyHubDB"),
		RedisURI:       os.Getenv("REDIS_URI"),
		JWTSecret:      getEnv("JWT_SECRET", "your_secret_key"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       os.Getenv("SMTP_PORT"),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		SMTPFrom:       os.Getenv("SMTP_FROM"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirect:     os.Getenv("GOOGLE_REDIRECT"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

// IsDevelopment reports whether verbose logging and dev fallbacks are enabled.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
