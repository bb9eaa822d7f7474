package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Env                string
	Port               string
	DatabaseDSN        string
	RedisURL           string
	LogLevel           string
	Timezone           string
	SessionTTL         time.Duration
	SubmitGrace        time.Duration
	CookieName         string
	CookieDomain       string
	CookieSecure       bool
	AllowedOrigins     []string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

func (s *Settings) IsProduction() bool {
	return s.Env == "production"
}

// Current holds the settings loaded by Init.
var Current = defaultSettings()

// Load reads the optional .env file and the process environment.
func Load() *Settings {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Asia/Manila")
	v.SetDefault("SESSION_TTL", 8*time.Hour)
	v.SetDefault("SUBMIT_GRACE", 2*time.Minute)
	v.SetDefault("COOKIE_NAME", "session")
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}
	v.AutomaticEnv()

	return &Settings{
		Env:                v.GetString("ENV"),
		Port:               v.GetString("PORT"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		RedisURL:           v.GetString("REDIS_URL"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Timezone:           v.GetString("TIMEZONE"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		SubmitGrace:        v.GetDuration("SUBMIT_GRACE"),
		CookieName:         v.GetString("COOKIE_NAME"),
		CookieDomain:       v.GetString("COOKIE_DOMAIN"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		AllowedOrigins:     splitCSV(v.GetString("ALLOWED_ORIGINS")),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
	}
}

func defaultSettings() *Settings {
	return &Settings{
		Env:            "development",
		Port:           "8080",
		LogLevel:       "info",
		Timezone:       "Asia/Manila",
		SessionTTL:     8 * time.Hour,
		SubmitGrace:    2 * time.Minute,
		CookieName:     "session",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
