package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"ardu.app/feed/log"
)

// Config holds settings for the client, the reference server and the batch
// jobs. Each binary reads only the fields it needs.
type Config struct {
	Client struct {
		APIURL         string
		RequestTimeout time.Duration
		SessionFile    string
	}
	Server struct {
		Port          string
		DatabaseURL   string
		JWTSecret     string
		TokenTTL      time.Duration
		AdminEmail    string
		AdminPassword string
	}
	Firebase struct {
		CredentialsPath string
	}
	Archive struct {
		After time.Duration
	}
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		log.Warn.Printf("config: could not load %v: %v", files, err)
	}

	cfg := &Config{}

	cfg.Client.APIURL = getEnv("ARDU_API_URL", "http://localhost:8080")
	cfg.Client.RequestTimeout = getDuration("ARDU_REQUEST_TIMEOUT", 10*time.Second)
	cfg.Client.SessionFile = getEnv("ARDU_SESSION_FILE", defaultSessionFile())

	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.Server.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.Server.TokenTTL = time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour
	cfg.Server.AdminEmail = getEnv("ADMIN_EMAIL", "")
	cfg.Server.AdminPassword = getEnv("ADMIN_PASSWORD", "")

	cfg.Firebase.CredentialsPath = getEnv("FIREBASE_CREDENTIALS_PATH", "")

	cfg.Archive.After = time.Duration(getInt("ARCHIVE_AFTER_DAYS", 7)) * 24 * time.Hour

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warn.Printf("config: invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

// getDuration accepts Go durations ("15s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Warn.Printf("config: invalid %s=%q, using %s", key, raw, fallback)
	return fallback
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ardu-session.json"
	}
	return filepath.Join(dir, "ardu", "session.json")
}
