package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName string
	Env     string

	APIBaseURL  string
	HTTPTimeout time.Duration

	// StateDir holds the session database and the log file. No conversation
	// or message data is ever written there.
	StateDir  string
	SessionDB string
	LogFile   string

	Debug bool
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		AppName:     getEnv("APP_NAME", "AlumnConnect"),
		Env:         getEnv("APP_ENV", "development"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:5001/api"),
		HTTPTimeout: time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		StateDir:    getEnv("STATE_DIR", defaultStateDir()),
		Debug:       getEnvAsBool("DEBUG", false),
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	cfg.SessionDB = getEnv("SESSION_DB", filepath.Join(cfg.StateDir, "session.db"))
	cfg.LogFile = getEnv("LOG_FILE", filepath.Join(cfg.StateDir, "client.log"))

	return cfg, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "alumnconnect")
	}
	return ".alumnconnect"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
