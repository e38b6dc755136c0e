// Package config reads process configuration from the environment.
//
// A .env file in the working directory is loaded first (development); real
// environment variables win over it.
//
//	PORT              HTTP port (5175)
//	LOG_LEVEL         zerolog level (info)
//	DATABASE_PATH     SQLite file (./data/solver.db); "off" disables history
//	WORDS_DATA_DIR    dataset root; empty uses the embedded datasets
//	SOLVER_WORKERS    search goroutines; 0 uses GOMAXPROCS
//	SESSION_TTL       idle session lifetime (2h)
//	JWT_SECRET        token signing secret
//	JWT_EXPIRES_DAYS  token lifetime in days (14)
//	COOKIE_NAME       auth cookie name (solver_token)
//	CLIENT_ORIGIN     CORS origin (http://localhost:5173)
//	NODE_ENV          "production" enables Secure cookies
//	DAILY_SALT        salt for the daily secret (local_dev_salt)
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Port           string
	LogLevel       string
	DatabasePath   string
	WordsDir       string
	Workers        int
	SessionTTL     time.Duration
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
	DailySalt      string
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	return Config{
		Port:           Get("PORT", "5175"),
		LogLevel:       Get("LOG_LEVEL", "info"),
		DatabasePath:   Get("DATABASE_PATH", "./data/solver.db"),
		WordsDir:       os.Getenv("WORDS_DATA_DIR"),
		Workers:        Int("SOLVER_WORKERS", 0),
		SessionTTL:     Duration("SESSION_TTL", 2*time.Hour),
		JWTSecret:      Get("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: Int("JWT_EXPIRES_DAYS", 14),
		CookieName:     Get("COOKIE_NAME", "solver_token"),
		ClientOrigin:   Get("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",
		DailySalt:      Get("DAILY_SALT", "local_dev_salt"),
	}
}

// HistoryEnabled reports whether a database should be opened.
func (c Config) HistoryEnabled() bool { return c.DatabasePath != "" && c.DatabasePath != "off" }

// ApplyLogLevel sets the global zerolog level; unknown values are ignored.
func (c Config) ApplyLogLevel() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

// Get returns the value of k or def if unset/empty.
func Get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Int returns k parsed as an int, or def.
func Int(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Duration returns k parsed with time.ParseDuration, or def.
func Duration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
