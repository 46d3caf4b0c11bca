// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"crypto/rand"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the service's runtime settings.
type Config struct {
	ListenAddr    string        // HTTP/WebSocket listen address.
	RedisAddr     string        // Redis address for the action historian. Empty disables it.
	DatabaseURL   string        // Postgres connection string. Empty disables persistence.
	SessionSecret []byte        // Secret for signing session tokens.
	TurnTimeout   time.Duration // Per-turn timer. Zero disables timeouts.
	WinScore      int           // Score a player must exceed to win.
	LogLevel      logrus.Level  // Service-wide log level.
	MatchPlayers  int           // Players per match.
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over file entries.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("config: could not read .env file")
	}

	cfg := Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		TurnTimeout:   time.Duration(getEnvInt("TURN_TIMEOUT_SEC", 90)) * time.Second,
		WinScore:      getEnvInt("WIN_SCORE", 10),
		MatchPlayers:  getEnvInt("MATCH_PLAYERS", 4),
	}
	if len(cfg.SessionSecret) == 0 {
		cfg.SessionSecret = make([]byte, 32)
		if _, err := rand.Read(cfg.SessionSecret); err != nil {
			logrus.WithError(err).Fatal("config: could not generate a session secret")
		}
		logrus.Warn("config: SESSION_SECRET not set, sessions will not survive a restart")
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		logrus.WithField("value", os.Getenv("LOG_LEVEL")).Warn("config: invalid LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	cfg.LogLevel = level
	return cfg
}

// getEnv returns the variable's value or a fallback when unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses an integer variable, falling back on absence or a
// parse failure.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": v}).Warn("config: not an integer, using default")
		return fallback
	}
	return n
}
