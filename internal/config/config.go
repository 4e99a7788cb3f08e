package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// DeleteHorizon is how long a session row is kept after creation before the
// delete sweep may remove it. Rows are only deleted once they are also marked
// expired, so a replayed token keeps answering with a deterministic rejection
// for two full days before the evidence goes away.
const DeleteHorizon = 48 * time.Hour

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Reaper cadences are derived from the token TTL so
// they always track the token lifetime.
type Config struct {
	Env           string        // application environment (dev, prod)
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	JWTSecret     string        // secret used to sign bearer tokens, at least 32 bytes
	TokenTTL      time.Duration // bearer token lifetime
	BcryptCost    int           // bcrypt cost for password hashing
	Hostname      string        // node label echoed into every problem-detail body
	AdminUsername string        // bootstrap admin username
	AdminPassword string        // bootstrap admin password
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		TokenTTL:      time.Duration(intOr("TOKEN_TTL_MIN", 600)) * time.Minute,
		BcryptCost:    intOr("BCRYPT_COST", 10),
		Hostname:      must("HOSTNAME_LABEL"),
		AdminUsername: must("FIRST_ADMIN_USERNAME"),
		AdminPassword: must("FIRST_ADMIN_PASSWORD"),
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 bytes")
	}
	return cfg
}

// ExpireInterval is how often the reaper marks aged sessions expired.
func (c Config) ExpireInterval() time.Duration { return c.TokenTTL / 2 }

// ExpireHorizon is the session age beyond which the expire sweep applies.
func (c Config) ExpireHorizon() time.Duration { return c.TokenTTL }

// DeleteInterval is how often the reaper deletes aged expired sessions.
func (c Config) DeleteInterval() time.Duration { return c.TokenTTL }

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an integer environment variable, falling back to def when
// unset. An unparsable value is fatal.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
