package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource              string
	Port                  string
	Env                   string
	JWTSecret             string
	MaxContactsPerAccount int
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	dbSource := os.Getenv("DB_SOURCE")
	if dbSource == "" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	maxContacts := 5
	if v := os.Getenv("MAX_CONTACTS_PER_ACCOUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_CONTACTS_PER_ACCOUNT must be a positive integer, got %q", v)
		}
		maxContacts = n
	}

	return &Config{
		DBSource:              dbSource,
		Port:                  port,
		Env:                   env,
		JWTSecret:             secret,
		MaxContactsPerAccount: maxContacts,
	}, nil
}
