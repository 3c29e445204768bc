package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/easytransfer/backend/internal/auth"
)

// tokengen mints an HS256 bearer token for one account, signed with the
// shared secret. Meant for local testing and for wiring up a worker.
func main() {
	var (
		accountID int64
		ttl       time.Duration
	)
	flag.Int64Var(&accountID, "account", 0, "Account id to put in the token subject")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if accountID <= 0 {
		log.Fatal("-account must be a positive account id")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	token, err := auth.NewValidator(secret).Issue(accountID, ttl)
	if err != nil {
		log.Fatalf("Token signing failed: %v", err)
	}
	fmt.Println(token)
}
