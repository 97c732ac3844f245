// Command issue-token prints a signed operator token for the mutating ledger routes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Behnamfe76/expense-ledger/internal/auth"
)

func main() {
	_ = godotenv.Load()

	operator := flag.String("operator", "", "operator name stored in the token")
	ttl := flag.Int("ttl", 60, "token lifetime in minutes")
	flag.Parse()

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	token, exp, err := auth.NewTokenManager(secret, *ttl).GenerateToken(*operator)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
}
