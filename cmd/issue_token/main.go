package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"subspace_duel/internal/service"
)

// issue_token prints a signed token for local testing against the API.
func main() {
	_ = godotenv.Load()

	playerID := flag.Int64("player", 0, "player id carried by the token")
	role := flag.String("role", service.RolePlayer, "player or operator")
	ttl := flag.Duration("ttl", service.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	if *playerID <= 0 {
		log.Fatal("-player must be a positive id")
	}
	if err := service.InitJWT(os.Getenv("JWT_SECRET")); err != nil {
		log.Fatalf("JWT_SECRET: %v", err)
	}

	token, err := service.GenerateJWT(*playerID, *role, *ttl)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	fmt.Println(token)
}
