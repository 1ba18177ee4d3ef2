// Command mint-token signs a bearer token for local development against
// AUTH_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	apirouter "github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/http"
)

func main() {
	owner := flag.String("user", "", "Owner ID to put in the token subject (required)")
	email := flag.String("email", "", "Email claim, used when the profile is first created")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	_ = godotenv.Load(".env.local", ".env")

	if *owner == "" {
		flag.Usage()
		os.Exit(2)
	}
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	token, err := apirouter.SignToken(secret, *owner, *email, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
