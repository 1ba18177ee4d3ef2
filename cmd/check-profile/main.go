package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/firestore"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/repository"
)

func main() {
	owner := flag.String("user", "", "Owner ID (users/{id}) to inspect")
	flag.Parse()
	if *owner == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.LoadFirestore()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer client.Close()
	log.Printf("Connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	profiles := repository.NewProfileRepository(client)
	visits := repository.NewVisitRepository(client, logger)
	wishlist := repository.NewWishlistRepository(client, logger)

	fmt.Printf("\n=== Profile %s ===\n", *owner)
	profile, err := profiles.Get(ctx, *owner)
	switch {
	case errors.Is(err, journal.ErrNotFound):
		fmt.Println("Profile document: DOES NOT EXIST (treated as free tier)")
	case err != nil:
		log.Fatalf("Failed to get profile: %v", err)
	default:
		printJSON(profile)
	}

	userVisits, err := visits.List(ctx, *owner)
	if err != nil {
		log.Fatalf("Failed to list visits: %v", err)
	}
	entries, err := wishlist.List(ctx, *owner)
	if err != nil {
		log.Fatalf("Failed to list wishlist: %v", err)
	}
	count, err := visits.Count(ctx, *owner)
	if err != nil {
		log.Fatalf("Failed to count visits: %v", err)
	}

	fmt.Printf("\nVisits (listed / counted): %d / %d\n", len(userVisits), count)
	fmt.Printf("Wishlist entries:          %d\n", len(entries))
	if count != len(userVisits) {
		fmt.Println("Warning: some visit documents could not be decoded")
	}

	fmt.Println("\n=== Statistics ===")
	printJSON(journal.ComputeStatistics(userVisits, entries))
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal: %v", err)
	}
	fmt.Println(string(data))
}
