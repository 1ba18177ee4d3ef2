package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/firestore"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to Firestore")
	flag.Parse()

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

	fmt.Println("Starting migration: backfilling subscriptionTier on user profiles...")
	fmt.Println("========================================")

	if err := backfillTier(ctx, client, *dryRun); err != nil {
		log.Fatalf("Failed to backfill tiers: %v", err)
	}

	fmt.Println("========================================")
	fmt.Println("Migration completed successfully!")
}

// backfillTier sets subscriptionTier to free on every profile that has no
// tier or one that is not recognised.
func backfillTier(ctx context.Context, client *firestore.Client, dryRun bool) error {
	docs, err := client.Collection("users").Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to get users: %w", err)
	}

	total := len(docs)
	fmt.Printf("Found %d profile documents\n", total)
	if total == 0 {
		return nil
	}

	// Firestore allows 500 writes per batch; stay well below it.
	batchSize := 100
	updated := 0
	skipped := 0

	for i := 0; i < total; i += batchSize {
		end := min(i+batchSize, total)

		batch := client.Batch()
		batchCount := 0

		for _, doc := range docs[i:end] {
			raw, _ := doc.Data()["subscriptionTier"].(string)
			if _, err := model.ParseTier(raw); err == nil {
				skipped++
				continue
			}

			if dryRun {
				fmt.Printf("  [DRY-RUN] %s: %q -> %q\n", doc.Ref.ID, raw, model.TierFree)
			} else {
				batch.Update(doc.Ref, []firestore.Update{
					{Path: "subscriptionTier", Value: string(model.TierFree)},
				})
			}
			batchCount++
			updated++
		}

		if batchCount > 0 && !dryRun {
			if _, err := batch.Commit(ctx); err != nil {
				return fmt.Errorf("failed to commit batch: %w", err)
			}
			fmt.Printf("  Processed %d/%d documents...\n", end, total)
		}
	}

	verb := "updated"
	if dryRun {
		verb = "would be updated"
	}
	fmt.Printf("✓ Profiles: %d %s, %d already valid\n", updated, verb, skipped)
	return nil
}
