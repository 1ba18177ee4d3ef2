package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"slices"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/firestore"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/model"
	"github.com/weiwei-tsao/coffeenote/apps/api/pkg/util"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to Firestore")
	owner := flag.String("user", "", "Only clean visits of this owner ID (empty for all users)")
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

	mode := "LIVE"
	if *dryRun {
		mode = "DRY-RUN"
	}
	fmt.Printf("\n=== Visit Cleanup Migration [%s] ===\n", mode)
	fmt.Println("==========================================")

	if err := cleanVisits(ctx, client, *dryRun, *owner); err != nil {
		log.Fatalf("Failed to clean visits: %v", err)
	}

	fmt.Println("==========================================")
	fmt.Println("Migration completed!")
}

type updateItem struct {
	ref   *firestore.DocumentRef
	visit model.Visit
}

func cleanVisits(ctx context.Context, client *firestore.Client, dryRun bool, owner string) error {
	query := client.CollectionGroup("visits").Query
	if owner != "" {
		query = client.Collection("users").Doc(owner).Collection("visits").Query
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to get visits: %w", err)
	}
	fmt.Printf("Found %d visit documents\n", len(docs))

	var toUpdate []updateItem
	for _, doc := range docs {
		var v model.Visit
		if err := doc.DataTo(&v); err != nil {
			log.Printf("Warning: failed to parse doc %s: %v", doc.Ref.Path, err)
			continue
		}
		if !needsCleanup(v) {
			continue
		}
		toUpdate = append(toUpdate, updateItem{ref: doc.Ref, visit: v})

		if dryRun && len(toUpdate) <= 5 {
			fmt.Printf("\n--- Sample %d: %s ---\n", len(toUpdate), doc.Ref.Path)
			fmt.Printf("BEFORE: shop=%q address=%q items=%q\n", v.ShopName, v.Address, v.ItemsOrdered)
			fmt.Printf("AFTER:  shop=%q address=%q items=%q\n",
				util.CleanField(v.ShopName), util.CleanField(v.Address), util.CleanItems(v.ItemsOrdered))
		}
	}

	fmt.Printf("\nNeed cleanup: %d, already clean: %d\n", len(toUpdate), len(docs)-len(toUpdate))
	if len(toUpdate) == 0 {
		return nil
	}
	if dryRun {
		fmt.Printf("\n[DRY-RUN] Would update %d documents. Run without --dry-run to apply changes.\n", len(toUpdate))
		return nil
	}

	batchSize := 100
	for i := 0; i < len(toUpdate); i += batchSize {
		end := min(i+batchSize, len(toUpdate))

		batch := client.Batch()
		for _, item := range toUpdate[i:end] {
			updates := []firestore.Update{
				{Path: "shopName", Value: util.CleanField(item.visit.ShopName)},
				{Path: "address", Value: util.CleanField(item.visit.Address)},
			}
			// A visit whose items are all blank keeps them rather than ending up invalid.
			if items := util.CleanItems(item.visit.ItemsOrdered); len(items) > 0 {
				updates = append(updates, firestore.Update{Path: "itemsOrdered", Value: items})
			}
			batch.Update(item.ref, updates)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit batch: %w", err)
		}
		fmt.Printf("  Progress: %d/%d documents cleaned\n", end, len(toUpdate))
	}

	fmt.Printf("\n✓ Successfully cleaned %d documents\n", len(toUpdate))
	return nil
}

func needsCleanup(v model.Visit) bool {
	if util.NeedsCleanup(v.ShopName, v.Address) {
		return true
	}
	cleaned := util.CleanItems(v.ItemsOrdered)
	return len(cleaned) > 0 && !slices.Equal(cleaned, v.ItemsOrdered)
}
