package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orangejuice/internal/domain/asset"
	"orangejuice/internal/infrastructure/postgres"
	"orangejuice/internal/shared/config"
)

const usage = `OrangeJuice Admin CLI - Operator commands for the OrangeJuiceBank API

Usage:
  admin <command> [options]

Commands:
  migrate       Apply the database schema
  seed-assets   Insert the default asset catalog into an empty database
  list-assets   Print the asset catalog
  set-price     Update the current price of an asset

Examples:
  admin migrate
  admin seed-assets
  admin list-assets
  admin set-price --asset-id=0b6f3c1e-5d1a-4c1b-9a77-2f1f0c9a3e10 --price=38.90
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate(os.Args[2:])
	case "seed-assets":
		runSeedAssets(os.Args[2:])
	case "list-assets":
		runListAssets(os.Args[2:])
	case "set-price":
		runSetPrice(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage + "\n")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage + "\n")
		os.Exit(1)
	}
}

// connect loads the configuration and opens the database with a bounded
// context for the command.
func connect(timeout time.Duration) (*postgres.DB, context.Context, context.CancelFunc) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.Driver, cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return db, ctx, cancel
}

func parseTimeout(fs *flag.FlagSet, args []string) time.Duration {
	timeoutStr := fs.String("timeout", "1m", "Timeout for the operation (e.g., 30s, 5m)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}
	return timeout
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	timeout := parseTimeout(fs, args)

	db, ctx, cancel := connect(timeout)
	defer db.Close()
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

func runSeedAssets(args []string) {
	fs := flag.NewFlagSet("seed-assets", flag.ExitOnError)
	timeout := parseTimeout(fs, args)

	db, ctx, cancel := connect(timeout)
	defer db.Close()
	defer cancel()

	assets := asset.NewService(postgres.NewAssetRepository(db), db)
	n, err := assets.SeedDefaults(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	if n == 0 {
		log.Println("Catalog already populated, nothing to seed")
	}
}

func runListAssets(args []string) {
	fs := flag.NewFlagSet("list-assets", flag.ExitOnError)
	timeout := parseTimeout(fs, args)

	db, ctx, cancel := connect(timeout)
	defer db.Close()
	defer cancel()

	assets, err := asset.NewService(postgres.NewAssetRepository(db), db).List(ctx)
	if err != nil {
		log.Fatalf("Failed to list assets: %v", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPRICE\tUPDATED")
	for _, a := range assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Name, a.Type, a.CurrentPrice.StringFixed(2), a.UpdatedAt.Format(time.RFC3339))
	}
	tw.Flush()
}

func runSetPrice(args []string) {
	fs := flag.NewFlagSet("set-price", flag.ExitOnError)

	assetIDStr := fs.String("asset-id", "", "Asset ID to reprice")
	priceStr := fs.String("price", "", "New price with at most 2 decimal places")

	fs.Usage = func() {
		fmt.Println("Usage: admin set-price --asset-id=<uuid> --price=<amount>")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	timeout := parseTimeout(fs, args)

	if *assetIDStr == "" || *priceStr == "" {
		fmt.Println("Error: must specify --asset-id and --price")
		fs.Usage()
		os.Exit(1)
	}

	assetID, err := uuid.Parse(*assetIDStr)
	if err != nil {
		log.Fatalf("Invalid asset ID '%s': %v", *assetIDStr, err)
	}
	price, err := decimal.NewFromString(*priceStr)
	if err != nil {
		log.Fatalf("Invalid price '%s': %v", *priceStr, err)
	}

	db, ctx, cancel := connect(timeout)
	defer db.Close()
	defer cancel()

	updated, err := asset.NewService(postgres.NewAssetRepository(db), db).SetPrice(ctx, assetID, price)
	if err != nil {
		log.Fatalf("Failed to set price: %v", err)
	}

	// Running API instances pick the change up through the asset_price_changed channel.
	log.Printf("%s repriced to %s", updated.Name, updated.CurrentPrice.StringFixed(2))
}
