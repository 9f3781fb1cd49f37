package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/database"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/highland-admin-portal/internal/seed"
	"github.com/highland-admin-portal/pkg/logger"
)

func main() {
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	randSeed := flag.Uint64("rand-seed", 0, "fixed random seed (0 picks one)")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New(cfg.Log.Level, cfg.Log.Format, "highland-seed")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *migrate {
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	ds, err := seed.LoadDataset()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	var opts seed.Options
	if *randSeed != 0 {
		opts.Rand = rand.New(rand.NewPCG(*randSeed, *randSeed))
	}

	fmt.Println("POPULATING DATABASE WITH DUMMY DATA")
	counts, err := seed.New(repository.New(db), ds, opts, log).Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	printSummary(counts)
}

func printSummary(c *models.TableCounts) {
	w := os.Stdout
	fmt.Fprintln(w, "DATABASE POPULATED SUCCESSFULLY!")
	fmt.Fprintln(w, "\nSummary:")
	rows := []struct {
		label string
		n     int
	}{
		{"Users", c.Users},
		{"Customers", c.Customers},
		{"Products", c.Products},
		{"Callsheets", c.Callsheets},
		{"Callsheet Entries", c.CallsheetEntries},
		{"Todo Items", c.TodoItems},
		{"Company Updates", c.CompanyUpdates},
		{"Customer Stock Items", c.CustomerStockItems},
		{"Stock Transactions", c.StockTransactions},
		{"Standing Orders", c.StandingOrders},
		{"Clearance Items", c.ClearanceItems},
		{"KB Suppliers", c.Suppliers},
		{"KB Categories", c.Categories},
		{"KB Articles", c.Articles},
		{"Forms", c.Forms},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "- %s: %d\n", r.label, r.n)
	}
	fmt.Fprintf(w, "\nLogin credentials:\nUsername: %s\nPassword: %s\n", seed.KeepUsername, seed.DefaultPassword)
}
