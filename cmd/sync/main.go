package main

import (
	"context"
	"flag"
	"log"

	"github.com/fenuasim/odoosync/internal/config"
	"github.com/fenuasim/odoosync/internal/database"
	"github.com/fenuasim/odoosync/internal/odoo"
	"github.com/fenuasim/odoosync/internal/store"
	"github.com/fenuasim/odoosync/internal/sync"
)

func main() {
	fast := flag.Bool("fast", false, "skip the catalog, reconcile orders and payments only")
	products := flag.Bool("products", false, "synchronize the product catalog only")
	flag.Parse()

	// Configuration and connection failures are the only fatal errors:
	// once the batch starts, individual records can fail freely.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	db, err := database.Connect(cfg.Supabase)
	if err != nil {
		log.Fatalf("❌ Supabase connection failed: %v", err)
	}
	defer db.Close()

	client := odoo.NewClient(cfg.Odoo.URL, cfg.Odoo.Database, cfg.Odoo.Username, cfg.Odoo.Password)
	if _, err := client.Authenticate(); err != nil {
		log.Fatalf("❌ Odoo connection failed: %v", err)
	}

	engine := sync.New(client, store.New(db))
	ctx := context.Background()

	switch {
	case *products:
		engine.RunProducts(ctx)
	case *fast:
		engine.RunFast(ctx)
	default:
		engine.RunFull(ctx)
	}
}
