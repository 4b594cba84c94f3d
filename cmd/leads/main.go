package main

import (
	"context"
	"log"

	"github.com/fenuasim/odoosync/internal/config"
	"github.com/fenuasim/odoosync/internal/database"
	"github.com/fenuasim/odoosync/internal/odoo"
	"github.com/fenuasim/odoosync/internal/store"
	"github.com/fenuasim/odoosync/internal/sync"
)

func main() {
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
	if err := engine.SyncLeads(context.Background()); err != nil {
		log.Printf("❌ Lead synchronization failed: %v", err)
	}
}
