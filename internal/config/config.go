package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Odoo     OdooConfig
	Supabase SupabaseConfig
}

// OdooConfig holds Odoo XML-RPC connection settings
type OdooConfig struct {
	URL      string
	Database string
	Username string
	Password string
}

// SupabaseConfig holds the Supabase Postgres connection settings
type SupabaseConfig struct {
	DSN string
}

// Load loads configuration from environment variables. A missing credential
// is a configuration error: the caller must abort before touching any record.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	odoo := OdooConfig{
		URL:      os.Getenv("ODOO_URL"),
		Database: os.Getenv("ODOO_DB"),
		Username: os.Getenv("ODOO_USER"),
		Password: os.Getenv("ODOO_PASSWORD"),
	}
	if odoo.URL == "" || odoo.Database == "" || odoo.Username == "" || odoo.Password == "" {
		return nil, fmt.Errorf("missing Odoo credentials: check ODOO_URL, ODOO_DB, ODOO_USER, ODOO_PASSWORD")
	}

	dsn := os.Getenv("SUPABASE_DB_URL")
	if dsn == "" {
		// Fallback: assemble the DSN from individual variables
		host := os.Getenv("SUPABASE_DB_HOST")
		if host == "" {
			return nil, fmt.Errorf("missing Supabase connection: set SUPABASE_DB_URL or SUPABASE_DB_*")
		}
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=require",
			host,
			getEnv("SUPABASE_DB_PORT", "5432"),
			getEnv("SUPABASE_DB_USER", "postgres"),
			os.Getenv("SUPABASE_DB_PASSWORD"),
			getEnv("SUPABASE_DB_NAME", "postgres"),
		)
	}

	return &Config{
		Odoo:     odoo,
		Supabase: SupabaseConfig{DSN: dsn},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
