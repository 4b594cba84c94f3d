// Package store reads the Supabase source tables the sync consumes. Rows
// come back in insertion order so reconciliation is deterministic across
// runs. The only write the engine ever performs against the source is the
// lead sync flag.
package store

import (
	"context"
	"fmt"

	"github.com/fenuasim/odoosync/internal/database"
	"github.com/fenuasim/odoosync/internal/models"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Packages returns the full eSIM catalog.
func (s *Store) Packages(ctx context.Context) ([]models.AiraloPackage, error) {
	var rows []models.AiraloPackage
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read airalo_packages: %w", err)
	}
	return rows, nil
}

// Orders returns all storefront eSIM orders.
func (s *Store) Orders(ctx context.Context) ([]models.AiraloOrder, error) {
	var rows []models.AiraloOrder
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read airalo_orders: %w", err)
	}
	return rows, nil
}

// StandardOrders returns all site-checkout orders.
func (s *Store) StandardOrders(ctx context.Context) ([]models.StandardOrder, error) {
	var rows []models.StandardOrder
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return rows, nil
}

// PaymentOrders returns all Stripe checkout sessions.
func (s *Store) PaymentOrders(ctx context.Context) ([]models.PaymentOrder, error) {
	var rows []models.PaymentOrder
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read payment_orders: %w", err)
	}
	return rows, nil
}

// UnsyncedLeads returns leads not yet pushed to Odoo CRM.
func (s *Store) UnsyncedLeads(ctx context.Context) ([]models.Lead, error) {
	var rows []models.Lead
	err := s.db.WithContext(ctx).
		Where("odoo_synced = ?", false).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read leads: %w", err)
	}
	return rows, nil
}

// MarkLeadSynced flags a lead so the next run skips it.
func (s *Store) MarkLeadSynced(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ?", id).
		Update("odoo_synced", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark lead %d synced: %w", id, err)
	}
	return nil
}
