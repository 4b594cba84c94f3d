package models

import "time"

// Lead mirrors one row of the Supabase 'leads' table: a contact captured by
// the signup popup, pushed once into Odoo CRM and flagged as synced.
type Lead struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	FirstName  string    `gorm:"column:first_name" json:"first_name"`
	LastName   string    `gorm:"column:last_name" json:"last_name"`
	Email      string    `json:"email"`
	Source     string    `json:"source"`
	OdooSynced bool      `gorm:"column:odoo_synced" json:"odoo_synced"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Lead) TableName() string { return "leads" }
