package models

import "time"

// AiraloOrder mirrors one row of the Supabase 'airalo_orders' table: an eSIM
// order placed through the storefront. Immutable from the engine's
// perspective; the order_id is the idempotency key on the Odoo side.
type AiraloOrder struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"column:order_id;index" json:"order_id" validate:"required"`
	Email     string    `json:"email" validate:"omitempty,email"`
	FirstName string    `gorm:"column:prenom" json:"prenom"`
	LastName  string    `gorm:"column:nom" json:"nom"`
	PackageID string    `gorm:"column:package_id" json:"package_id" validate:"required"`
	Status    string    `json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AiraloOrder) TableName() string { return "airalo_orders" }

// Completed reports whether the source marks the order as paid through.
func (o AiraloOrder) Completed() bool {
	return o.Status == "completed"
}
