package models

import "time"

// StandardOrder mirrors one row of the Supabase 'orders' table: an order
// placed through the regular site checkout. These rows carry no payment
// status; the matching payment record drives the sale order's lifecycle.
type StandardOrder struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"column:order_id;index" json:"order_id" validate:"required"`
	Email     string    `json:"email" validate:"omitempty,email"`
	FirstName string    `gorm:"column:prenom" json:"prenom"`
	LastName  string    `gorm:"column:nom" json:"nom"`
	PackageID string    `gorm:"column:package_id" json:"package_id" validate:"required"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (StandardOrder) TableName() string { return "orders" }
