package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// PaymentOrder mirrors one row of the Supabase 'payment_orders' table: a
// Stripe checkout session. Amount is the raw Stripe value, whose unit
// depends on the currency (EUR in cents, XPF in francs).
type PaymentOrder struct {
	ID              int64          `gorm:"primaryKey" json:"id"`
	StripeSessionID string         `gorm:"column:stripe_session_id;index" json:"stripe_session_id"`
	Email           string         `json:"email" validate:"omitempty,email"`
	FirstName       string         `gorm:"column:prenom" json:"prenom"`
	LastName        string         `gorm:"column:nom" json:"nom"`
	PackageID       string         `gorm:"column:package_id" json:"package_id" validate:"required"`
	Amount          float64        `json:"amount" validate:"required"`
	Currency        string         `json:"currency" validate:"required"`
	Status          string         `json:"status"`
	Metadata        datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (PaymentOrder) TableName() string { return "payment_orders" }

// Reference returns the idempotency key for the payment. The checkout
// session id is preferred: several payment attempts can share the numeric
// row id family but never a session id.
func (p PaymentOrder) Reference() string {
	if p.StripeSessionID != "" {
		return p.StripeSessionID
	}
	return fmt.Sprintf("STRIPE-%d", p.ID)
}

// Completed reports whether Stripe marks the session as paid through.
func (p PaymentOrder) Completed() bool {
	return p.Status == "completed" || p.Status == "paid"
}
