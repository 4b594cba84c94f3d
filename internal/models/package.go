package models

import "time"

// AiraloPackage mirrors one row of the Supabase 'airalo_packages' table:
// an eSIM offer from the upstream catalog. Read-only input to the product
// synchronizer.
type AiraloPackage struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	AiraloID      string    `gorm:"column:airalo_id;index" json:"airalo_id"`
	Name          string    `json:"name"`
	Region        string    `json:"region"`
	PriceEUR      float64   `gorm:"column:price_eur" json:"price_eur"`
	FinalPriceEUR float64   `gorm:"column:final_price_eur" json:"final_price_eur"`
	Description   string    `json:"description"`
	DataAmount    float64   `gorm:"column:data_amount" json:"data_amount"`
	DataUnit      string    `gorm:"column:data_unit" json:"data_unit"`
	ValidityDays  int       `gorm:"column:validity_days" json:"validity_days"`
	ImageURL      string    `gorm:"column:image_url" json:"image_url"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (AiraloPackage) TableName() string { return "airalo_packages" }

// Price returns the customer-facing price: the final (margin-adjusted)
// price when set, the raw catalog price otherwise.
func (p AiraloPackage) Price() float64 {
	if p.FinalPriceEUR > 0 {
		return p.FinalPriceEUR
	}
	return p.PriceEUR
}
