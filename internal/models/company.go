package models

import "time"

// Company is the tenant every other record hangs off.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	GSTIN     string    `gorm:"size:15" json:"gstin"`
	State     string    `gorm:"size:50;not null" json:"state"` // decides CGST+SGST vs IGST
	Address   string    `gorm:"size:255" json:"address"`
	Phone     string    `gorm:"size:50" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Users []User `json:"-"`
}
