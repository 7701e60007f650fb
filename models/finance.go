package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Expense struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Category  string    `gorm:"type:varchar(100);index" json:"category"`
	Quantity  float64   `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64   `gorm:"type:decimal(12,4);not null;default:0" json:"unit_price"`
	Total     float64   `gorm:"type:decimal(12,4);not null;default:0" json:"total"`
	SpentAt   time.Time `gorm:"index" json:"spent_at"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DebtPayment struct {
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Note   string    `json:"note,omitempty"`
}

type Debt struct {
	ID          uint                             `gorm:"primaryKey" json:"id"`
	Creditor    string                           `gorm:"type:varchar(200);not null" json:"creditor"`
	Description string                           `gorm:"type:text" json:"description"`
	Value       float64                          `gorm:"type:decimal(12,4);not null;default:0" json:"value"`
	DueDate     *time.Time                       `json:"due_date"`
	Payments    datatypes.JSONSlice[DebtPayment] `json:"payments"`
	AmountPaid  float64                          `gorm:"-" json:"amount_paid"`
	Balance     float64                          `gorm:"-" json:"remaining"`
	CreatedAt   time.Time                        `json:"created_at"`
	UpdatedAt   time.Time                        `json:"updated_at"`
}

func (d Debt) Paid() float64 {
	var sum float64
	for _, p := range d.Payments {
		sum += p.Amount
	}
	return sum
}

// Remaining never goes below zero, even when overpaid.
func (d Debt) Remaining() float64 {
	r := d.Value - d.Paid()
	if r < 0 {
		return 0
	}
	return r
}

// AfterFind fills the derived payment totals.
func (d *Debt) AfterFind(tx *gorm.DB) error {
	d.AmountPaid = d.Paid()
	d.Balance = d.Remaining()
	return nil
}
