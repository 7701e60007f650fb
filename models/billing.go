package models

import (
	"fmt"
	"time"
)

type Billing struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	WorkOrderID   uint       `gorm:"uniqueIndex;not null" json:"work_order_id"`
	WorkOrder     *WorkOrder `gorm:"foreignKey:WorkOrderID" json:"work_order,omitempty"`
	InvoiceNumber string     `gorm:"type:varchar(50);index" json:"invoice_number"`
	PartsCost     float64    `gorm:"type:decimal(12,4);not null;default:0" json:"parts_cost"`
	ServicesCost  float64    `gorm:"type:decimal(12,4);not null;default:0" json:"services_cost"`
	WashCost      float64    `gorm:"type:decimal(12,4);not null;default:0" json:"wash_cost"`
	LaborCost     float64    `gorm:"type:decimal(12,4);not null;default:0" json:"labor_cost"`
	OilChangeCost float64    `gorm:"type:decimal(12,4);not null;default:0" json:"oil_change_cost"`
	Subtotal      float64    `gorm:"type:decimal(12,4);not null;default:0" json:"subtotal"`
	Tax           float64    `gorm:"type:decimal(12,4);not null;default:0" json:"tax"`
	Deposit       float64    `gorm:"type:decimal(12,4);not null;default:0" json:"deposit"`
	Total         float64    `gorm:"type:decimal(12,4);not null;default:0" json:"total"`
	Paid          bool       `gorm:"not null;default:false;index" json:"paid"`
	PaidAt        *time.Time `json:"paid_at"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// InvoiceNumberFor formats the printable invoice number, e.g. INV/20240131/000042.
func InvoiceNumberFor(at time.Time, workOrderID uint) string {
	return fmt.Sprintf("INV/%s/%06d", at.Format("20060102"), workOrderID)
}
