package models

import "time"

const DefaultMinimumStock = 5

type StockItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Item         string    `gorm:"type:varchar(200);not null" json:"item"`
	Serial       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"serial"`
	BuyPrice     float64   `gorm:"type:decimal(12,4);not null;default:0" json:"buy_price"`
	SellPrice    float64   `gorm:"type:decimal(12,4);not null;default:0" json:"sell_price"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`
	IsOil        bool      `gorm:"not null;default:false" json:"is_oil"`
	Description  string    `gorm:"type:text" json:"description"`
	MinimumStock int       `gorm:"not null" json:"minimum_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsLowStock is true when some stock remains but less than the minimum.
func (s StockItem) IsLowStock() bool {
	return s.Quantity > 0 && s.Quantity < s.MinimumStock
}

func (s StockItem) IsOutOfStock() bool {
	return s.Quantity == 0
}

const (
	MovementDeduction  = "deduction"
	MovementAdjustment = "adjustment"
	MovementSkipped    = "skipped"
	MovementReturn     = "return"
)

// StockMovement records every change, or refused change, to a stock item's quantity.
type StockMovement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StockItemID    uint      `gorm:"not null;index" json:"stock_item_id"`
	Kind           string    `gorm:"type:varchar(20);not null" json:"kind"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	QuantityBefore int       `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int       `gorm:"not null" json:"quantity_after"`
	WorkOrderID    *uint     `gorm:"index" json:"work_order_id,omitempty"`
	Note           string    `gorm:"type:varchar(255)" json:"note"`
	CreatedAt      time.Time `json:"created_at"`
}

type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(12,4);not null;default:0" json:"price"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
