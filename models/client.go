package models

import "time"

type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone     string    `gorm:"type:varchar(11);not null;index" json:"phone"`
	Cars      []Car     `gorm:"foreignKey:ClientID" json:"cars,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Car plates are unique per owner only; the same plate may reappear under a new client after a sale.
type Car struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"not null;uniqueIndex:idx_client_plate" json:"client_id"`
	Client    *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Plate     string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_client_plate;index" json:"plate"`
	Brand     string    `gorm:"type:varchar(100);not null" json:"brand"`
	Model     string    `gorm:"type:varchar(100);not null" json:"model"`
	Counter   int       `gorm:"not null;default:0" json:"counter"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
