package models

import (
	"time"

	"gorm.io/datatypes"
)

type WorkOrderStatus string

const (
	StatusWaiting    WorkOrderStatus = "waiting"
	StatusPending    WorkOrderStatus = "pending"
	StatusAssigned   WorkOrderStatus = "assigned"
	StatusInProgress WorkOrderStatus = "in_progress"
	StatusCompleted  WorkOrderStatus = "completed"
)

func IsValidStatus(s WorkOrderStatus) bool {
	switch s {
	case StatusWaiting, StatusPending, StatusAssigned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type WorkOrder struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	ClientID      uint                        `gorm:"not null;index" json:"client_id"`
	Client        *Client                     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CarID         uint                        `gorm:"not null;index" json:"car_id"`
	Car           *Car                        `gorm:"foreignKey:CarID" json:"car,omitempty"`
	Complaint     string                      `gorm:"type:text" json:"complaint"`
	Deposit       float64                     `gorm:"type:decimal(12,4);not null;default:0" json:"deposit"`
	Services      datatypes.JSONSlice[string] `json:"services"`
	OilChange     string                      `gorm:"type:varchar(100)" json:"oil_change"`
	OilConfirmed  bool                        `gorm:"not null;default:false" json:"oil_confirmed"`
	WashConfirmed bool                        `gorm:"not null;default:false" json:"wash_confirmed"`
	Status        WorkOrderStatus             `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	TechnicianID  *uint                       `gorm:"index" json:"technician_id"`
	Technician    *User                       `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	TechReport    *TechReport                 `gorm:"foreignKey:WorkOrderID" json:"tech_report,omitempty"`
	Billing       *Billing                    `gorm:"foreignKey:WorkOrderID" json:"billing,omitempty"`
	CompletedAt   *time.Time                  `json:"completed_at"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// IsOwnedBy reports whether technicianID is the order's technician.
func (w WorkOrder) IsOwnedBy(technicianID uint) bool {
	return w.TechnicianID != nil && *w.TechnicianID == technicianID
}

// UsedPart is one consumed stock line on a tech report.
type UsedPart struct {
	PartID   uint `json:"part_id"`
	Quantity int  `json:"quantity"`
}

// Wash tiers recorded on a tech report. Zero means no wash.
const (
	WashNone     = 0
	WashInterior = 1
	WashExterior = 2
	WashFull     = 3
	WashChemical = 4
)

type TechReport struct {
	ID              uint                          `gorm:"primaryKey" json:"id"`
	WorkOrderID     uint                          `gorm:"uniqueIndex;not null" json:"work_order_id"`
	TechnicianID    *uint                         `gorm:"index" json:"technician_id"`
	Technician      *User                         `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	WorkDescription string                        `gorm:"type:text" json:"work_description"`
	TimeSpent       float64                       `gorm:"not null;default:0" json:"time_spent"`
	UsedParts       datatypes.JSONSlice[UsedPart] `json:"used_parts"`
	Services        datatypes.JSONSlice[uint]     `json:"services"`
	WashType        int                           `gorm:"not null;default:0" json:"wash_type"`
	Notes           string                        `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
}
