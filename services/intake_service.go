package services

import (
	"context"

	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
)

// IntakeRequest is reception's one-step registration. Either ClientID or
// Client must be given.
type IntakeRequest struct {
	ClientID  uint         `json:"client_id"`
	Client    *ClientInput `json:"client"`
	Car       CarInput     `json:"car" binding:"required"`
	Complaint string       `json:"complaint"`
	Deposit   float64      `json:"deposit" binding:"gte=0"`
	Services  []string     `json:"services"`
	OilChange string       `json:"oil_change"`
}

type IntakeResult struct {
	Client       *models.Client    `json:"client"`
	Registration *CarRegistration  `json:"car_registration"`
	WorkOrder    *models.WorkOrder `json:"work_order"`
}

type IntakeService struct {
	store store.Store
}

func NewIntakeService(s store.Store) *IntakeService {
	return &IntakeService{store: s}
}

// Register creates or reuses the client, registers or transfers the car and
// opens a waiting work order, all or nothing.
func (s *IntakeService) Register(ctx context.Context, req IntakeRequest) (*IntakeResult, error) {
	if req.ClientID == 0 && req.Client == nil {
		return nil, validationError("either client_id or client is required")
	}

	result := &IntakeResult{}
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if req.ClientID != 0 {
			result.Client, err = tx.Clients().Get(ctx, req.ClientID)
			if err != nil {
				return lookupError("client", err)
			}
		} else {
			result.Client, err = createClient(ctx, tx, *req.Client)
			if err != nil {
				return err
			}
		}

		car := req.Car
		car.ClientID = result.Client.ID
		result.Registration, err = registerCar(ctx, tx, car)
		if err != nil {
			return err
		}

		result.WorkOrder, err = createWorkOrder(ctx, tx, WorkOrderInput{
			ClientID:  result.Client.ID,
			CarID:     result.Registration.Car.ID,
			Complaint: req.Complaint,
			Deposit:   req.Deposit,
			Services:  req.Services,
			OilChange: req.OilChange,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
