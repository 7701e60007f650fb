package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

type CarInput struct {
	ClientID uint   `json:"client_id"`
	Plate    string `json:"plate" binding:"required"`
	Brand    string `json:"brand" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Counter  int    `json:"counter" binding:"gte=0"`
	Notes    string `json:"notes"`
}

// CarRegistration is the outcome of registering a plate for a client. When
// the plate belonged to another client the existing car is transferred.
type CarRegistration struct {
	Car                   *models.Car `json:"car"`
	Transferred           bool        `json:"transferred"`
	PreviousClientID      *uint       `json:"previous_client_id,omitempty"`
	PreviousClientHasCars bool        `json:"previous_client_has_cars"`
}

const duplicatePlateMessage = "This client already has a car with this plate number"

type CarService struct {
	store store.Store
}

func NewCarService(s store.Store) *CarService {
	return &CarService{store: s}
}

func (s *CarService) List(ctx context.Context, clientID *uint, plate string) ([]models.Car, error) {
	opts := []store.Option{store.Preload("Client")}
	if clientID != nil {
		opts = append(opts, store.Where("client_id = ?", *clientID))
	}
	if plate != "" {
		opts = append(opts, store.Where("plate = ?", utils.NormalizePlate(plate)))
	}
	return s.store.Cars().List(ctx, opts...)
}

func (s *CarService) Get(ctx context.Context, id uint) (*models.Car, error) {
	car, err := s.store.Cars().Get(ctx, id, store.Preload("Client"))
	if err != nil {
		return nil, lookupError("car", err)
	}
	return car, nil
}

func (s *CarService) Register(ctx context.Context, in CarInput) (*CarRegistration, error) {
	var reg *CarRegistration
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		reg, err = registerCar(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *CarService) Update(ctx context.Context, id uint, in CarInput) (*models.Car, error) {
	plate, err := normalizeCar(&in)
	if err != nil {
		return nil, err
	}

	var car *models.Car
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		car, err = tx.Cars().Get(ctx, id)
		if err != nil {
			return lookupError("car", err)
		}
		targetClient := car.ClientID
		if in.ClientID != 0 {
			targetClient = in.ClientID
		}
		if _, err := tx.Clients().Get(ctx, targetClient); err != nil {
			return lookupError("client", err)
		}
		n, err := tx.Cars().Count(ctx, store.Where("client_id = ? AND plate = ? AND id <> ?", targetClient, plate, id))
		if err != nil {
			return err
		}
		if n > 0 {
			return conflictError(duplicatePlateMessage)
		}

		car.ClientID = targetClient
		car.Plate = plate
		car.Brand = in.Brand
		car.Model = in.Model
		car.Counter = in.Counter
		car.Notes = in.Notes
		if err := tx.Cars().Update(ctx, car); err != nil {
			return fmt.Errorf("update car: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

// Delete removes the car and its work orders.
func (s *CarService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.Cars().Get(ctx, id); err != nil {
			return lookupError("car", err)
		}
		if err := deleteWorkOrdersWhere(ctx, tx, store.Where("car_id = ?", id)); err != nil {
			return err
		}
		return tx.Cars().Delete(ctx, id)
	})
}

func normalizeCar(in *CarInput) (string, error) {
	plate := utils.NormalizePlate(in.Plate)
	if plate == "" {
		return "", validationError("plate number is required")
	}
	if !utils.ValidatePlate(plate) {
		return "", validationError("plate number must contain only letters and digits")
	}
	if strings.TrimSpace(in.Brand) == "" || strings.TrimSpace(in.Model) == "" {
		return "", validationError("brand and model are required")
	}
	if in.Counter < 0 {
		return "", validationError("counter must not be negative")
	}
	return plate, nil
}

// registerCar creates the car for in.ClientID, or transfers an existing car
// with the same plate from another client. The same plate twice for one
// client is a conflict.
func registerCar(ctx context.Context, tx store.Store, in CarInput) (*CarRegistration, error) {
	plate, err := normalizeCar(&in)
	if err != nil {
		return nil, err
	}
	if in.ClientID == 0 {
		return nil, validationError("client_id is required")
	}
	if _, err := tx.Clients().Get(ctx, in.ClientID); err != nil {
		return nil, lookupError("client", err)
	}

	owned, err := tx.Cars().Count(ctx, store.Where("client_id = ? AND plate = ?", in.ClientID, plate))
	if err != nil {
		return nil, err
	}
	if owned > 0 {
		return nil, conflictError(duplicatePlateMessage)
	}

	existing, err := tx.Cars().First(ctx, store.Where("plate = ?", plate), store.OrderBy("updated_at DESC"))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		car := &models.Car{
			ClientID: in.ClientID,
			Plate:    plate,
			Brand:    in.Brand,
			Model:    in.Model,
			Counter:  in.Counter,
			Notes:    in.Notes,
		}
		if err := tx.Cars().Create(ctx, car); err != nil {
			return nil, fmt.Errorf("create car: %w", err)
		}
		return &CarRegistration{Car: car}, nil
	}

	previous := existing.ClientID
	existing.ClientID = in.ClientID
	existing.Brand = in.Brand
	existing.Model = in.Model
	existing.Counter = in.Counter
	existing.Notes = in.Notes
	if err := tx.Cars().Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("transfer car: %w", err)
	}

	remaining, err := tx.Cars().Count(ctx, store.Where("client_id = ?", previous))
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Car %s transferred from client %d to client %d", plate, previous, in.ClientID)

	return &CarRegistration{
		Car:                   existing,
		Transferred:           true,
		PreviousClientID:      &previous,
		PreviousClientHasCars: remaining > 0,
	}, nil
}
