package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/autoservice-app/models"
)

func TestClientValidation(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewClientService(st)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ClientInput
		ok    bool
	}{
		{"valid", ClientInput{FirstName: "Mona", LastName: "Ali", Phone: "01098765432"}, true},
		{"short phone", ClientInput{FirstName: "Mona", LastName: "Ali", Phone: "0109876"}, false},
		{"letters in phone", ClientInput{FirstName: "Mona", LastName: "Ali", Phone: "0109876543a"}, false},
		{"missing last name", ClientInput{FirstName: "Mona", LastName: " ", Phone: "01098765432"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestClientSearchAndDelete(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewClientService(st)
	ctx := context.Background()
	client, car := seedClientWithCar(t, st, "ABC123")
	_, err := svc.Create(ctx, ClientInput{FirstName: "Mona", LastName: "Ali", Phone: "01098765432"})
	require.NoError(t, err)

	found, err := svc.List(ctx, "Hass")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, client.ID, found[0].ID)
	assert.Len(t, found[0].Cars, 1)

	wo, err := createWorkOrder(ctx, st, WorkOrderInput{ClientID: client.ID, CarID: car.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, client.ID))
	_, err = svc.Get(ctx, client.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Cars().Get(ctx, car.ID)
	assert.Error(t, err)
	_, err = st.WorkOrders().Get(ctx, wo.ID)
	assert.Error(t, err)
}

func TestRegisterCarTransfersOwnership(t *testing.T) {
	st, _ := setupTestStore(t)
	clients := NewClientService(st)
	cars := NewCarService(st)
	ctx := context.Background()

	seller, err := clients.Create(ctx, ClientInput{FirstName: "Omar", LastName: "Said", Phone: "01011111111"})
	require.NoError(t, err)
	buyer, err := clients.Create(ctx, ClientInput{FirstName: "Nour", LastName: "Adel", Phone: "01022222222"})
	require.NoError(t, err)

	first, err := cars.Register(ctx, CarInput{ClientID: seller.ID, Plate: " abc123 ", Brand: "Kia", Model: "Rio"})
	require.NoError(t, err)
	assert.False(t, first.Transferred)
	assert.Equal(t, "ABC123", first.Car.Plate)

	// same plate for the same client
	_, err = cars.Register(ctx, CarInput{ClientID: seller.ID, Plate: "ABC123", Brand: "Kia", Model: "Rio"})
	assert.ErrorIs(t, err, ErrConflict)

	// same plate for another client moves the car
	moved, err := cars.Register(ctx, CarInput{ClientID: buyer.ID, Plate: "ABC123", Brand: "Kia", Model: "Rio", Counter: 42000})
	require.NoError(t, err)
	assert.True(t, moved.Transferred)
	assert.Equal(t, first.Car.ID, moved.Car.ID)
	assert.Equal(t, buyer.ID, moved.Car.ClientID)
	require.NotNil(t, moved.PreviousClientID)
	assert.Equal(t, seller.ID, *moved.PreviousClientID)
	assert.False(t, moved.PreviousClientHasCars)

	sellerCars, err := clients.ListCars(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, sellerCars)

	all, err := cars.List(ctx, nil, "abc123")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 42000, all[0].Counter)
}

func TestRegisterCarValidation(t *testing.T) {
	st, _ := setupTestStore(t)
	cars := NewCarService(st)
	ctx := context.Background()
	client, _ := seedClientWithCar(t, st, "XYZ1")

	_, err := cars.Register(ctx, CarInput{ClientID: client.ID, Plate: "AB-12", Brand: "Kia", Model: "Rio"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = cars.Register(ctx, CarInput{ClientID: client.ID, Plate: "AB12", Brand: "Kia", Model: "Rio", Counter: -5})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = cars.Register(ctx, CarInput{ClientID: 999, Plate: "AB12", Brand: "Kia", Model: "Rio"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCarUpdateRejectsDuplicatePlate(t *testing.T) {
	st, _ := setupTestStore(t)
	cars := NewCarService(st)
	ctx := context.Background()
	client, car := seedClientWithCar(t, st, "ONE1")
	second := &models.Car{ClientID: client.ID, Plate: "TWO2", Brand: "Fiat", Model: "Tipo"}
	require.NoError(t, st.Cars().Create(ctx, second))

	_, err := cars.Update(ctx, second.ID, CarInput{Plate: "one1", Brand: "Fiat", Model: "Tipo"})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := cars.Update(ctx, car.ID, CarInput{Plate: "one1", Brand: "Toyota", Model: "Yaris", Counter: 10})
	require.NoError(t, err)
	assert.Equal(t, "Yaris", updated.Model)
}

func TestIntakeRegistersEverything(t *testing.T) {
	st, _ := setupTestStore(t)
	intake := NewIntakeService(st)
	ctx := context.Background()

	res, err := intake.Register(ctx, IntakeRequest{
		Client:    &ClientInput{FirstName: "Hany", LastName: "Fawzy", Phone: "01233334444"},
		Car:       CarInput{Plate: "QWE789", Brand: "BMW", Model: "320i"},
		Complaint: "engine light",
		Deposit:   100,
	})
	require.NoError(t, err)
	assert.NotZero(t, res.Client.ID)
	assert.Equal(t, res.Client.ID, res.Registration.Car.ClientID)
	assert.Equal(t, models.StatusWaiting, res.WorkOrder.Status)
	assert.Equal(t, 100.0, res.WorkOrder.Deposit)
}

func TestIntakeRollsBackOnFailure(t *testing.T) {
	st, _ := setupTestStore(t)
	intake := NewIntakeService(st)
	ctx := context.Background()

	_, err := intake.Register(ctx, IntakeRequest{
		Client: &ClientInput{FirstName: "Hany", LastName: "Fawzy", Phone: "01233334444"},
		Car:    CarInput{Plate: "bad plate!", Brand: "BMW", Model: "320i"},
	})
	assert.ErrorIs(t, err, ErrValidation)

	n, err := st.Clients().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = intake.Register(ctx, IntakeRequest{Car: CarInput{Plate: "A1", Brand: "BMW", Model: "320i"}})
	assert.ErrorIs(t, err, ErrValidation)
}
