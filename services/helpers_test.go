package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/autoservice-app/database"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "secret123"

func setupTestStore(t *testing.T) (store.Store, *gorm.DB) {
	t.Helper()
	utils.InitLogger("error")

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store.NewGormStore(db), db
}

func seedUser(t *testing.T, st store.Store, username string, role models.Role) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, st.Users().Create(context.Background(), user))
	return user
}

func seedClientWithCar(t *testing.T, st store.Store, plate string) (*models.Client, *models.Car) {
	t.Helper()
	ctx := context.Background()

	client := &models.Client{FirstName: "Ahmed", LastName: "Hassan", Phone: "01012345678"}
	require.NoError(t, st.Clients().Create(ctx, client))

	car := &models.Car{ClientID: client.ID, Plate: plate, Brand: "Toyota", Model: "Corolla"}
	require.NoError(t, st.Cars().Create(ctx, car))
	return client, car
}

func seedWorkOrder(t *testing.T, st store.Store, plate string, deposit float64) *models.WorkOrder {
	t.Helper()
	client, car := seedClientWithCar(t, st, plate)
	wo, err := createWorkOrder(context.Background(), st, WorkOrderInput{
		ClientID:  client.ID,
		CarID:     car.ID,
		Complaint: "strange noise",
		Deposit:   deposit,
	})
	require.NoError(t, err)
	return wo
}

func seedStockItem(t *testing.T, st store.Store, name, serial string, qty int, sellPrice float64, isOil bool) *models.StockItem {
	t.Helper()
	item := &models.StockItem{
		Item:         name,
		Serial:       serial,
		SellPrice:    sellPrice,
		Quantity:     qty,
		IsOil:        isOil,
		MinimumStock: models.DefaultMinimumStock,
	}
	require.NoError(t, st.StockItems().Create(context.Background(), item))
	return item
}
