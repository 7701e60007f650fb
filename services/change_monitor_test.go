package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/autoservice-app/hub"
	"github.com/yeremiapane/autoservice-app/models"
	"gorm.io/gorm"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Broadcast(event string, data interface{}) {
	m.Called(event, data)
}

func TestChangeMonitorPublishesInvalidations(t *testing.T) {
	st, db := setupTestStore(t)
	ctx := context.Background()
	publisher := new(mockPublisher)
	monitor := NewChangeMonitor(db, publisher, 0)

	client := &models.Client{FirstName: "Sara", LastName: "Nabil", Phone: "01555555555"}
	require.NoError(t, st.Clients().Create(ctx, client))
	client.Phone = "01555555556"
	require.NoError(t, st.Clients().Update(ctx, client))

	publisher.On("Broadcast", hub.EventInvalidate, Invalidation{Collection: "clients", Action: models.ChangeInsert, RecordID: client.ID}).Once()
	publisher.On("Broadcast", hub.EventInvalidate, Invalidation{Collection: "clients", Action: models.ChangeUpdate, RecordID: client.ID}).Once()

	assert.Equal(t, 2, monitor.ProcessPending())
	publisher.AssertExpectations(t)

	// processed rows are not published again
	assert.Equal(t, 0, monitor.ProcessPending())
	publisher.AssertNumberOfCalls(t, "Broadcast", 2)
}

func TestChangeMonitorIgnoresFailedTransactions(t *testing.T) {
	_, db := setupTestStore(t)
	publisher := new(mockPublisher)
	monitor := NewChangeMonitor(db, publisher, 0)

	// rolled back writes leave no outbox rows behind
	_ = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Expense{Title: "rolled back", Quantity: 1}).Error; err != nil {
			return err
		}
		return assert.AnError
	})

	assert.Equal(t, 0, monitor.ProcessPending())
	publisher.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestSchedulerSweep(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()
	publisher := new(mockPublisher)
	scheduler := NewScheduler(NewStockService(st, 0), NewAuthService(st, newTestTokens()), publisher)

	seedStockItem(t, st, "Healthy", "OK-1", 50, 1, false)
	assert.Nil(t, scheduler.SweepLowStock(ctx))
	publisher.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)

	low := seedStockItem(t, st, "Fuse", "FS-1", 2, 1, false)
	publisher.On("Broadcast", hub.EventStockAlert, mock.AnythingOfType("*services.StockAlert")).Once()

	alert := scheduler.SweepLowStock(ctx)
	require.NotNil(t, alert)
	require.Len(t, alert.LowStock, 1)
	assert.Equal(t, low.ID, alert.LowStock[0].ID)
	assert.Empty(t, alert.OutOfStock)
	publisher.AssertExpectations(t)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	st, _ := setupTestStore(t)
	scheduler := NewScheduler(NewStockService(st, 0), NewAuthService(st, newTestTokens()), new(mockPublisher))
	assert.Error(t, scheduler.Start("not a cron expression", "@hourly"))
}
