package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/autoservice-app/config"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
)

// billedScenario prepares a completed order: 2 parts at 25, a 20 service,
// an exterior wash, two hours of labor and a deposit of 100.
func billedScenario(t *testing.T, st store.Store) *models.WorkOrder {
	t.Helper()
	ctx := context.Background()
	workOrders := newWorkOrderService(st)
	tech := seedUser(t, st, "tech1", models.RoleTechnician)
	part := seedStockItem(t, st, "Spark plug", "SPK-1", 10, 25, false)
	service := &models.Service{Name: "Diagnostics", Price: 20, IsActive: true}
	require.NoError(t, st.Services().Create(ctx, service))

	wo := seedWorkOrder(t, st, "BIL100", 100)
	_, err := workOrders.Claim(ctx, wo.ID, tech.ID)
	require.NoError(t, err)
	_, err = workOrders.RecordWork(ctx, wo.ID, tech.ID, ReportInput{
		TimeSpent: 2,
		UsedParts: []models.UsedPart{{PartID: part.ID, Quantity: 2}},
		Services:  []uint{service.ID},
		WashType:  models.WashExterior,
	})
	require.NoError(t, err)
	return wo
}

func newBillingService(st store.Store) *BillingService {
	return NewBillingService(st, NewBillingCalculator(config.DefaultBillingRates()))
}

func TestGenerateBilling(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := newBillingService(st)
	ctx := context.Background()
	wo := billedScenario(t, st)

	preview, err := svc.Preview(ctx, wo.ID, BillingOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 122.3, preview.Total)

	n, err := st.Billings().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "preview must not persist")

	billing, err := svc.Generate(ctx, wo.ID, BillingOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, billing.PartsCost)
	assert.Equal(t, 20.0, billing.ServicesCost)
	assert.Equal(t, 25.0, billing.WashCost)
	assert.Equal(t, 100.0, billing.LaborCost)
	assert.Equal(t, 195.0, billing.Subtotal)
	assert.Equal(t, 27.3, billing.Tax)
	assert.Equal(t, 100.0, billing.Deposit)
	assert.Equal(t, 122.3, billing.Total)
	assert.False(t, billing.Paid)
	assert.True(t, strings.HasPrefix(billing.InvoiceNumber, "INV/"))

	_, err = svc.Generate(ctx, wo.ID, BillingOverrides{})
	assert.ErrorIs(t, err, ErrConflict)

	stored, err := svc.GetByWorkOrder(ctx, wo.ID)
	require.NoError(t, err)
	assert.InDelta(t, 122.3, stored.Total, 0.0001)
}

func TestGenerateBillingRequiresReport(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := newBillingService(st)
	wo := seedWorkOrder(t, st, "NOREP1", 0)

	_, err := svc.Generate(context.Background(), wo.ID, BillingOverrides{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Generate(context.Background(), 9999, BillingOverrides{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBillingOverridesAndPayment(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := newBillingService(st)
	ctx := context.Background()
	wo := billedScenario(t, st)

	negative := -1.0
	_, err := svc.Generate(ctx, wo.ID, BillingOverrides{LaborCost: &negative})
	assert.ErrorIs(t, err, ErrValidation)

	labor := 80.0
	billing, err := svc.Generate(ctx, wo.ID, BillingOverrides{LaborCost: &labor, OilChangeCost: 15})
	require.NoError(t, err)
	assert.Equal(t, 80.0, billing.LaborCost)
	assert.Equal(t, 15.0, billing.OilChangeCost)
	assert.Equal(t, 190.0, billing.Subtotal)

	updated, err := svc.Update(ctx, billing.ID, BillingOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, updated.LaborCost)

	paid, err := svc.MarkPaid(ctx, billing.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	require.NotNil(t, paid.PaidAt)
	firstPaidAt := *paid.PaidAt

	again, err := svc.MarkPaid(ctx, billing.ID)
	require.NoError(t, err)
	assert.True(t, again.PaidAt.Equal(firstPaidAt))

	_, err = svc.Update(ctx, billing.ID, BillingOverrides{})
	assert.ErrorIs(t, err, ErrConflict)

	unpaid := false
	list, err := svc.List(ctx, BillingFilter{Paid: &unpaid})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBillingSkipsDeletedCatalogEntries(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := newBillingService(st)
	ctx := context.Background()
	wo := billedScenario(t, st)

	part, err := st.StockItems().First(ctx)
	require.NoError(t, err)
	require.NoError(t, NewStockService(st, 0).Delete(ctx, part.ID))
	service, err := st.Services().First(ctx)
	require.NoError(t, err)
	require.NoError(t, NewCatalogService(st).Delete(ctx, service.ID))

	// wash 25 and labor 100 remain: 125 + 17.5 tax - 100 deposit
	billing, err := svc.Generate(ctx, wo.ID, BillingOverrides{})
	require.NoError(t, err)
	assert.Zero(t, billing.PartsCost)
	assert.Zero(t, billing.ServicesCost)
	assert.InDelta(t, 125.0, billing.Subtotal, 0.0001)
	assert.InDelta(t, 42.5, billing.Total, 0.0001)

	report, err := st.TechReports().First(ctx, store.Where("work_order_id = ?", wo.ID))
	require.NoError(t, err)
	assert.Len(t, report.UsedParts, 1, "the report keeps what was consumed")
}
