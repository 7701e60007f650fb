package Controllers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/autoservice-app/models"
)

// seedOrder registers a client, car and waiting work order through the API.
func seedOrder(t *testing.T, env *testEnv, token, plate string, deposit float64) uint {
	t.Helper()
	w, response := env.do(t, "POST", "/api/intake", token, map[string]interface{}{
		"client":  map[string]string{"first_name": "Ahmed", "last_name": "Hassan", "phone": "01012345678"},
		"car":     map[string]interface{}{"plate": plate, "brand": "Toyota", "model": "Corolla"},
		"deposit": deposit,
	})
	require.Equal(t, http.StatusCreated, w.Code, response)
	return idOf(t, dataOf(t, response)["work_order"].(map[string]interface{}))
}

func TestWorkOrderLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, reception := env.seedUser(t, "reception", models.RoleReceptionist)
	techA, techAToken := env.seedUser(t, "techA", models.RoleTechnician)
	_, techBToken := env.seedUser(t, "techB", models.RoleTechnician)
	_, admin := env.seedUser(t, "admin", models.RoleAdmin)

	part := &models.StockItem{Item: "Spark plug", Serial: "SPK-1", SellPrice: 25, Quantity: 10, MinimumStock: 5}
	require.NoError(t, env.store.StockItems().Create(ctx, part))
	service := &models.Service{Name: "Diagnostics", Price: 20, IsActive: true}
	require.NoError(t, env.store.Services().Create(ctx, service))

	woID := seedOrder(t, env, reception, "LIFE1", 100)
	base := fmt.Sprintf("/api/work-orders/%d", woID)

	w, response := env.do(t, "POST", base+"/assign", reception, map[string]interface{}{"technician_id": techA.ID})
	require.Equal(t, http.StatusOK, w.Code, response)
	assert.Equal(t, string(models.StatusAssigned), dataOf(t, response)["status"])

	// receptionists cannot start work, other technicians cannot take it
	w, _ = env.do(t, "POST", base+"/claim", reception, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = env.do(t, "POST", base+"/claim", techBToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, response = env.do(t, "POST", base+"/claim", techAToken, nil)
	require.Equal(t, http.StatusOK, w.Code, response)
	assert.Equal(t, "Work started", response["message"])
	assert.Equal(t, string(models.StatusInProgress), dataOf(t, response)["status"])

	report := map[string]interface{}{
		"work_description": "replaced plugs",
		"time_spent":       2,
		"used_parts":       []map[string]interface{}{{"part_id": part.ID, "quantity": 2}},
		"services":         []uint{service.ID},
		"wash_type":        models.WashExterior,
	}
	w, _ = env.do(t, "POST", base+"/record-work", techBToken, report)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, response = env.do(t, "POST", base+"/record-work", techAToken, report)
	require.Equal(t, http.StatusCreated, w.Code, response)
	assert.Equal(t, "Work recorded", response["message"])
	result := dataOf(t, response)
	assert.Equal(t, string(models.StatusCompleted), result["work_order"].(map[string]interface{})["status"])

	w, _ = env.do(t, "POST", base+"/record-work", techAToken, report)
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = env.do(t, "POST", base+"/claim", techAToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// receptionists do not see money
	w, _ = env.do(t, "GET", base+"/billing/preview", reception, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, response = env.do(t, "POST", base+"/billing", admin, nil)
	require.Equal(t, http.StatusCreated, w.Code, response)
	assert.Equal(t, "Billing generated", response["message"])
	billing := dataOf(t, response)
	assert.InDelta(t, 195.0, billing["subtotal"], 0.0001)
	assert.InDelta(t, 122.3, billing["total"], 0.0001)
	billingID := idOf(t, billing)

	w, _ = env.do(t, "POST", base+"/billing", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, response = env.do(t, "POST", fmt.Sprintf("/api/billings/%d/pay", billingID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, response)
	assert.Equal(t, true, dataOf(t, response)["paid"])

	w, response = env.do(t, "GET", base+"/billing", techAToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(billingID), dataOf(t, response)["id"])

	stock, err := env.store.StockItems().Get(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stock.Quantity)
}

func TestClaimSwitchesActiveOrder(t *testing.T) {
	env := setupTestEnv(t)
	_, reception := env.seedUser(t, "reception", models.RoleReceptionist)
	_, tech := env.seedUser(t, "tech", models.RoleTechnician)

	first := seedOrder(t, env, reception, "SW1", 0)
	second := seedOrder(t, env, reception, "SW2", 0)

	w, _ := env.do(t, "POST", fmt.Sprintf("/api/work-orders/%d/claim", first), tech, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, "POST", fmt.Sprintf("/api/work-orders/%d/claim", second), tech, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response := env.do(t, "GET", fmt.Sprintf("/api/work-orders/%d", first), tech, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(models.StatusPending), dataOf(t, response)["status"])

	w, response = env.do(t, "GET", "/api/work-orders?status=in_progress", tech, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"], 1)

	w, _ = env.do(t, "GET", "/api/work-orders?status=bogus", tech, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordWorkReportsStockWarnings(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, reception := env.seedUser(t, "reception", models.RoleReceptionist)
	_, tech := env.seedUser(t, "tech", models.RoleTechnician)
	pads := &models.StockItem{Item: "Brake pads", Serial: "BRK-1", SellPrice: 60, Quantity: 5, MinimumStock: 5}
	require.NoError(t, env.store.StockItems().Create(ctx, pads))

	woID := seedOrder(t, env, reception, "WARN1", 0)
	w, _ := env.do(t, "POST", fmt.Sprintf("/api/work-orders/%d/claim", woID), tech, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response := env.do(t, "POST", fmt.Sprintf("/api/work-orders/%d/record-work", woID), tech, map[string]interface{}{
		"used_parts": []map[string]interface{}{{"part_id": pads.ID, "quantity": 10}},
	})
	require.Equal(t, http.StatusCreated, w.Code, response)
	assert.Equal(t, "Work recorded with stock warnings", response["message"])
	assert.Len(t, dataOf(t, response)["warnings"], 1)

	stock, err := env.store.StockItems().Get(ctx, pads.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stock.Quantity)
}
