package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/autoservice-app/models"
)

func TestCreateClientAndCars(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.seedUser(t, "reception", models.RoleReceptionist)

	w, response := env.do(t, "POST", "/api/clients", token, map[string]string{
		"first_name": "Ahmed",
		"last_name":  "Hassan",
		"phone":      "01012345678",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Client created successfully", response["message"])
	sellerID := idOf(t, dataOf(t, response))

	w, _ = env.do(t, "POST", "/api/clients", token, map[string]string{
		"first_name": "Bad",
		"last_name":  "Phone",
		"phone":      "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	car := map[string]interface{}{"client_id": sellerID, "plate": "abc123", "brand": "Kia", "model": "Rio"}
	w, response = env.do(t, "POST", "/api/cars", token, car)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Car registered", response["message"])

	w, _ = env.do(t, "POST", "/api/cars", token, car)
	assert.Equal(t, http.StatusConflict, w.Code)

	_, response = env.do(t, "POST", "/api/clients", token, map[string]string{
		"first_name": "Nour",
		"last_name":  "Adel",
		"phone":      "01022222222",
	})
	buyerID := idOf(t, dataOf(t, response))

	car["client_id"] = buyerID
	w, response = env.do(t, "POST", "/api/cars", token, car)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Car ownership transferred", response["message"])
	reg := dataOf(t, response)
	assert.Equal(t, true, reg["transferred"])
	assert.Equal(t, float64(sellerID), reg["previous_client_id"])

	w, response = env.do(t, "GET", fmt.Sprintf("/api/clients/%d/cars", sellerID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, response["data"])

	w, response = env.do(t, "GET", "/api/clients", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "List of clients", response["message"])
	assert.Len(t, response["data"], 2)
}

func TestTechnicianCannotManageClients(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.seedUser(t, "tech", models.RoleTechnician)

	w, _ := env.do(t, "POST", "/api/clients", token, map[string]string{
		"first_name": "Ahmed",
		"last_name":  "Hassan",
		"phone":      "01012345678",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// viewing is fine
	w, _ = env.do(t, "GET", "/api/clients", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientNotFound(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.seedUser(t, "admin", models.RoleAdmin)

	w, _ := env.do(t, "GET", "/api/clients/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.do(t, "GET", "/api/clients/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntakeEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.seedUser(t, "reception", models.RoleReceptionist)

	w, response := env.do(t, "POST", "/api/intake", token, map[string]interface{}{
		"client":    map[string]string{"first_name": "Hany", "last_name": "Fawzy", "phone": "01233334444"},
		"car":       map[string]interface{}{"plate": "QWE789", "brand": "BMW", "model": "320i", "counter": 120000},
		"complaint": "engine light",
		"deposit":   150,
		"services":  []string{"diagnostics"},
	})
	require.Equal(t, http.StatusCreated, w.Code, response)
	data := dataOf(t, response)
	wo := data["work_order"].(map[string]interface{})
	assert.Equal(t, string(models.StatusWaiting), wo["status"])
	assert.Equal(t, 150.0, wo["deposit"])
}
