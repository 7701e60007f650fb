package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeremiapane/autoservice-app/config"
	"github.com/yeremiapane/autoservice-app/database"
	"github.com/yeremiapane/autoservice-app/hub"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/router"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/store"
	"github.com/yeremiapane/autoservice-app/utils"
)

const testPassword = "password123"

type testEnv struct {
	router *gin.Engine
	store  store.Store
	tokens *utils.TokenManager
}

// setupTestEnv wires the full router on a fresh in-memory SQLite database.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.InitLogger("error")
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory()
	require.NoError(t, err)

	cfg := config.LoadEnv()
	cfg.RateLimit.RequestsPerSecond = 0
	cfg.RateLimit.LoginPerMinute = 1000
	cfg.Billing = config.DefaultBillingRates()

	tokens := utils.NewTokenManager("test-secret", "autoservice-test", time.Hour, 24*time.Hour)
	st := store.NewGormStore(db)
	registry := services.NewRegistry(st, cfg, tokens)

	return &testEnv{
		router: router.SetupRouter(cfg, registry, tokens, hub.New()),
		store:  st,
		tokens: tokens,
	}
}

// seedUser stores an active account and returns it with a valid access token.
func (e *testEnv) seedUser(t *testing.T, username string, role models.Role) (*models.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: username, Password: string(hashed), Role: role, IsActive: true}
	require.NoError(t, e.store.Users().Create(context.Background(), user))

	token, err := e.tokens.GenerateAccessToken(user.ID, string(role))
	require.NoError(t, err)
	return user, token
}

// do sends a JSON request and decodes the response envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		payload, mErr := json.Marshal(body)
		require.NoError(t, mErr)
		req, err = http.NewRequest(method, path, bytes.NewBuffer(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, path, nil)
		require.NoError(t, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func dataOf(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", response)
	return data
}

func idOf(t *testing.T, obj map[string]interface{}) uint {
	t.Helper()
	id, ok := obj["id"].(float64)
	require.True(t, ok, "object has no id: %v", obj)
	return uint(id)
}
