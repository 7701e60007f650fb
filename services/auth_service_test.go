package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/utils"
)

func newTestTokens() *utils.TokenManager {
	return utils.NewTokenManager("test-secret", "autoservice-test", 15*time.Minute, 24*time.Hour)
}

func TestLogin(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewAuthService(st, newTestTokens())
	ctx := context.Background()
	user := seedUser(t, st, "reception", models.RoleReceptionist)

	res, err := svc.Login(ctx, "reception", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Access)
	assert.NotEmpty(t, res.Refresh)
	assert.Equal(t, user.ID, res.User.ID)

	_, err = svc.Login(ctx, "reception", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, ErrUnauthorized)

	user.IsActive = false
	require.NoError(t, st.Users().Update(ctx, user))
	_, err = svc.Login(ctx, "reception", testPassword)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRefreshAndLogout(t *testing.T) {
	st, _ := setupTestStore(t)
	tokens := newTestTokens()
	svc := NewAuthService(st, tokens)
	ctx := context.Background()
	seedUser(t, st, "tech", models.RoleTechnician)

	res, err := svc.Login(ctx, "tech", testPassword)
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, res.Refresh)
	require.NoError(t, err)
	claims, err := tokens.ParseToken(access, utils.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleTechnician), claims.Role)

	// an access token is not a refresh token
	_, err = svc.Refresh(ctx, res.Access)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, res.Refresh))
	require.NoError(t, svc.Logout(ctx, res.Refresh))

	_, err = svc.Refresh(ctx, res.Refresh)
	assert.ErrorIs(t, err, ErrUnauthorized)

	n, err := st.RevokedTokens().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPurgeExpiredRevocations(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewAuthService(st, newTestTokens())
	ctx := context.Background()

	require.NoError(t, st.RevokedTokens().Create(ctx, &models.RevokedToken{JTI: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, st.RevokedTokens().Create(ctx, &models.RevokedToken{JTI: "live", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))

	purged, err := svc.PurgeExpiredRevocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestUserManagement(t *testing.T) {
	st, _ := setupTestStore(t)
	svc := NewUserService(st)
	ctx := context.Background()
	admin := seedUser(t, st, "admin", models.RoleAdmin)

	_, err := svc.Create(ctx, UserInput{Username: "t1", Role: models.RoleTechnician, Password: "abc", PasswordConfirm: "abc"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, UserInput{Username: "t1", Role: models.RoleTechnician, Password: "abcdef", PasswordConfirm: "abcdeg"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, UserInput{Username: "t1", Role: "MECHANIC", Password: "abcdef", PasswordConfirm: "abcdef"})
	assert.ErrorIs(t, err, ErrValidation)

	disabled := false
	tech, err := svc.Create(ctx, UserInput{Username: "t1", Role: models.RoleTechnician, Password: "abcdef", PasswordConfirm: "abcdef", IsActive: &disabled})
	require.NoError(t, err)
	stored, err := svc.Get(ctx, tech.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	_, err = NewAuthService(st, newTestTokens()).Login(ctx, "t1", "abcdef")
	assert.ErrorIs(t, err, ErrForbidden, "an account created disabled cannot log in")

	_, err = svc.Create(ctx, UserInput{Username: "t1", Role: models.RoleTechnician, Password: "abcdef", PasswordConfirm: "abcdef"})
	assert.ErrorIs(t, err, ErrConflict)

	techs, err := svc.List(ctx, models.RoleTechnician)
	require.NoError(t, err)
	assert.Len(t, techs, 1)

	err = svc.Delete(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(ctx, tech.ID, admin.ID))
	_, err = svc.Get(ctx, tech.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
