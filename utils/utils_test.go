package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{122.3, "122.30"},
		{27.300000000000004, "27.30"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{-55.125, "-55.13"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.in), "FormatMoney(%v)", tt.in)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("01012345678"))
	assert.False(t, ValidatePhone("0101234567"))
	assert.False(t, ValidatePhone("010123456789"))
	assert.False(t, ValidatePhone("0101234567a"))
}

func TestPlateNormalization(t *testing.T) {
	plate := NormalizePlate("  abc123 ")
	assert.Equal(t, "ABC123", plate)
	assert.True(t, ValidatePlate(plate))
	assert.False(t, ValidatePlate(NormalizePlate("ab-123")))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("secret", "autoservice", time.Minute, time.Hour)

	access, err := m.GenerateAccessToken(7, "ADMIN")
	require.NoError(t, err)

	claims, err := m.ParseToken(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	_, err = m.ParseToken(access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh, refreshClaims, err := m.GenerateRefreshToken(7, "ADMIN")
	require.NoError(t, err)
	assert.NotEmpty(t, refreshClaims.ID)
	parsed, err := m.ParseToken(refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, refreshClaims.ID, parsed.ID)

	other := NewTokenManager("other-secret", "autoservice", time.Minute, time.Hour)
	_, err = other.ParseToken(access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", "autoservice", -time.Minute, time.Hour)
	old, err := expired.GenerateAccessToken(7, "ADMIN")
	require.NoError(t, err)
	_, err = m.ParseToken(old, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
