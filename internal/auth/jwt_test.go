package auth

import (
	"testing"

	"plantops-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-thirty-two-chars"

func parseClaims(t *testing.T, token, secret string) (*JWTCustomClaims, error) {
	t.Helper()
	claims := &JWTCustomClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	return claims, err
}

func TestGenerateToken(t *testing.T) {
	plantID := uint(3)
	user := &models.User{
		ID:           42,
		Email:        "operator@plantops.ng",
		Role:         models.RoleOperator,
		PowerPlantID: &plantID,
	}

	token, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	t.Run("claims round-trip", func(t *testing.T) {
		claims, err := parseClaims(t, token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "operator@plantops.ng", claims.Email)
		assert.Equal(t, models.RoleOperator, claims.Role)
		require.NotNil(t, claims.PowerPlantID)
		assert.Equal(t, plantID, *claims.PowerPlantID)
		require.NotNil(t, claims.ExpiresAt)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		_, err := parseClaims(t, token, "another-secret-that-is-long-enough-too")
		assert.Error(t, err)
	})
}
