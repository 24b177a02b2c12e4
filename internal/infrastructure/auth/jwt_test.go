package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryerp/backend/internal/infrastructure/config"
)

const testSecret = "ledger-test-secret-at-least-32-chars"

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: expiration,
		Issuer:                "factoryerp-test",
	})
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "cashier",
	}
}

func TestGenerateToken(t *testing.T) {
	t.Run("returns a signed token with its expiry", func(t *testing.T) {
		token, expiresAt, err := newTestJWTService(15 * time.Minute).GenerateToken(newTestInput())

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("round-trips claims through validation", func(t *testing.T) {
		svc := newTestJWTService(15 * time.Minute)
		input := newTestInput()

		token, _, err := svc.GenerateToken(input)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)

		assert.Equal(t, input.TenantID.String(), claims.TenantID)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, "cashier", claims.Username)
		assert.Equal(t, "factoryerp-test", claims.Issuer)
		assert.Equal(t, input.UserID.String(), claims.Subject)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("rejects garbage", func(t *testing.T) {
		claims, err := newTestJWTService(15 * time.Minute).ValidateToken("not-a-token")

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-32-char-key!!",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "factoryerp-test",
		})
		token, _, err := other.GenerateToken(newTestInput())
		require.NoError(t, err)

		_, err = newTestJWTService(15 * time.Minute).ValidateToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc := newTestJWTService(-1 * time.Minute)
		token, _, err := svc.GenerateToken(newTestInput())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token without a tenant claim", func(t *testing.T) {
		now := time.Now()
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			UserID: uuid.NewString(),
		})
		token, err := raw.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newTestJWTService(15 * time.Minute).ValidateToken(token)

		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("rejects a token without a user claim", func(t *testing.T) {
		now := time.Now()
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TenantID: uuid.NewString(),
		})
		token, err := raw.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = newTestJWTService(15 * time.Minute).ValidateToken(token)

		assert.ErrorIs(t, err, ErrMissingUserID)
	})
}
