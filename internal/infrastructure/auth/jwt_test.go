package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "fleetops-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService()
	orgID := uuid.New()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		OrganizationID: orgID,
		UserID:         userID,
		Email:          "dispatch@fleet.com",
		Role:           "supervisor",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, orgID.String(), claims.OrganizationID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "supervisor", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	gotOrg, err := claims.GetOrganizationUUID()
	require.NoError(t, err)
	assert.Equal(t, orgID, gotOrg)
}

func TestJWTService_TokenTypeMismatch(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		Email:          "a@b.com",
		Role:           "staff",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		Email:          "a@b.com",
		Role:           "staff",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTService(config.JWTConfig{
		Secret:                 "another-secret-also-32-characters!!!",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "fleetops-test",
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := t.Context()
	bl := NewInMemoryTokenBlacklist()

	t.Run("jti blacklisting", func(t *testing.T) {
		blacklisted, err := bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, blacklisted)

		require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))

		blacklisted, err = bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("user-wide invalidation", func(t *testing.T) {
		issuedBefore := time.Now().Add(-time.Second)

		require.NoError(t, bl.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

		invalid, err := bl.IsUserTokenInvalidated(ctx, "user-1", issuedBefore)
		require.NoError(t, err)
		assert.True(t, invalid)

		invalid, err = bl.IsUserTokenInvalidated(ctx, "user-1", time.Now().Add(time.Second))
		require.NoError(t, err)
		assert.False(t, invalid)

		invalid, err = bl.IsUserTokenInvalidated(ctx, "other-user", issuedBefore)
		require.NoError(t, err)
		assert.False(t, invalid)
	})
}
