package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stybayev/graduate-work/internal/auth/domain"
	"github.com/stybayev/graduate-work/internal/auth/revocation"
	"github.com/stybayev/graduate-work/internal/auth/service"
	autherror "github.com/stybayev/graduate-work/internal/errors"
	"github.com/stybayev/graduate-work/internal/mocks"
)

const testSecret = "test-secret-key-123"

func newTokenService(t *testing.T, store *mocks.MockStore, accessMinutes, refreshMinutes int) *service.TokenService {
	t.Helper()

	ts, err := service.NewTokenService(
		testSecret, "HS256", accessMinutes, refreshMinutes,
		store, revocation.NewRegistry(store), zerolog.Nop(),
	)
	require.NoError(t, err)

	return ts
}

func TestNewTokenService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockStore(ctrl)
	registry := revocation.NewRegistry(store)

	tests := []struct {
		name        string
		algorithm   string
		expectError bool
	}{
		{name: "HS256", algorithm: "HS256"},
		{name: "HS512", algorithm: "HS512"},
		{name: "asymmetric algorithm rejected", algorithm: "RS256", expectError: true},
		{name: "unknown algorithm rejected", algorithm: "none", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := service.NewTokenService(testSecret, tt.algorithm, 15, 1440, store, registry, zerolog.Nop())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, ts)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, ts)
			}
		})
	}
}

func TestTokenService_IssuePair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	ts := newTokenService(t, store, 15, 1440)

	user := &domain.User{
		ID:        "user-123",
		Login:     "moviegoer",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}

	// One liveness marker per token, each with its own TTL.
	store.EXPECT().Set(gomock.Any(), gomock.Any(), user.ID, 15*time.Minute).Return(nil)
	store.EXPECT().Set(gomock.Any(), gomock.Any(), user.ID, 1440*time.Minute).Return(nil)

	pair, err := ts.IssuePair(context.Background(), user, []string{"subscriber"})
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	accessClaims, err := ts.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, accessClaims.Subject)
	assert.Equal(t, []string{"subscriber"}, accessClaims.Roles)
	assert.Equal(t, "Ada", accessClaims.FirstName)
	assert.Equal(t, "Lovelace", accessClaims.LastName)
	assert.NotEmpty(t, accessClaims.ID)

	refreshClaims, err := ts.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshClaims.Subject)
	assert.Equal(t, accessClaims.ID, refreshClaims.AccessJTI)
	assert.NotEmpty(t, refreshClaims.ID)
	assert.NotEqual(t, accessClaims.ID, refreshClaims.ID)
}

func TestTokenService_IssuePair_DisjointJTIs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ts := newTokenService(t, store, 15, 1440)
	user := &domain.User{ID: "user-123"}

	seen := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		pair, err := ts.IssuePair(context.Background(), user, nil)
		require.NoError(t, err)

		ac, err := ts.ParseAccess(pair.AccessToken)
		require.NoError(t, err)
		rc, err := ts.ParseRefresh(pair.RefreshToken)
		require.NoError(t, err)

		for _, jti := range []string{ac.ID, rc.ID} {
			_, dup := seen[jti]
			assert.False(t, dup, "jti %s issued twice", jti)
			seen[jti] = struct{}{}
		}
	}
}

func TestTokenService_Parse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ts := newTokenService(t, store, 15, 1440)
	user := &domain.User{ID: "user-123"}

	pair, err := ts.IssuePair(context.Background(), user, nil)
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := ts.ParseAccess("not-a-jwt")
		assert.ErrorIs(t, err, autherror.ErrMalformedToken)
	})

	t.Run("refresh token rejected by access parser", func(t *testing.T) {
		_, err := ts.ParseAccess(pair.RefreshToken)
		assert.ErrorIs(t, err, autherror.ErrWrongTokenType)
	})

	t.Run("access token rejected by refresh parser", func(t *testing.T) {
		_, err := ts.ParseRefresh(pair.AccessToken)
		assert.ErrorIs(t, err, autherror.ErrWrongTokenType)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newTokenService(t, store, -1, -1)
		expiredPair, err := expired.IssuePair(context.Background(), user, nil)
		require.NoError(t, err)

		_, err = ts.ParseAccess(expiredPair.AccessToken)
		assert.ErrorIs(t, err, autherror.ErrExpiredToken)
	})

	t.Run("foreign signature", func(t *testing.T) {
		claims := jwt.MapClaims{
			"type": "access",
			"sub":  "user-123",
			"jti":  "foreign-jti",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = ts.ParseAccess(foreign)
		assert.ErrorIs(t, err, autherror.ErrMalformedToken)
	})
}

// Revocation is absolute: once revoked, a jti stays revoked for as long
// as the token it belongs to could still be alive.
func TestTokenService_Revoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	ts := newTokenService(t, store, 15, 1440)
	registry := revocation.NewRegistry(store)

	ctx := context.Background()

	// Revocation TTL covers the token's full expiry window, which is
	// always at least its remaining validity.
	store.EXPECT().Set(ctx, "invalid_token:access-jti", "user-123", 15*time.Minute).Return(nil).Times(2)
	store.EXPECT().Set(ctx, "invalid_token:refresh-jti", "user-123", 1440*time.Minute).Return(nil).Times(2)

	require.NoError(t, ts.Revoke(ctx, "access-jti", "refresh-jti", "user-123"))
	// Double revocation is a no-op success.
	require.NoError(t, ts.Revoke(ctx, "access-jti", "refresh-jti", "user-123"))

	store.EXPECT().Exists(ctx, "invalid_token:access-jti").Return(true, nil)
	revoked, err := registry.IsRevoked(ctx, "access-jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}
