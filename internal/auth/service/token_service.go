package service

//go:generate mockgen -destination=../../mocks/mock_token_issuer.go -package=mocks github.com/stybayev/graduate-work/internal/auth/service TokenIssuer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stybayev/graduate-work/internal/auth/domain"
	"github.com/stybayev/graduate-work/internal/auth/dto"
	"github.com/stybayev/graduate-work/internal/auth/revocation"
	autherror "github.com/stybayev/graduate-work/internal/errors"
	"github.com/stybayev/graduate-work/internal/kv"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	accessMarkerPrefix  = "access_token:"
	refreshMarkerPrefix = "refresh_token:"
)

// AccessClaims is the full claim set of an access token. Roles are a
// snapshot taken at issuance; role changes only show up in the next
// issued pair.
type AccessClaims struct {
	TokenType string   `json:"type"`
	Roles     []string `json:"roles"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims carries a back-reference to the paired access token so
// logout and rotation can revoke both jtis from the refresh token alone.
type RefreshClaims struct {
	TokenType string `json:"type"`
	AccessJTI string `json:"access_jti"`
	jwt.RegisteredClaims
}

type TokenIssuer interface {
	IssuePair(ctx context.Context, user *domain.User, roles []string) (*dto.TokenResponse, error)
	ParseAccess(tokenString string) (*AccessClaims, error)
	ParseRefresh(tokenString string) (*RefreshClaims, error)
	Revoke(ctx context.Context, accessJTI, refreshJTI, userID string) error
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type TokenService struct {
	secret        []byte
	method        jwt.SigningMethod
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	store         kv.Store
	registry      *revocation.Registry
	log           zerolog.Logger
}

func NewTokenService(
	secret, algorithm string,
	accessMinutes, refreshMinutes int,
	store kv.Store,
	registry *revocation.Registry,
	log zerolog.Logger,
) (*TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &TokenService{
		secret:        []byte(secret),
		method:        method,
		accessExpiry:  time.Duration(accessMinutes) * time.Minute,
		refreshExpiry: time.Duration(refreshMinutes) * time.Minute,
		store:         store,
		registry:      registry,
		log:           log,
	}, nil
}

// IssuePair mints an access/refresh pair with two fresh jtis and writes
// a liveness marker for each into the key-value store, expiring with
// the token it shadows.
func (ts *TokenService) IssuePair(ctx context.Context, user *domain.User, roles []string) (*dto.TokenResponse, error) {
	now := time.Now()
	accessJTI := uuid.NewString()
	refreshJTI := uuid.NewString()

	accessClaims := AccessClaims{
		TokenType: tokenTypeAccess,
		Roles:     roles,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        accessJTI,
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	refreshClaims := RefreshClaims{
		TokenType: tokenTypeRefresh,
		AccessJTI: accessJTI,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        refreshJTI,
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.refreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken, err := jwt.NewWithClaims(ts.method, accessClaims).SignedString(ts.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrSigning, err)
	}

	refreshToken, err := jwt.NewWithClaims(ts.method, refreshClaims).SignedString(ts.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrSigning, err)
	}

	if err := ts.store.Set(ctx, accessMarkerPrefix+accessJTI, user.ID, ts.accessExpiry); err != nil {
		return nil, fmt.Errorf("%w: store access marker: %v", autherror.ErrUpstreamUnavailable, err)
	}
	if err := ts.store.Set(ctx, refreshMarkerPrefix+refreshJTI, user.ID, ts.refreshExpiry); err != nil {
		return nil, fmt.Errorf("%w: store refresh marker: %v", autherror.ErrUpstreamUnavailable, err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Revoke records both jtis in the revocation registry. Idempotent:
// revoking an already revoked jti still succeeds. The entries outlive
// the tokens' remaining validity by construction (full expiry window).
func (ts *TokenService) Revoke(ctx context.Context, accessJTI, refreshJTI, userID string) error {
	if err := ts.registry.RecordRevoked(ctx, accessJTI, userID, ts.accessExpiry); err != nil {
		return fmt.Errorf("%w: %v", autherror.ErrUpstreamUnavailable, err)
	}
	if err := ts.registry.RecordRevoked(ctx, refreshJTI, userID, ts.refreshExpiry); err != nil {
		return fmt.Errorf("%w: %v", autherror.ErrUpstreamUnavailable, err)
	}

	ts.log.Info().Str("user_id", userID).Msg("token pair revoked")

	return nil
}

func (ts *TokenService) ParseAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ts.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, autherror.ErrWrongTokenType
	}
	return claims, nil
}

func (ts *TokenService) ParseRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ts.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh || claims.AccessJTI == "" {
		return nil, autherror.ErrWrongTokenType
	}
	return claims, nil
}

// parse verifies signature and expiry. HMAC verification inside
// golang-jwt compares digests in constant time.
func (ts *TokenService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	}, jwt.WithValidMethods([]string{ts.method.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return autherror.ErrExpiredToken
		}
		ts.log.Debug().Err(err).Msg("token decode failed")
		return autherror.ErrMalformedToken
	}

	if !token.Valid {
		return autherror.ErrMalformedToken
	}

	return nil
}

func (ts *TokenService) AccessTTL() time.Duration {
	return ts.accessExpiry
}

func (ts *TokenService) RefreshTTL() time.Duration {
	return ts.refreshExpiry
}
