// Package middleware is the authentication gate in front of every
// protected handler: it extracts the bearer credential, verifies
// signature and expiry, consults the revocation registry and attaches
// the claims to the request context. It only gates; it never mutates
// state.
package middleware

//go:generate mockgen -destination=../../mocks/mock_admin_checker.go -package=mocks github.com/stybayev/graduate-work/internal/auth/middleware AdminChecker

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/stybayev/graduate-work/internal/auth/revocation"
	"github.com/stybayev/graduate-work/internal/auth/service"
	autherror "github.com/stybayev/graduate-work/internal/errors"
)

const (
	localsAccessClaims  = "access_claims"
	localsRefreshClaims = "refresh_claims"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type Gate struct {
	tokens   service.TokenIssuer
	registry *revocation.Registry
	log      zerolog.Logger
}

func NewGate(tokens service.TokenIssuer, registry *revocation.Registry, log zerolog.Logger) *Gate {
	return &Gate{
		tokens:   tokens,
		registry: registry,
		log:      log,
	}
}

func extractBearer(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", autherror.ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", autherror.ErrMalformedToken
	}

	return token, nil
}

// RequireAccess admits only requests carrying a live access token.
func (g *Gate) RequireAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractBearer(c)
		if err != nil {
			return err
		}

		claims, err := g.tokens.ParseAccess(token)
		if err != nil {
			g.log.Debug().Err(err).Str("path", c.Path()).Msg("access token rejected")
			return err
		}

		revoked, err := g.registry.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", autherror.ErrUpstreamUnavailable, err)
		}
		if revoked {
			g.log.Debug().Str("jti", claims.ID).Msg("revoked access token presented")
			return autherror.ErrRevokedToken
		}

		c.Locals(localsAccessClaims, claims)

		return c.Next()
	}
}

// RequireRefresh admits only requests carrying a live refresh token.
// The refresh jti is checked against the registry independently of the
// paired access jti.
func (g *Gate) RequireRefresh() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractBearer(c)
		if err != nil {
			return err
		}

		claims, err := g.tokens.ParseRefresh(token)
		if err != nil {
			g.log.Debug().Err(err).Str("path", c.Path()).Msg("refresh token rejected")
			return err
		}

		revoked, err := g.registry.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", autherror.ErrUpstreamUnavailable, err)
		}
		if revoked {
			g.log.Debug().Str("jti", claims.ID).Msg("revoked refresh token presented")
			return autherror.ErrRevokedToken
		}

		c.Locals(localsRefreshClaims, claims)

		return c.Next()
	}
}

// RequireAdmin must be composed after RequireAccess. It short-circuits
// with a permission error before the wrapped handler can mutate
// anything.
func RequireAdmin(checker AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := AccessClaims(c)
		if claims == nil {
			return autherror.ErrMissingToken
		}

		isAdmin, err := checker.IsAdmin(c.UserContext(), claims.Subject)
		if err != nil {
			return err
		}
		if !isAdmin {
			return autherror.ErrPermissionDenied
		}

		return c.Next()
	}
}

// AccessClaims returns the claims attached by RequireAccess, or nil.
func AccessClaims(c *fiber.Ctx) *service.AccessClaims {
	claims, _ := c.Locals(localsAccessClaims).(*service.AccessClaims)
	return claims
}

// RefreshClaims returns the claims attached by RequireRefresh, or nil.
func RefreshClaims(c *fiber.Ctx) *service.RefreshClaims {
	claims, _ := c.Locals(localsRefreshClaims).(*service.RefreshClaims)
	return claims
}
