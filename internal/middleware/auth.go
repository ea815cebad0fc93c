package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// UserIDKey is the context key for the local user ID
	UserIDKey contextKey = "user_id"
	// RoleKey is the context key for the user's role
	RoleKey contextKey = "role"
)

// UserProvider resolves an Auth0 subject to the registered user
type UserProvider interface {
	GetUserByAuth0ID(auth0ID string) (*domain.User, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator    *validator.Validator
	userProvider UserProvider
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(domainName, audience string, userProvider UserProvider) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domainName + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &AuthMiddleware{
		validator:    jwtValidator,
		userProvider: userProvider,
	}, nil
}

// AuthenticateToken validates the JWT only. Used by the login callback,
// which runs before the user record exists.
func (m *AuthMiddleware) AuthenticateToken() echo.MiddlewareFunc {
	return m.authenticate(false)
}

// Authenticate validates the JWT and requires a registered user, whose ID
// and role are injected into the request context.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return m.authenticate(true)
}

func (m *AuthMiddleware) authenticate(requireUser bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request())
			if err != nil {
				return unauthorizedError(c, err.Error())
			}

			claims, err := m.validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok {
				return unauthorizedError(c, "invalid claims")
			}

			ctx := withClaims(c.Request().Context(), validatedClaims)

			if requireUser {
				ctx, err = m.withUser(ctx, validatedClaims.RegisteredClaims.Subject)
				if err != nil {
					return unauthorizedError(c, "user not registered")
				}
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func (m *AuthMiddleware) withUser(ctx context.Context, auth0ID string) (context.Context, error) {
	user, err := m.userProvider.GetUserByAuth0ID(auth0ID)
	if err != nil {
		log.Debug().Err(err).Str("auth0_id", auth0ID).Msg("User lookup failed")
		return ctx, err
	}
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	return context.WithValue(ctx, RoleKey, user.Role), nil
}

func withClaims(ctx context.Context, claims *validator.ValidatedClaims) context.Context {
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return context.WithValue(ctx, Auth0IDKey, claims.RegisteredClaims.Subject)
}

var (
	errMissingAuthHeader = errors.New("missing authorization header")
	errInvalidAuthHeader = errors.New("invalid authorization header format")
)

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errMissingAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", errInvalidAuthHeader
	}
	return parts[1], nil
}

// RequireAdmin rejects requests from non-admin users. Must run after Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetRole(c) != domain.RoleAdmin {
				return forbiddenError(c, "admin access required")
			}
			return next(c)
		}
	}
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}

// GetUserID extracts the local user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts the user's role from the context
func GetRole(c echo.Context) domain.UserRole {
	if role, ok := c.Request().Context().Value(RoleKey).(domain.UserRole); ok {
		return role
	}
	return ""
}
