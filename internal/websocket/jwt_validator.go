package websocket

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrUserNotRegistered is returned when the token subject has no user record
var ErrUserNotRegistered = errors.New("user not registered")

// UserLookup resolves an Auth0 subject to the local user ID
type UserLookup interface {
	GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error)
}

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct{}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// Auth0JWTValidator validates Auth0 JWT tokens for WebSocket connections
type Auth0JWTValidator struct {
	validator  *validator.Validator
	userLookup UserLookup
}

// NewAuth0JWTValidator creates a new Auth0JWTValidator
func NewAuth0JWTValidator(domain, audience string, userLookup UserLookup) (*Auth0JWTValidator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
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

	return &Auth0JWTValidator{
		validator:  jwtValidator,
		userLookup: userLookup,
	}, nil
}

// ValidateToken validates a JWT token and returns the local user ID
func (v *Auth0JWTValidator) ValidateToken(token string) (uuid.UUID, error) {
	claims, err := v.validator.ValidateToken(context.Background(), token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := v.userLookup.GetUserIDByAuth0ID(validatedClaims.RegisteredClaims.Subject)
	if err != nil {
		return uuid.Nil, ErrUserNotRegistered
	}

	return userID, nil
}
