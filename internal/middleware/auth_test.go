package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAuth0ID(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		setup    func(c echo.Context)
		expected string
	}{
		{
			name: "returns auth0 id when present",
			setup: func(c echo.Context) {
				ctx := context.WithValue(c.Request().Context(), Auth0IDKey, "auth0|12345")
				c.SetRequest(c.Request().WithContext(ctx))
			},
			expected: "auth0|12345",
		},
		{
			name:     "returns empty string when not present",
			setup:    func(c echo.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			tt.setup(c)

			result := GetAuth0ID(c)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: "auth0|test",
			},
		}
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetClaims(c)
		if result == nil {
			t.Fatal("Expected claims, got nil")
		}
		if result.RegisteredClaims.Subject != "auth0|test" {
			t.Errorf("Expected subject 'auth0|test', got %q", result.RegisteredClaims.Subject)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		result := GetClaims(c)
		if result != nil {
			t.Error("Expected nil, got claims")
		}
	})
}

func TestGetCustomClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns custom claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		customClaims := &CustomClaims{
			Email:   "test@example.com",
			Name:    "Test User",
			Picture: "https://example.com/pic.jpg",
		}
		claims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: "auth0|test",
			},
			CustomClaims: customClaims,
		}
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, claims)
		c.SetRequest(c.Request().WithContext(ctx))

		result := GetCustomClaims(c)
		if result == nil {
			t.Fatal("Expected custom claims, got nil")
		}
		if result.Email != "test@example.com" {
			t.Errorf("Expected email 'test@example.com', got %q", result.Email)
		}
		if result.Name != "Test User" {
			t.Errorf("Expected name 'Test User', got %q", result.Name)
		}
	})

	t.Run("returns nil when claims not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		result := GetCustomClaims(c)
		if result != nil {
			t.Error("Expected nil, got custom claims")
		}
	})
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := &CustomClaims{
		Email: "test@example.com",
		Name:  "Test",
	}

	err := claims.Validate(context.Background())
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

type mockUserProvider struct {
	user *domain.User
	err  error
}

func (m *mockUserProvider) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func newTestAuthMiddleware(t *testing.T, provider UserProvider) *AuthMiddleware {
	t.Helper()
	m, err := NewAuthMiddleware("test.auth0.com", "https://api.committee.app", provider)
	require.NoError(t, err)
	return m
}

func TestAuthMiddleware_RejectsBadHeaders(t *testing.T) {
	e := echo.New()
	m := newTestAuthMiddleware(t, &mockUserProvider{err: domain.ErrUserNotFound})

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{"missing header", "", "missing authorization header"},
		{"no bearer prefix", "invalid-token", "invalid authorization header format"},
		{"wrong prefix", "Basic token123", "invalid authorization header format"},
		{"malformed jwt", "Bearer not-a-jwt", "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			called := false
			err := m.Authenticate()(func(c echo.Context) error {
				called = true
				return nil
			})(c)

			require.NoError(t, err)
			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body problemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.detail, body.Detail)
			assert.Equal(t, errorTypeUnauthorized, body.Type)
		})
	}
}

func TestAuthMiddleware_WithUser(t *testing.T) {
	userID := uuid.New()

	t.Run("injects user id and role", func(t *testing.T) {
		m := newTestAuthMiddleware(t, &mockUserProvider{user: &domain.User{ID: userID, Role: domain.RoleAdmin}})

		ctx, err := m.withUser(context.Background(), "auth0|admin")
		require.NoError(t, err)
		assert.Equal(t, userID, ctx.Value(UserIDKey))
		assert.Equal(t, domain.RoleAdmin, ctx.Value(RoleKey))
	})

	t.Run("unknown user fails", func(t *testing.T) {
		m := newTestAuthMiddleware(t, &mockUserProvider{err: domain.ErrUserNotFound})

		_, err := m.withUser(context.Background(), "auth0|ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		role     domain.UserRole
		expected int
	}{
		{"admin passes", domain.RoleAdmin, http.StatusOK},
		{"user is forbidden", domain.RoleUser, http.StatusForbidden},
		{"no role is forbidden", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
			if tt.role != "" {
				req = req.WithContext(context.WithValue(req.Context(), RoleKey, tt.role))
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := RequireAdmin()(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})(c)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestGetUserIDAndRole(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetUserID(c))
	assert.Equal(t, domain.UserRole(""), GetRole(c))

	ctx := context.WithValue(req.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, RoleKey, domain.RoleUser)
	c.SetRequest(req.WithContext(ctx))
	assert.Equal(t, userID, GetUserID(c))
	assert.Equal(t, domain.RoleUser, GetRole(c))
}
