package auth

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ghostname-service/internal/domain"
	apperrors "github.com/spec-kit/ghostname-service/pkg/util/errorutil"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "ghostname-identity", 30)
	token, exp, err := tm.GenerateToken(domain.Identity{Email: "x@example.com", FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{Email: "x@example.com", FirstName: "Ada", LastName: "Lovelace"}, claims.Identity())
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", "ghostname-identity", 30)
	token, _, err := tm.GenerateToken(domain.Identity{Email: "x@example.com"})
	require.NoError(t, err)

	other := NewTokenManager("other-secret", "ghostname-identity", 30)
	_, err = other.ParseToken(token)
	assert.Error(t, err, "wrong secret")

	foreign := NewTokenManager("secret", "someone-else", 30)
	_, err = foreign.ParseToken(token)
	assert.Error(t, err, "wrong issuer")

	late := NewTokenManager("secret", "ghostname-identity", 30)
	late.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = late.ParseToken(token)
	assert.Error(t, err, "expired")

	_, _, err = tm.GenerateToken(domain.Identity{})
	assert.ErrorIs(t, err, domain.ErrIdentityRequired)
}

func newProtectedApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/me", NewAuthMiddleware(tm).Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(p.Email())
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", "ghostname-identity", 30)
	token, _, err := tm.GenerateToken(domain.Identity{Email: "x@example.com"})
	require.NoError(t, err)
	app := newProtectedApp(tm)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + token, 200, "x@example.com"},
		{"lowercase scheme", "bearer " + token, 200, "x@example.com"},
		{"missing", "", 401, apperrors.CodeUnauthorized},
		{"wrong scheme", "Basic abc", 401, apperrors.CodeUnauthorized},
		{"garbage", "Bearer not-a-token", 401, apperrors.CodeUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tc.body, string(body))
		})
	}
}
