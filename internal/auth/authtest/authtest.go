// Package authtest wires a real auth service onto a test database so other
// packages can exercise their admin routes.
package authtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/auth"
	"github.com/elskow/portfolio-cms/internal/config"
)

type Fixture struct {
	Service    *auth.Service
	Middleware *auth.Middleware
	Admin      *auth.Account
	AdminToken string
	User       *auth.Account
	UserToken  string
}

// Config returns an auth configuration suitable for tests.
func Config() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:         "test-secret-key",
		TokenExpiration:   time.Hour,
		MaxFailedAttempts: 5,
		FailureWindow:     2 * time.Hour,
		LockoutDuration:   2 * time.Hour,
	}
}

// New seeds one admin and one regular account in db, which must already have
// the accounts table migrated.
func New(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	svc := auth.NewService(Config(), zap.NewNop(), auth.NewRepository(db))
	f := &Fixture{
		Service:    svc,
		Middleware: auth.NewMiddleware(svc, zap.NewNop()),
	}

	f.Admin, f.AdminToken = seed(t, svc, "admin", auth.RoleAdmin)
	f.User, f.UserToken = seed(t, svc, "reader", auth.RoleUser)
	return f
}

func seed(t *testing.T, svc *auth.Service, username string, role auth.Role) (*auth.Account, string) {
	t.Helper()

	account, err := svc.Register(context.Background(), auth.RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "Account",
		Role:      role,
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken(account)
	require.NoError(t, err)
	return account, token
}

// Bearer formats token as an Authorization header value.
func Bearer(token string) string {
	return "Bearer " + token
}
