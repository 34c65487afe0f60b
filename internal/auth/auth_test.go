package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/config"
)

const testPassword = "correct-horse"

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:         "test-secret-key",
		TokenExpiration:   7 * 24 * time.Hour,
		MaxFailedAttempts: 5,
		FailureWindow:     2 * time.Hour,
		LockoutDuration:   2 * time.Hour,
	}
}

// testClock is a settable time source.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *mockRepository, *testClock) {
	t.Helper()
	repo := newMockRepository()
	clock := &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(newTestConfig(), zap.NewNop(), repo)
	svc.now = clock.Now
	return svc, repo, clock
}

func seedAccount(t *testing.T, svc *Service, username string, role Role) *Account {
	t.Helper()
	account, err := svc.Register(context.Background(), RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  testPassword,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	require.NoError(t, err)
	return account
}
