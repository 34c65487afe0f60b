package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/database/dbtest"
)

func TestService_HashPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name     string
		password string
	}{
		{name: "valid password", password: "testpassword123"},
		{name: "empty password", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := svc.HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.True(t, svc.CheckPasswordHash(tt.password, hash))
			assert.False(t, svc.CheckPasswordHash(tt.password+"x", hash))
		})
	}
}

func TestService_GenerateAndValidateToken(t *testing.T) {
	svc, _, clock := newTestService(t)
	account := &Account{ID: 42, Role: RoleAdmin}

	token, err := svc.GenerateToken(account)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, clock.Now().Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	t.Run("expired", func(t *testing.T) {
		clock.Advance(7*24*time.Hour + time.Minute)
		_, err := svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			Role: RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
			},
		})
		signed, err := other.SignedString([]byte("another-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			Role: Role("root"),
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
			},
		})
		signed, err := forged.SignedString([]byte(newTestConfig().JWTSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("unsigned", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: RoleAdmin})
		signed, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.Error(t, err)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setup      func(*mockRepository, *Account)
		identifier string
		password   string
		wantErr    error
		wantStatus int
	}{
		{
			name:       "by username",
			identifier: "alice",
			password:   testPassword,
		},
		{
			name:       "by email",
			identifier: "alice@example.com",
			password:   testPassword,
		},
		{
			name:       "unknown account",
			identifier: "nobody",
			password:   testPassword,
			wantErr:    ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong password",
			identifier: "alice",
			password:   "nope-nope",
			wantErr:    ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "deactivated",
			setup:      func(r *mockRepository, a *Account) { r.setActive(a.ID, false) },
			identifier: "alice",
			password:   testPassword,
			wantErr:    ErrAccountDeactivated,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing password",
			identifier: "alice",
			password:   "",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			account := seedAccount(t, svc, "alice", RoleUser)
			if tt.setup != nil {
				tt.setup(repo, account)
			}

			result, err := svc.Login(ctx, tt.identifier, tt.password)
			if tt.wantStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, apperror.StatusOf(err))
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.Equal(t, "alice", result.User.Username)
			assert.Equal(t, "Test User", result.User.FullName)

			claims, err := svc.ValidateToken(result.Token)
			require.NoError(t, err)
			assert.Equal(t, strconv.FormatUint(uint64(account.ID), 10), claims.Subject)
			assert.NotNil(t, repo.snapshot(account.ID).LastLoginAt)
		})
	}
}

func TestService_Login_SuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestService(t)
	account := seedAccount(t, svc, "bob", RoleUser)

	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		_, err := svc.Login(ctx, "bob", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, 4, repo.snapshot(account.ID).FailedAttempts)

	clock.Advance(time.Second)
	_, err := svc.Login(ctx, "bob", testPassword)
	require.NoError(t, err)

	stored := repo.snapshot(account.ID)
	assert.Equal(t, 0, stored.FailedAttempts)
	assert.Nil(t, stored.LockUntil)
}

func TestService_Login_Lockout(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestService(t)
	account := seedAccount(t, svc, "carol", RoleUser)

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		_, err := svc.Login(ctx, "carol", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i+1)
	}

	stored := repo.snapshot(account.ID)
	require.NotNil(t, stored.LockUntil)
	assert.Equal(t, clock.Now().Add(2*time.Hour), *stored.LockUntil)
	assert.Equal(t, 0, stored.FailedAttempts)

	// The sixth attempt is refused even with the right password.
	clock.Advance(time.Second)
	_, err := svc.Login(ctx, "carol", testPassword)
	assert.ErrorIs(t, err, ErrAccountLocked)
	assert.Equal(t, http.StatusLocked, apperror.StatusOf(err))

	// A locked account does not accumulate further failures.
	_, err = svc.Login(ctx, "carol", "wrong-password")
	assert.ErrorIs(t, err, ErrAccountLocked)
	assert.Equal(t, *stored.LockUntil, *repo.snapshot(account.ID).LockUntil)

	clock.Advance(2 * time.Hour)
	result, err := svc.Login(ctx, "carol", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Nil(t, repo.snapshot(account.ID).LockUntil)
}

func TestService_Login_ConcurrentFailuresLock(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t, &Account{}))
	svc := NewService(newTestConfig(), zap.NewNop(), repo)
	account := seedAccount(t, svc, "erin", RoleUser)

	const attempts = 10
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Login(ctx, "erin", "wrong-password")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.True(t, errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrAccountLocked), "got %v", err)
	}

	stored, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LockUntil)
	assert.True(t, stored.IsLocked(time.Now()))

	_, err = svc.Login(ctx, "erin", testPassword)
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestService_Login_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	seedAccount(t, svc, "frank", RoleUser)

	result, err := svc.Login(ctx, "  Frank@Example.COM ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "frank", result.User.Username)

	_, err = svc.Login(ctx, "FRANK", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_FailureWindowRestartsCounter(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestService(t)
	account := seedAccount(t, svc, "dave", RoleUser)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		_, _ = svc.Login(ctx, "dave", "wrong-password")
	}
	assert.Equal(t, 3, repo.snapshot(account.ID).FailedAttempts)

	clock.Advance(3 * time.Hour)
	_, _ = svc.Login(ctx, "dave", "wrong-password")
	assert.Equal(t, 1, repo.snapshot(account.ID).FailedAttempts)
	assert.Nil(t, repo.snapshot(account.ID).LockUntil)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, repo, clock := newTestService(t)
	account := seedAccount(t, svc, "erin", RoleAdmin)

	token, err := svc.GenerateToken(account)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost, err := svc.GenerateToken(&Account{ID: 999, Role: RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, ErrInvalidToken)

	repo.setActive(account.ID, false)
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	repo.setActive(account.ID, true)

	clock.Advance(8 * 24 * time.Hour)
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	seedAccount(t, svc, "frank", RoleAdmin)

	tests := []struct {
		name       string
		in         RegisterInput
		wantFields []string
		wantKind   apperror.Kind
	}{
		{
			name: "defaults role to user",
			in: RegisterInput{
				Username: "grace", Email: " Grace@Example.com ", Password: "secret1",
				FirstName: "Grace", LastName: "Hopper",
			},
		},
		{
			name: "duplicate username",
			in: RegisterInput{
				Username: "frank", Email: "other@example.com", Password: "secret1",
				FirstName: "F", LastName: "F",
			},
			wantKind: apperror.KindDuplicate,
		},
		{
			name: "invalid fields",
			in: RegisterInput{
				Username: "a!", Email: "not-an-email", Password: "123",
				FirstName: "", LastName: "L", Role: "root",
			},
			wantKind:   apperror.KindValidation,
			wantFields: []string{"email", "firstName", "password", "role", "username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := svc.Register(ctx, tt.in)
			if tt.wantKind != 0 {
				var appErr *apperror.Error
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantKind, appErr.Kind)
				if tt.wantFields != nil {
					fields := make([]string, 0, len(appErr.Fields))
					for _, f := range appErr.Fields {
						fields = append(fields, f.Field)
					}
					assert.Equal(t, tt.wantFields, fields)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, RoleUser, account.Role)
			assert.Equal(t, "grace@example.com", account.Email)
			assert.True(t, account.IsActive)
			assert.NotEqual(t, "secret1", account.PasswordHash)
		})
	}
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	a := seedAccount(t, svc, "heidi", RoleUser)
	seedAccount(t, svc, "ivan", RoleUser)

	first := "Heidi"
	updated, err := svc.UpdateProfile(ctx, a, UpdateProfileInput{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Heidi User", updated.FullName())
	assert.Equal(t, "Heidi", repo.snapshot(a.ID).FirstName)

	taken := "ivan@example.com"
	_, err = svc.UpdateProfile(ctx, a, UpdateProfileInput{Email: &taken})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	bad := "not a url"
	_, err = svc.UpdateProfile(ctx, a, UpdateProfileInput{Avatar: &bad})
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)
	a := seedAccount(t, svc, "judy", RoleUser)

	err := svc.ChangePassword(ctx, a, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, a, testPassword, "123")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	require.NoError(t, svc.ChangePassword(ctx, a, testPassword, "newsecret"))
	assert.True(t, svc.CheckPasswordHash("newsecret", repo.snapshot(a.ID).PasswordHash))
}

func TestService_EnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx), "no-op without configuration")
	n, _ := repo.Count(ctx)
	assert.Zero(t, n)

	svc.config.BootstrapUsername = "admin"
	svc.config.BootstrapPassword = "admin-password"
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx))

	n, _ = repo.Count(ctx)
	assert.Equal(t, int64(1), n)

	admin, err := repo.FindByIdentifier(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.Equal(t, "admin@localhost.localdomain", admin.Email)
}
