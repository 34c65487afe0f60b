package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/config"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthenticated, "Invalid credentials")
	ErrAccountLocked      = apperror.New(apperror.KindLocked, "Account temporarily locked due to too many failed login attempts")
	ErrAccountDeactivated = apperror.New(apperror.KindForbidden, "Account is deactivated")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthenticated, "Invalid or expired token")
	ErrMissingToken       = apperror.New(apperror.KindUnauthenticated, "Authentication required")
	ErrInsufficientRole   = apperror.New(apperror.KindForbidden, "Insufficient permissions")
	ErrWrongPassword      = apperror.New(apperror.KindUnauthenticated, "Current password is incorrect")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

type Service struct {
	config     *config.AuthConfig
	log        *zap.Logger
	repository Repository
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

func NewService(config *config.AuthConfig, log *zap.Logger, repo Repository) *Service {
	return &Service{
		config:     config,
		log:        log,
		repository: repo,
		now:        time.Now,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares in constant time with respect to the password.
func (s *Service) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// burnCompare spends the same bcrypt work as a real comparison so a missing
// account cannot be told apart from a wrong password by timing.
func (s *Service) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

func (s *Service) GenerateToken(account *Account) (string, error) {
	now := s.now()
	claims := &Claims{
		Role: account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(account.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	if !token.Valid || !claims.Role.Valid() {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

type LoginResult struct {
	User  Summary `json:"user"`
	Token string  `json:"token"`
}

// Login verifies credentials and maintains the lockout state.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	// Emails are stored lowercased; usernames match exactly.
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}
	if err := apperror.Validation(validation.Errors{
		"username": validation.Validate(identifier, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}.Filter()); err != nil {
		return nil, err
	}

	now := s.now()

	account, err := s.repository.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.burnCompare(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if account.IsLocked(now) {
		s.log.Warn("login attempt on locked account",
			zap.Uint("account_id", account.ID),
			zap.Time("lock_until", *account.LockUntil))
		return nil, ErrAccountLocked
	}

	if !account.IsActive {
		return nil, ErrAccountDeactivated
	}

	if !s.CheckPasswordHash(password, account.PasswordHash) {
		if err := s.recordFailure(ctx, account, now); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.repository.RecordSuccess(ctx, account.ID, now); err != nil {
		return nil, err
	}
	account.FailedAttempts = 0
	account.LockUntil = nil
	account.LastLoginAt = &now

	token, err := s.GenerateToken(account)
	if err != nil {
		return nil, apperror.Internal("sign token", err)
	}

	s.log.Info("login succeeded", zap.Uint("account_id", account.ID))

	return &LoginResult{User: account.Summary(), Token: token}, nil
}

func (s *Service) recordFailure(ctx context.Context, account *Account, now time.Time) error {
	failure := Failure{
		At:          now,
		WindowStart: now.Add(-s.config.FailureWindow),
		Threshold:   s.config.MaxFailedAttempts,
		LockUntil:   now.Add(s.config.LockoutDuration),
	}
	locked, err := s.repository.RecordFailure(ctx, account.ID, failure)
	if err != nil {
		return err
	}
	if locked {
		s.log.Warn("account locked after repeated failures",
			zap.Uint("account_id", account.ID),
			zap.Time("lock_until", failure.LockUntil))
	}
	return nil
}

// Authenticate resolves a bearer token to an active account.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*Account, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	account, err := s.repository.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !account.IsActive {
		return nil, ErrInvalidToken
	}

	return account, nil
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Role == "" {
		in.Role = RoleUser
	}
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.Length(3, 30), validation.Match(usernamePattern)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Role, validation.In(RoleUser, RoleAdmin)),
	)
}

// Register creates a new account. Callers must already be authorized as admin.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	in.normalize()
	if err := apperror.Validation(in.Validate()); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	account := &Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		IsActive:     true,
	}

	if err := s.repository.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info("account created",
		zap.Uint("account_id", account.ID),
		zap.String("username", account.Username),
		zap.String("role", string(account.Role)))

	return account, nil
}

type UpdateProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Avatar    *string `json:"avatar"`
}

func (s *Service) UpdateProfile(ctx context.Context, account *Account, in UpdateProfileInput) (*Account, error) {
	updated := *account
	if in.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		updated.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		updated.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Avatar != nil {
		updated.Avatar = strings.TrimSpace(*in.Avatar)
	}

	err := validation.ValidateStruct(&updated,
		validation.Field(&updated.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&updated.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&updated.Email, validation.Required, is.EmailFormat),
		validation.Field(&updated.Avatar, is.URL),
	)
	if err := apperror.Validation(err); err != nil {
		return nil, err
	}

	if updated.Email != account.Email {
		if _, err := s.repository.FindByEmail(ctx, updated.Email); err == nil {
			return nil, apperror.Duplicate("Email already in use")
		} else if !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
	}

	if err := s.repository.UpdateProfile(ctx, account.ID, updated.FirstName, updated.LastName, updated.Email, updated.Avatar); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) ChangePassword(ctx context.Context, account *Account, current, next string) error {
	err := validation.Errors{
		"currentPassword": validation.Validate(current, validation.Required),
		"newPassword":     validation.Validate(next, validation.Required, validation.Length(6, 72)),
	}.Filter()
	if err := apperror.Validation(err); err != nil {
		return err
	}

	if !s.CheckPasswordHash(current, account.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := s.HashPassword(next)
	if err != nil {
		return apperror.Internal("hash password", err)
	}
	return s.repository.UpdatePassword(ctx, account.ID, hash)
}

// EnsureBootstrapAdmin creates the configured admin when no account exists.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context) error {
	if s.config.BootstrapUsername == "" || s.config.BootstrapPassword == "" {
		return nil
	}

	n, err := s.repository.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	email := s.config.BootstrapEmail
	if email == "" {
		email = s.config.BootstrapUsername + "@localhost.localdomain"
	}

	_, err = s.Register(ctx, RegisterInput{
		Username:  s.config.BootstrapUsername,
		Email:     email,
		Password:  s.config.BootstrapPassword,
		FirstName: "Site",
		LastName:  "Admin",
		Role:      RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.Info("bootstrap admin created", zap.String("username", s.config.BootstrapUsername))
	return nil
}
