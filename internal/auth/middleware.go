package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/response"
)

type contextKey string

const (
	// AccountContextKey is the key the authenticated account is stored under,
	// both in the gin context and in the request context.
	AccountContextKey contextKey = "account"
)

type Middleware struct {
	service *Service
	log     *zap.Logger
}

func NewMiddleware(service *Service, log *zap.Logger) *Middleware {
	return &Middleware{service: service, log: log}
}

// Authenticate rejects requests without a valid bearer token for an active account.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := m.service.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			response.AbortError(c, m.log, err)
			return
		}
		setAccount(c, account)
		c.Next()
	}
}

// Optional attaches the account when a valid token is present and never rejects.
func (m *Middleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if account, err := m.service.Authenticate(c.Request.Context(), token); err == nil {
				setAccount(c, account)
			}
		}
		c.Next()
	}
}

// RequireRole must run after Authenticate.
func (m *Middleware) RequireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := AccountFromGin(c)
		if !ok {
			response.AbortError(c, m.log, ErrMissingToken)
			return
		}
		if !account.Role.Satisfies(role) {
			m.log.Warn("role check failed",
				zap.Uint("account_id", account.ID),
				zap.String("role", string(account.Role)),
				zap.String("required", string(role)))
			response.AbortError(c, m.log, ErrInsufficientRole)
			return
		}
		c.Next()
	}
}

// Admin is Authenticate followed by RequireRole(RoleAdmin).
func (m *Middleware) Admin() gin.HandlersChain {
	return gin.HandlersChain{m.Authenticate(), m.RequireRole(RoleAdmin)}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func setAccount(c *gin.Context, account *Account) {
	c.Set(string(AccountContextKey), account)
	c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), account))
}

func WithAccount(ctx context.Context, account *Account) context.Context {
	return context.WithValue(ctx, AccountContextKey, account)
}

func AccountFromContext(ctx context.Context) (*Account, bool) {
	account, ok := ctx.Value(AccountContextKey).(*Account)
	return account, ok && account != nil
}

func AccountFromGin(c *gin.Context) (*Account, bool) {
	v, ok := c.Get(string(AccountContextKey))
	if !ok {
		return AccountFromContext(c.Request.Context())
	}
	account, ok := v.(*Account)
	return account, ok && account != nil
}

// IsAdmin reports whether the request carries an admin account.
func IsAdmin(c *gin.Context) bool {
	account, ok := AccountFromGin(c)
	return ok && account.Role.Satisfies(RoleAdmin)
}
