package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/middleware"
	"github.com/elskow/portfolio-cms/internal/response"
)

type Handler struct {
	service    *Service
	middleware *Middleware
	limiter    *middleware.LoginLimiter
	log        *zap.Logger
}

func NewHandler(service *Service, mw *Middleware, limiter *middleware.LoginLimiter, log *zap.Logger) *Handler {
	return &Handler{
		service:    service,
		middleware: mw,
		limiter:    limiter,
		log:        log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group(api.AuthGroup)
	g.POST("/login", h.limiter.Handler(), h.Login)

	authed := g.Group("", h.middleware.Authenticate())
	authed.GET("/me", h.Me)
	authed.POST("/logout", h.Logout)
	authed.PUT("/profile", h.UpdateProfile)
	authed.PUT("/change-password", h.ChangePassword)
	authed.POST("/register", h.middleware.RequireRole(RoleAdmin), h.Register)
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	result, err := h.service.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		h.log.Info("login rejected",
			zap.String("identifier", identifier),
			zap.String("ip", c.ClientIP()),
			zap.Error(err))
		response.Error(c, h.log, err)
		return
	}

	response.OKMessage(c, "Login successful", result)
}

func (h *Handler) Me(c *gin.Context) {
	account, _ := AccountFromGin(c)
	response.OK(c, account)
}

func (h *Handler) Logout(c *gin.Context) {
	response.OKMessage(c, "Logout successful", nil)
}

func (h *Handler) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.Created(c, "User registered successfully", account.Summary())
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var in UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	account, _ := AccountFromGin(c)
	updated, err := h.service.UpdateProfile(c.Request.Context(), account, in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OKMessage(c, "Profile updated successfully", updated.Summary())
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	account, _ := AccountFromGin(c)
	if err := h.service.ChangePassword(c.Request.Context(), account, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.OKMessage(c, "Password changed successfully", nil)
}
