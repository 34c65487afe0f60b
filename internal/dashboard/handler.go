package dashboard

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/auth"
	"github.com/elskow/portfolio-cms/internal/response"
)

type Handler struct {
	service *Service
	auth    *auth.Middleware
	log     *zap.Logger
}

func NewHandler(service *Service, mw *auth.Middleware, log *zap.Logger) *Handler {
	return &Handler{service: service, auth: mw, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group(api.DashboardGroup, h.auth.Admin()...)
	g.GET("/stats", h.Stats)
	g.GET("/content-summary", h.Summary)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, summary)
}
