package contact

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/auth"
	"github.com/elskow/portfolio-cms/internal/middleware"
	"github.com/elskow/portfolio-cms/internal/response"
)

type Handler struct {
	service *Service
	auth    *auth.Middleware
	limiter *middleware.ContactLimiter
	log     *zap.Logger
}

func NewHandler(service *Service, mw *auth.Middleware, limiter *middleware.ContactLimiter, log *zap.Logger) *Handler {
	return &Handler{service: service, auth: mw, limiter: limiter, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group(api.ContactGroup)
	g.POST("", h.limiter.Handler(), h.Submit)

	admin := g.Group("/admin", h.auth.Admin()...)
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

func (h *Handler) Submit(c *gin.Context) {
	var in SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.Submit(c.Request.Context(), in, Client{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, "Message sent successfully! We'll get back to you soon.", gin.H{
		"id":        m.ID,
		"createdAt": m.CreatedAt,
	})
}

func (h *Handler) List(c *gin.Context) {
	page, limit := api.Pagination(c)
	result, err := h.service.List(c.Request.Context(), ListFilter{
		IsRead:   api.BoolQuery(c, "isRead"),
		Priority: Priority(c.Query("priority")),
		Page:     page,
		Limit:    limit,
		Sort:     c.DefaultQuery("sort", "-createdAt"),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, result, response.NewMeta(page, limit, result.Total, len(result.Messages)))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrMessageNotFound)
		return
	}
	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrMessageNotFound)
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Contact message updated successfully", m)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrMessageNotFound)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Contact message deleted successfully", nil)
}
