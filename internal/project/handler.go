package project

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
	g := r.Group(api.ProjectsGroup)
	g.GET("", h.auth.Optional(), h.List)
	g.GET("/:slug", h.GetPublished)

	admin := g.Group("", h.auth.Admin()...)
	admin.GET("/admin/:id", h.Get)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context(),
		c.Query("status"), api.BoolQuery(c, "featured"), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, projects, &response.Meta{Count: len(projects), Total: int64(len(projects))})
}

func (h *Handler) GetPublished(c *gin.Context) {
	p, err := h.service.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrProjectNotFound)
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, "Project created successfully", p)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrProjectNotFound)
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	p, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Project updated successfully", p)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrProjectNotFound)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Project deleted successfully", nil)
}
