package skill

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
	g := r.Group(api.SkillsGroup)
	g.GET("", h.List)
	g.GET("/categories", h.Categories)

	admin := g.Group("", h.auth.Admin()...)
	admin.POST("", h.Create)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	skills, err := h.service.List(c.Request.Context(),
		c.Query("category"), c.Query("status"), api.BoolQuery(c, "featured"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.List(c, skills, &response.Meta{Count: len(skills), Total: int64(len(skills))})
}

func (h *Handler) Categories(c *gin.Context) {
	counts, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, counts)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrSkillNotFound)
		return
	}
	sk, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, sk)
}

func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	sk, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, "Skill created successfully", sk)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrSkillNotFound)
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	sk, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Skill updated successfully", sk)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrSkillNotFound)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Skill deleted successfully", nil)
}
