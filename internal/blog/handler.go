package blog

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
	g := r.Group(api.BlogGroup)
	g.GET("", h.auth.Optional(), h.List)
	g.GET("/categories", h.Categories)
	g.GET("/tags", h.Tags)
	g.GET("/:slug", h.Read)

	admin := g.Group("", h.auth.Admin()...)
	admin.GET("/admin/:id", h.Get)
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	page, limit := api.Pagination(c)
	posts, total, err := h.service.List(c.Request.Context(), ListQuery{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Featured: api.BoolQuery(c, "featured"),
		Page:     page,
		Limit:    limit,
		Sort:     c.Query("sort"),
		Admin:    auth.IsAdmin(c),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	response.List(c, posts, response.NewMeta(page, limit, total, len(posts)))
}

func (h *Handler) Categories(c *gin.Context) {
	stats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) Tags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, tags)
}

func (h *Handler) Read(c *gin.Context) {
	post, err := h.service.Read(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, post)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrPostNotFound)
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, post)
}

func (h *Handler) Create(c *gin.Context) {
	var in PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.Created(c, "Blog post created successfully", post)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrPostNotFound)
		return
	}

	var in PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Blog post updated successfully", post)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.ParseID(c)
	if !ok {
		response.Error(c, h.log, ErrPostNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Blog post deleted successfully", nil)
}
