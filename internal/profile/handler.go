package profile

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
	g := r.Group(api.ProfileGroup)
	g.GET("", h.Public)

	admin := g.Group("", h.auth.Admin()...)
	admin.GET("/admin", h.Admin)
	admin.PUT("", h.Update)
	admin.POST("/upload-image", h.UploadImage)
	admin.POST("/upload-resume", h.UploadResume)
}

func (h *Handler) Public(c *gin.Context) {
	p, err := h.service.Public(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) Admin(c *gin.Context) {
	p, err := h.service.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) Update(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	p, err := h.service.Update(c.Request.Context(), in)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Profile updated successfully", p)
}

func (h *Handler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile(imageRule.Field)
	if err != nil {
		response.BadRequest(c, "No image file provided")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	defer f.Close()

	p, err := h.service.UploadImage(c.Request.Context(), f)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Profile image uploaded successfully", gin.H{
		"imageUrl": p.ProfileImage,
		"profile":  p,
	})
}

func (h *Handler) UploadResume(c *gin.Context) {
	fh, err := c.FormFile(resumeRule.Field)
	if err != nil {
		response.BadRequest(c, "No resume file provided")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	defer f.Close()

	p, err := h.service.UploadResume(c.Request.Context(), f)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	response.OKMessage(c, "Resume uploaded successfully", gin.H{
		"resumeUrl": p.ResumeURL,
		"profile":   p,
	})
}
