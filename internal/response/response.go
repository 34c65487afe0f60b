package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/apperror"
)

type Response struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Code    string                `json:"code,omitempty"`
	Data    interface{}           `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Meta    *Meta                 `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Count      int   `json:"count"`
}

func NewMeta(page, limit int, total int64, count int) *Meta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Meta{Page: page, Limit: limit, Total: total, TotalPages: pages, Count: count}
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func OKMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func List(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, apperror.KindValidation.String(), message)
}

func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Success: false, Code: code, Message: message})
}

// Error writes err as an envelope. Anything that is not an *apperror.Error of a
// client-facing kind is logged and answered with a generic 500.
func Error(c *gin.Context, log *zap.Logger, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Code:    apperror.KindInternal.String(),
			Message: "Internal server error",
		})
		return
	}

	c.JSON(apperror.StatusOf(appErr), Response{
		Success: false,
		Code:    appErr.Kind.String(),
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

// AbortError is Error followed by c.Abort, for middleware.
func AbortError(c *gin.Context, log *zap.Logger, err error) {
	Error(c, log, err)
	c.Abort()
}
