package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: New(KindValidation, "bad"), want: http.StatusBadRequest},
		{name: "duplicate", err: Duplicate("dup"), want: http.StatusBadRequest},
		{name: "unauthenticated", err: New(KindUnauthenticated, "no"), want: http.StatusUnauthorized},
		{name: "forbidden", err: New(KindForbidden, "no"), want: http.StatusForbidden},
		{name: "locked", err: New(KindLocked, "locked"), want: http.StatusLocked},
		{name: "not found", err: NotFound("gone"), want: http.StatusNotFound},
		{name: "too many", err: New(KindTooManyRequests, "slow down"), want: http.StatusTooManyRequests},
		{name: "wrapped", err: fmt.Errorf("ctx: %w", NotFound("gone")), want: http.StatusNotFound},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestValidation(t *testing.T) {
	assert.NoError(t, Validation(nil))

	err := Validation(validation.Errors{
		"title":   errors.New("cannot be blank"),
		"excerpt": errors.New("the length must be no more than 300"),
		"ok":      nil,
	})

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, []FieldError{
		{Field: "excerpt", Message: "the length must be no more than 300"},
		{Field: "title", Message: "cannot be blank"},
	}, appErr.Fields)
}

func TestValidation_Nested(t *testing.T) {
	err := Validation(validation.Errors{
		"seo": validation.Errors{"metaTitle": errors.New("too long")},
	})

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "seo.metaTitle", appErr.Fields[0].Field)
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "missing", "dup"))

	err := FromDB(gorm.ErrRecordNotFound, "post not found", "dup")
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.EqualError(t, err, "post not found")

	err = FromDB(errors.New("UNIQUE constraint failed: blog_posts.slug"), "missing", "slug exists")
	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindDuplicate, appErr.Kind)
	assert.Equal(t, "slug exists", appErr.Message)

	err = FromDB(errors.New("connection refused"), "missing", "dup")
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestError_Is(t *testing.T) {
	sentinel := New(KindLocked, "account locked")
	err := fmt.Errorf("login: %w", New(KindLocked, "account locked"))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, New(KindLocked, "other"))
}
