package project

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/auth"
	"github.com/elskow/portfolio-cms/internal/auth/authtest"
	"github.com/elskow/portfolio-cms/internal/database/dbtest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := dbtest.New(t, &Project{})
	return NewService(NewRepository(db), zap.NewNop())
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	out := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         Input
		wantSlug   string
		wantFields []string
	}{
		{
			name: "slug from title",
			in: Input{
				Title:        ptr("My Cool Project!"),
				Technologies: &[]string{" Go ", "", "gin"},
				GithubURL:    ptr("https://github.com/example/repo"),
				StartDate:    ptr("2023-01-15"),
				EndDate:      ptr("2023-06-01T00:00:00Z"),
			},
			wantSlug: "my-cool-project",
		},
		{
			name:     "explicit slug is normalized",
			in:       Input{Title: ptr("Whatever"), Slug: ptr("Custom Slug")},
			wantSlug: "custom-slug",
		},
		{
			name: "invalid urls and dates",
			in: Input{
				Title:         ptr("Bad"),
				ProjectURL:    ptr("ftp://example.com"),
				DemoURL:       ptr("example.com"),
				ProjectImages: &[]string{"https://ok.example/a.png", "nope"},
				StartDate:     ptr("2024-02-01"),
				EndDate:       ptr("2024-01-01"),
				Status:        ptr(Status("live")),
			},
			wantFields: []string{"demoUrl", "endDate", "projectImages.1", "projectUrl", "status"},
		},
		{
			name:       "unparseable date",
			in:         Input{Title: ptr("Dated"), StartDate: ptr("yesterday")},
			wantFields: []string{"startDate"},
		},
		{
			name:       "missing title",
			in:         Input{},
			wantFields: []string{"title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			p, err := svc.Create(ctx, tt.in)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, fieldNames(t, err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, p.Slug)
			assert.Equal(t, StatusDraft, p.Status)
			assert.NotNil(t, p.Technologies)
		})
	}
}

func TestService_CreateDuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Title: ptr("Twin")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Title: ptr("twin")})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestService_UpdateKeepsSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{Title: ptr("Before"), StartDate: ptr("2024-01-01")})
	require.NoError(t, err)

	p, err = svc.Update(ctx, p.ID, Input{Title: ptr("After"), Slug: ptr("ignored"), StartDate: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "before", p.Slug)
	assert.Equal(t, "After", p.Title)
	assert.Nil(t, p.StartDate)

	_, err = svc.Update(ctx, 404, Input{})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestService_List(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, in := range []Input{
		{Title: ptr("Third"), Status: ptr(StatusPublished), SortOrder: ptr(3)},
		{Title: ptr("First"), Status: ptr(StatusPublished), SortOrder: ptr(1), Featured: ptr(true)},
		{Title: ptr("Second"), Status: ptr(StatusPublished), SortOrder: ptr(2)},
		{Title: ptr("Hidden"), SortOrder: ptr(0)},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	titles := func(ps []Project) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Title)
		}
		return out
	}

	public, err := svc.List(ctx, "draft", nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second", "Third"}, titles(public))

	featured, err := svc.List(ctx, "", ptr(true), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"First"}, titles(featured))

	all, err := svc.List(ctx, "all", nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hidden", "First", "Second", "Third"}, titles(all))

	drafts, err := svc.List(ctx, "draft", nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hidden"}, titles(drafts))

	_, err = svc.GetPublished(ctx, "hidden")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	p, err := svc.GetPublished(ctx, "first")
	require.NoError(t, err)
	assert.True(t, p.Featured)
}

func TestHandler(t *testing.T) {
	db := dbtest.New(t, &Project{}, &auth.Account{})
	f := authtest.New(t, db)

	r := gin.New()
	NewHandler(NewService(NewRepository(db), zap.NewNop()), f.Middleware, zap.NewNop()).
		RegisterRoutes(r.Group(api.Prefix))

	do := func(method, path, token string, body any) (int, map[string]any) {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", authtest.Bearer(token))
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return w.Code, out
	}

	code, _ := do(http.MethodPost, "/api/projects", f.UserToken, map[string]any{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := do(http.MethodPost, "/api/projects", f.AdminToken, map[string]any{
		"title": "Portfolio CMS", "status": "published", "technologies": []string{"Go"},
	})
	require.Equal(t, http.StatusCreated, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "portfolio-cms", data["slug"])
	id := strconv.Itoa(int(data["id"].(float64)))

	code, body = do(http.MethodGet, "/api/projects/portfolio-cms", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, _ = do(http.MethodPut, "/api/projects/"+id, f.AdminToken, map[string]any{"status": "draft"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(http.MethodGet, "/api/projects/portfolio-cms", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = do(http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["data"])

	code, body = do(http.MethodGet, "/api/projects?status=draft", f.AdminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, _ = do(http.MethodGet, "/api/projects/admin/"+id, f.AdminToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(http.MethodDelete, "/api/projects/"+id, f.AdminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(http.MethodDelete, "/api/projects/"+id, f.AdminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
