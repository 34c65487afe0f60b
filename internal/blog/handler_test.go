package blog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/auth/authtest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field string `json:"field"`
	} `json:"errors"`
	Meta *struct {
		Total int64 `json:"total"`
		Count int   `json:"count"`
	} `json:"meta"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *authtest.Fixture, *testClock) {
	t.Helper()
	svc, db, clock := newTestService(t)
	fixture := authtest.New(t, db)

	r := gin.New()
	NewHandler(svc, fixture.Middleware, zap.NewNop()).RegisterRoutes(r.Group(api.Prefix))
	return r, fixture, clock
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()

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

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestHandler_CreatePublishedStampsPublishedAt(t *testing.T) {
	r, f, clock := newTestRouter(t)

	body := map[string]any{
		"title":    "Hello, World! 2024",
		"excerpt":  "Short",
		"content":  words(400),
		"category": "Tutorial",
		"status":   "published",
	}

	code, env := call(t, r, http.MethodPost, "/api/blog", f.AdminToken, body)
	require.Equal(t, http.StatusCreated, code)

	var post Post
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, "hello-world-2024", post.Slug)
	assert.Equal(t, 2, post.ReadTime)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, clock.Now().Equal(*post.PublishedAt))
	assert.Equal(t, "Admin", post.Author.Name)

	code, env = call(t, r, http.MethodPost, "/api/blog", f.AdminToken, body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "DUPLICATE", env.Code)
}

func TestHandler_AdminRoutesAreGuarded(t *testing.T) {
	r, f, _ := newTestRouter(t)
	body := map[string]any{"title": "x"}

	code, _ := call(t, r, http.MethodPost, "/api/blog", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, r, http.MethodPost, "/api/blog", f.UserToken, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, r, http.MethodDelete, "/api/blog/1", f.UserToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestHandler_ValidationErrors(t *testing.T) {
	r, f, _ := newTestRouter(t)

	code, env := call(t, r, http.MethodPost, "/api/blog", f.AdminToken, map[string]any{
		"title":    "",
		"category": "Gardening",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	fields := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"category", "content", "excerpt", "title"}, fields)
}

func TestHandler_ReadIncrementsViews(t *testing.T) {
	r, f, clock := newTestRouter(t)

	code, _ := call(t, r, http.MethodPost, "/api/blog", f.AdminToken, map[string]any{
		"title": "Viewed", "excerpt": "e", "content": "body", "category": "Review", "status": "published",
	})
	require.Equal(t, http.StatusCreated, code)
	clock.Advance(time.Second)

	for want := int64(1); want <= 3; want++ {
		code, env := call(t, r, http.MethodGet, "/api/blog/viewed", "", nil)
		require.Equal(t, http.StatusOK, code)
		var post Post
		require.NoError(t, json.Unmarshal(env.Data, &post))
		assert.Equal(t, want, post.Views)
		assert.NotEmpty(t, post.ContentHTML)
	}

	code, env := call(t, r, http.MethodGet, "/api/blog/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestHandler_ListStatusOnlyForAdmins(t *testing.T) {
	r, f, _ := newTestRouter(t)

	for _, p := range []map[string]any{
		{"title": "Public", "excerpt": "e", "content": "c", "category": "CSS", "status": "published"},
		{"title": "Private", "excerpt": "e", "content": "c", "category": "CSS"},
	} {
		code, _ := call(t, r, http.MethodPost, "/api/blog", f.AdminToken, p)
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := call(t, r, http.MethodGet, "/api/blog?status=draft", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.Contains(t, string(env.Data), "Public")

	code, env = call(t, r, http.MethodGet, "/api/blog?status=draft", f.AdminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.Contains(t, string(env.Data), "Private")

	code, env = call(t, r, http.MethodGet, "/api/blog?status=all", f.AdminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.Count)
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	r, f, _ := newTestRouter(t)

	code, env := call(t, r, http.MethodPost, "/api/blog", f.AdminToken, map[string]any{
		"title": "Editable", "excerpt": "e", "content": "c", "category": "CSS",
	})
	require.Equal(t, http.StatusCreated, code)
	var created Post
	require.NoError(t, json.Unmarshal(env.Data, &created))

	path := "/api/blog/" + jsonID(created.ID)
	code, env = call(t, r, http.MethodPut, path, f.AdminToken, map[string]any{"featured": true})
	require.Equal(t, http.StatusOK, code)
	var updated Post
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.Featured)
	assert.Equal(t, "editable", updated.Slug)

	code, _ = call(t, r, http.MethodGet, "/api/blog/admin/"+jsonID(created.ID), f.AdminToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, http.MethodDelete, path, f.AdminToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, http.MethodDelete, path, f.AdminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, r, http.MethodPut, "/api/blog/abc", f.AdminToken, map[string]any{})
	assert.Equal(t, http.StatusNotFound, code)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
