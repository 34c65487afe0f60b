package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/auth"
	"github.com/elskow/portfolio-cms/internal/auth/authtest"
	"github.com/elskow/portfolio-cms/internal/blog"
	"github.com/elskow/portfolio-cms/internal/cache/cachetest"
	"github.com/elskow/portfolio-cms/internal/database/dbtest"
	"github.com/elskow/portfolio-cms/internal/project"
	"github.com/elskow/portfolio-cms/internal/skill"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.New(t, &blog.Post{}, &project.Project{}, &skill.Skill{}, &auth.Account{})
}

func newTestService(db *gorm.DB, c *cachetest.Memory) *Service {
	svc := NewService(NewRepository(db), c, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedPost(t *testing.T, db *gorm.DB, title, category string, status blog.Status, published *time.Time, views int64, featured bool) {
	t.Helper()
	p := &blog.Post{
		Title:       title,
		Slug:        fmt.Sprintf("post-%s", title),
		Excerpt:     "excerpt",
		Content:     "content",
		Author:      blog.Author{Name: blog.DefaultAuthorName},
		Category:    category,
		Status:      status,
		PublishedAt: published,
		ReadTime:    1,
		Views:       views,
		Featured:    featured,
	}
	require.NoError(t, db.Create(p).Error)
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	at := func(y int, m time.Month) *time.Time {
		v := time.Date(y, m, 10, 9, 0, 0, 0, time.UTC)
		return &v
	}

	seedPost(t, db, "a", "Tutorial", blog.StatusPublished, at(2024, 6), 10, true)
	seedPost(t, db, "b", "Tutorial", blog.StatusPublished, at(2024, 6), 5, false)
	seedPost(t, db, "c", "Career", blog.StatusPublished, at(2024, 1), 7, false)
	seedPost(t, db, "d", "Career", blog.StatusPublished, at(2022, 1), 100, false)
	seedPost(t, db, "e", "Opinion", blog.StatusDraft, nil, 0, true)

	for i, p := range []project.Project{
		{Title: "One", Slug: "one", Status: project.StatusPublished, Featured: true},
		{Title: "Two", Slug: "two", Status: project.StatusDraft},
		{Title: "Three", Slug: "three", Status: project.StatusArchived},
	} {
		p.ShortDescription = fmt.Sprintf("project %d", i)
		require.NoError(t, db.Create(&p).Error)
	}

	for _, s := range []skill.Skill{
		{Name: "Go", Category: skill.CategoryBackend, Level: skill.LevelExpert, Proficiency: 90, Status: skill.StatusActive},
		{Name: "SQL", Category: skill.CategoryDatabase, Level: skill.LevelAdvanced, Proficiency: 80, Status: skill.StatusActive},
		{Name: "Rust", Category: skill.CategoryBackend, Level: skill.LevelBeginner, Proficiency: 20, Status: skill.StatusLearning},
	} {
		require.NoError(t, db.Create(&s).Error)
	}
}

func TestService_Stats(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	c := cachetest.New()
	svc := newTestService(db, c)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Overview{
		ProjectsCount:     3,
		SkillsCount:       3,
		BlogPostsCount:    5,
		PublishedProjects: 1,
		PublishedPosts:    4,
		FeaturedProjects:  1,
		FeaturedPosts:     2,
		TotalViews:        122,
	}, stats.Overview)

	assert.Len(t, stats.RecentActivity.Projects, 3)
	assert.Len(t, stats.RecentActivity.Posts, 5)

	assert.Equal(t, []CategoryCount{
		{Category: "Backend", Count: 2},
		{Category: "Database", Count: 1},
	}, stats.Breakdown.SkillsByCategory)
	assert.Equal(t, []CategoryCount{
		{Category: "Career", Count: 2},
		{Category: "Tutorial", Count: 2},
	}, stats.Breakdown.PostsByCategory)

	assert.Equal(t, []MonthlyPosts{
		{Year: 2024, Month: 6, Count: 2, Views: 15},
		{Year: 2024, Month: 1, Count: 1, Views: 7},
	}, stats.Breakdown.MonthlyPosts)

	assert.True(t, c.Has(statsCacheKey))
	seedPost(t, db, "f", "Review", blog.StatusPublished, &testNow, 1, false)
	cached, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, cached.Overview.BlogPostsCount, "served from cache")
	assert.Equal(t, 1, c.Hits())
}

func TestService_Summary(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)
	svc := newTestService(db, cachetest.New())

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, s.DraftProjects, 1)
	assert.Equal(t, "Two", s.DraftProjects[0].Title)
	require.Len(t, s.DraftPosts, 1)
	assert.Equal(t, "e", s.DraftPosts[0].Title)

	require.Len(t, s.PopularPosts, 4)
	assert.Equal(t, []int64{100, 10, 7, 5}, []int64{
		s.PopularPosts[0].Views, s.PopularPosts[1].Views, s.PopularPosts[2].Views, s.PopularPosts[3].Views,
	})
	assert.Equal(t, "post-d", s.PopularPosts[0].Slug)

	require.Len(t, s.NewestSkills, 2)
	for _, sk := range s.NewestSkills {
		assert.NotEqual(t, "Rust", sk.Name)
	}
}

func TestService_EmptyDatabase(t *testing.T) {
	svc := newTestService(newTestDB(t), cachetest.New())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Overview.TotalViews)
	assert.Empty(t, stats.Breakdown.MonthlyPosts)
	assert.NotNil(t, stats.RecentActivity.Posts)

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s.PopularPosts)
}

func TestHandler(t *testing.T) {
	db := newTestDB(t)
	f := authtest.New(t, db)

	r := gin.New()
	NewHandler(newTestService(db, cachetest.New()), f.Middleware, zap.NewNop()).RegisterRoutes(r.Group(api.Prefix))

	get := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", authtest.Bearer(token))
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for _, path := range []string{"/api/dashboard/stats", "/api/dashboard/content-summary"} {
		assert.Equal(t, http.StatusUnauthorized, get(path, ""), path)
		assert.Equal(t, http.StatusForbidden, get(path, f.UserToken), path)
		assert.Equal(t, http.StatusOK, get(path, f.AdminToken), path)
	}
}
