package dashboard

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/blog"
	"github.com/elskow/portfolio-cms/internal/project"
	"github.com/elskow/portfolio-cms/internal/skill"
)

const (
	recentLimit  = 5
	summaryLimit = 10
	monthsShown  = 12
)

// Repository runs the read-only aggregate queries behind the dashboard.
type Repository interface {
	Overview(ctx context.Context) (*Overview, error)
	RecentActivity(ctx context.Context) (*RecentActivity, error)
	SkillsByCategory(ctx context.Context) ([]CategoryCount, error)
	PostsByCategory(ctx context.Context) ([]CategoryCount, error)
	MonthlyPosts(ctx context.Context, since time.Time) ([]MonthlyPosts, error)
	Summary(ctx context.Context) (*Summary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) count(ctx context.Context, model any, dst *int64, query ...any) error {
	q := r.db.WithContext(ctx).Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	return q.Count(dst).Error
}

func (r *repository) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	counts := []struct {
		model any
		dst   *int64
		query []any
	}{
		{&project.Project{}, &o.ProjectsCount, nil},
		{&skill.Skill{}, &o.SkillsCount, nil},
		{&blog.Post{}, &o.BlogPostsCount, nil},
		{&project.Project{}, &o.PublishedProjects, []any{"status = ?", project.StatusPublished}},
		{&blog.Post{}, &o.PublishedPosts, []any{"status = ?", blog.StatusPublished}},
		{&project.Project{}, &o.FeaturedProjects, []any{"featured = ?", true}},
		{&blog.Post{}, &o.FeaturedPosts, []any{"featured = ?", true}},
	}
	for _, c := range counts {
		if err := r.count(ctx, c.model, c.dst, c.query...); err != nil {
			return nil, apperror.Internal("dashboard counts", err)
		}
	}

	err := r.db.WithContext(ctx).
		Model(&blog.Post{}).
		Select("COALESCE(SUM(views), 0)").
		Where("status = ?", blog.StatusPublished).
		Scan(&o.TotalViews).Error
	if err != nil {
		return nil, apperror.Internal("dashboard total views", err)
	}
	return &o, nil
}

func (r *repository) RecentActivity(ctx context.Context) (*RecentActivity, error) {
	a := RecentActivity{
		Projects: make([]RecentProject, 0, recentLimit),
		Posts:    make([]RecentPost, 0, recentLimit),
	}
	err := r.db.WithContext(ctx).
		Model(&project.Project{}).
		Select("id", "title", "status", "updated_at").
		Order("updated_at DESC, id DESC").
		Limit(recentLimit).
		Scan(&a.Projects).Error
	if err != nil {
		return nil, apperror.Internal("recent projects", err)
	}

	err = r.db.WithContext(ctx).
		Model(&blog.Post{}).
		Select("id", "title", "status", "views", "updated_at").
		Order("updated_at DESC, id DESC").
		Limit(recentLimit).
		Scan(&a.Posts).Error
	if err != nil {
		return nil, apperror.Internal("recent posts", err)
	}
	return &a, nil
}

func (r *repository) SkillsByCategory(ctx context.Context) ([]CategoryCount, error) {
	return r.categoryCounts(ctx, &skill.Skill{}, nil)
}

func (r *repository) PostsByCategory(ctx context.Context) ([]CategoryCount, error) {
	return r.categoryCounts(ctx, &blog.Post{}, []any{"status = ?", blog.StatusPublished})
}

func (r *repository) categoryCounts(ctx context.Context, model any, query []any) ([]CategoryCount, error) {
	q := r.db.WithContext(ctx).Model(model).Select("category, COUNT(*) AS count")
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	counts := make([]CategoryCount, 0)
	if err := q.Group("category").Order("count DESC, category ASC").Scan(&counts).Error; err != nil {
		return nil, apperror.Internal("category counts", err)
	}
	return counts, nil
}

type publishedPost struct {
	PublishedAt time.Time
	Views       int64
}

// MonthlyPosts buckets published posts by month in Go so the query stays
// portable between postgres and sqlite.
func (r *repository) MonthlyPosts(ctx context.Context, since time.Time) ([]MonthlyPosts, error) {
	var rows []publishedPost
	err := r.db.WithContext(ctx).
		Model(&blog.Post{}).
		Select("published_at", "views").
		Where("status = ? AND published_at >= ?", blog.StatusPublished, since).
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.Internal("monthly posts", err)
	}

	type key struct{ year, month int }
	buckets := make(map[key]*MonthlyPosts)
	for _, row := range rows {
		t := row.PublishedAt.UTC()
		k := key{t.Year(), int(t.Month())}
		b, ok := buckets[k]
		if !ok {
			b = &MonthlyPosts{Year: k.year, Month: k.month}
			buckets[k] = b
		}
		b.Count++
		b.Views += row.Views
	}

	out := make([]MonthlyPosts, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	if len(out) > monthsShown {
		out = out[:monthsShown]
	}
	return out, nil
}

func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	s := Summary{
		DraftProjects: make([]Draft, 0),
		DraftPosts:    make([]Draft, 0),
		PopularPosts:  make([]PopularPost, 0),
		NewestSkills:  make([]NewSkill, 0),
	}
	db := r.db.WithContext(ctx)

	queries := []struct {
		name string
		tx   *gorm.DB
		dst  any
	}{
		{
			"draft projects",
			db.Model(&project.Project{}).Select("id", "title", "created_at").
				Where("status = ?", project.StatusDraft).Order("created_at DESC, id DESC"),
			&s.DraftProjects,
		},
		{
			"draft posts",
			db.Model(&blog.Post{}).Select("id", "title", "created_at").
				Where("status = ?", blog.StatusDraft).Order("created_at DESC, id DESC"),
			&s.DraftPosts,
		},
		{
			"popular posts",
			db.Model(&blog.Post{}).Select("id", "title", "slug", "views", "published_at").
				Where("status = ?", blog.StatusPublished).Order("views DESC, id DESC"),
			&s.PopularPosts,
		},
		{
			"newest skills",
			db.Model(&skill.Skill{}).Select("id", "name", "category", "level", "created_at").
				Where("status = ?", skill.StatusActive).Order("created_at DESC, id DESC"),
			&s.NewestSkills,
		},
	}
	for _, q := range queries {
		if err := q.tx.Limit(summaryLimit).Scan(q.dst).Error; err != nil {
			return nil, apperror.Internal(q.name, err)
		}
	}
	return &s, nil
}
