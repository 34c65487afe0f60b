package blog

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/apperror"
)

var (
	ErrPostNotFound  = apperror.NotFound("Blog post not found")
	ErrDuplicateSlug = apperror.Duplicate("Blog post with this slug already exists")
)

// sortColumns maps the public sort keys onto columns.
var sortColumns = map[string]string{
	"publishedAt": "published_at",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"views":       "views",
	"likes":       "likes",
	"title":       "title",
	"readTime":    "read_time",
}

const defaultSort = "-publishedAt"

type ListFilter struct {
	// Statuses restricts the listing; empty means any status.
	Statuses []Status
	// PublishedBefore, when set, hides posts whose publishedAt is later or unset.
	PublishedBefore *time.Time
	Category        string
	Tag             string
	Featured        *bool
	Page            int
	Limit           int
	Sort            string
}

type Repository interface {
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Post, error)
	FindPublicBySlug(ctx context.Context, slug string, now time.Time) (*Post, error)
	// IncrementViews atomically adds one view to the public post with slug.
	IncrementViews(ctx context.Context, slug string, now time.Time) error
	List(ctx context.Context, filter ListFilter) ([]Post, int64, error)
	CategoryStats(ctx context.Context) ([]CategoryCount, error)
	TagCounts(ctx context.Context) ([]TagCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, post *Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update writes every editable column. Counters are left to their own
// statements so concurrent view increments are never overwritten.
func (r *repository) Update(ctx context.Context, post *Post) error {
	res := r.db.WithContext(ctx).
		Model(post).
		Select("*").
		Omit("id", "views", "likes", "created_at").
		Updates(post)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Post{}, id)
	if res.Error != nil {
		return apperror.Internal("delete blog post", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Post, error) {
	var post Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *repository) public(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&Post{}).
		Where("status = ? AND published_at IS NOT NULL AND published_at <= ?", StatusPublished, now)
}

func (r *repository) FindPublicBySlug(ctx context.Context, slug string, now time.Time) (*Post, error) {
	var post Post
	if err := r.public(ctx, now).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *repository) IncrementViews(ctx context.Context, slug string, now time.Time) error {
	res := r.public(ctx, now).
		Where("slug = ?", slug).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return apperror.Internal("increment views", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&Post{})

	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.PublishedBefore != nil {
		q = q.Where("published_at IS NOT NULL AND published_at <= ?", *f.PublishedBefore)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Tag != "" {
		q = q.Where(`tags LIKE ? ESCAPE '\'`, "%"+likeEscape(jsonString(strings.ToLower(f.Tag)))+"%")
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("count blog posts", err)
	}

	posts := make([]Post, 0, f.Limit)
	err := q.Omit("content").
		Order(orderClause(f.Sort)).
		Order("id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, apperror.Internal("list blog posts", err)
	}
	return posts, total, nil
}

func (r *repository) CategoryStats(ctx context.Context) ([]CategoryCount, error) {
	stats := make([]CategoryCount, 0)
	err := r.db.WithContext(ctx).
		Model(&Post{}).
		Select("category, COUNT(*) AS count").
		Where("status = ?", StatusPublished).
		Group("category").
		Order("count DESC, category ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, apperror.Internal("blog category stats", err)
	}
	return stats, nil
}

// TagCounts aggregates in Go because tags are stored as a JSON document and
// the two supported dialects unnest JSON differently.
func (r *repository) TagCounts(ctx context.Context) ([]TagCount, error) {
	var posts []Post
	err := r.db.WithContext(ctx).
		Select("id", "tags").
		Where("status = ?", StatusPublished).
		Find(&posts).Error
	if err != nil {
		return nil, apperror.Internal("blog tag counts", err)
	}

	counts := make(map[string]int64)
	for _, p := range posts {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func orderClause(key string) string {
	if key == "" {
		key = defaultSort
	}
	dir := "ASC"
	if strings.HasPrefix(key, "-") {
		dir = "DESC"
		key = key[1:]
	}
	col, ok := sortColumns[key]
	if !ok {
		return orderClause(defaultSort)
	}
	return col + " " + dir
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func translate(err error) error {
	return apperror.FromDB(err, ErrPostNotFound.Message, ErrDuplicateSlug.Message)
}
