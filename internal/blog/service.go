package blog

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/content"
	"github.com/elskow/portfolio-cms/internal/rules"
)

type Service struct {
	repository Repository
	log        *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{
		repository: repo,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PostInput carries the editable fields of a post. Nil fields are left
// untouched on update.
type PostInput struct {
	Title         *string   `json:"title"`
	Slug          *string   `json:"slug"`
	Excerpt       *string   `json:"excerpt"`
	Content       *string   `json:"content"`
	Author        *Author   `json:"author"`
	FeaturedImage *string   `json:"featuredImage"`
	Category      *string   `json:"category"`
	Tags          *[]string `json:"tags"`
	Status        *Status   `json:"status"`
	Featured      *bool     `json:"featured"`
	SEO           *SEO      `json:"seo"`
}

// apply copies in onto p and reports whether the body text changed.
func (in PostInput) apply(p *Post) (contentChanged bool) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Excerpt != nil {
		p.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Content != nil && *in.Content != p.Content {
		p.Content = *in.Content
		contentChanged = true
	}
	if in.Author != nil {
		p.Author = Author{
			Name:   strings.TrimSpace(in.Author.Name),
			Email:  strings.ToLower(strings.TrimSpace(in.Author.Email)),
			Avatar: strings.TrimSpace(in.Author.Avatar),
		}
	}
	if in.FeaturedImage != nil {
		p.FeaturedImage = strings.TrimSpace(*in.FeaturedImage)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Tags != nil {
		p.Tags = rules.NormalizeTags(*in.Tags)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.SEO != nil {
		p.SEO = SEO{
			MetaTitle:       strings.TrimSpace(in.SEO.MetaTitle),
			MetaDescription: strings.TrimSpace(in.SEO.MetaDescription),
			Keywords:        rules.TrimAll(in.SEO.Keywords),
		}
	}
	return contentChanged
}

// prepare validates p and then derives slug, publishedAt and readTime.
// Nothing is derived when validation fails.
func prepare(p *Post, contentChanged bool, now time.Time) error {
	if p.Author.Name == "" {
		p.Author.Name = DefaultAuthorName
	}

	if err := apperror.Validation(p.Validate()); err != nil {
		return err
	}

	if p.Slug == "" {
		p.Slug = content.Slugify(p.Title)
		if p.Slug == "" {
			return apperror.FieldInvalid("slug", "title must contain at least one letter or digit")
		}
	}

	if p.Status == StatusPublished && p.PublishedAt == nil {
		stamped := now
		p.PublishedAt = &stamped
	}

	if contentChanged || p.ReadTime < 1 {
		p.ReadTime = content.ReadingTime(p.Content)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in PostInput) (*Post, error) {
	post := &Post{Status: StatusDraft}
	in.apply(post)
	if in.Slug != nil {
		post.Slug = content.Slugify(*in.Slug)
	}

	if err := prepare(post, true, s.now()); err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info("blog post created",
		zap.Uint("post_id", post.ID),
		zap.String("slug", post.Slug),
		zap.String("status", string(post.Status)))
	return post, nil
}

// Update applies in to the stored post. The slug is never changed once set.
func (s *Service) Update(ctx context.Context, id uint, in PostInput) (*Post, error) {
	post, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Slug = nil
	changed := in.apply(post)

	if err := prepare(post, changed, s.now()); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info("blog post updated",
		zap.Uint("post_id", post.ID),
		zap.String("status", string(post.Status)))
	return post, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("blog post deleted", zap.Uint("post_id", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Post, error) {
	return s.repository.FindByID(ctx, id)
}

// Read is the public single-post fetch. Every call counts one view and the
// returned post carries the incremented counter and rendered HTML.
func (s *Service) Read(ctx context.Context, slug string) (*Post, error) {
	now := s.now()
	if err := s.repository.IncrementViews(ctx, slug, now); err != nil {
		return nil, err
	}

	post, err := s.repository.FindPublicBySlug(ctx, slug, now)
	if err != nil {
		return nil, err
	}

	html, err := content.RenderMarkdown(post.Content)
	if err != nil {
		s.log.Warn("markdown render failed", zap.String("slug", slug), zap.Error(err))
	} else {
		post.ContentHTML = html
	}
	return post, nil
}

type ListQuery struct {
	Status   string
	Category string
	Tag      string
	Featured *bool
	Page     int
	Limit    int
	Sort     string
	// Admin lifts the published-only restriction and honours Status.
	Admin bool
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Post, int64, error) {
	filter := ListFilter{
		Category: q.Category,
		Tag:      q.Tag,
		Featured: q.Featured,
		Page:     q.Page,
		Limit:    q.Limit,
		Sort:     q.Sort,
	}

	if q.Admin {
		if q.Status != "" && q.Status != "all" {
			status := Status(q.Status)
			if !status.Valid() {
				return nil, 0, apperror.FieldInvalid("status", "must be one of draft, published, archived")
			}
			filter.Statuses = []Status{status}
		}
	} else {
		now := s.now()
		filter.Statuses = []Status{StatusPublished}
		filter.PublishedBefore = &now
	}

	return s.repository.List(ctx, filter)
}

func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	return s.repository.CategoryStats(ctx)
}

func (s *Service) Tags(ctx context.Context) ([]TagCount, error) {
	return s.repository.TagCounts(ctx)
}
