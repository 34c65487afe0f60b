package project

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
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repository: repo, log: log}
}

// Input carries the editable fields of a project. Nil fields are left
// untouched on update. Dates accept YYYY-MM-DD or RFC 3339; an empty
// string clears the date.
type Input struct {
	Title            *string   `json:"title"`
	Slug             *string   `json:"slug"`
	ShortDescription *string   `json:"shortDescription"`
	FullDescription  *string   `json:"fullDescription"`
	Technologies     *[]string `json:"technologies"`
	ProjectURL       *string   `json:"projectUrl"`
	GithubURL        *string   `json:"githubUrl"`
	DemoURL          *string   `json:"demoUrl"`
	FeaturedImage    *string   `json:"featuredImage"`
	ProjectImages    *[]string `json:"projectImages"`
	Status           *Status   `json:"status"`
	Featured         *bool     `json:"featured"`
	StartDate        *string   `json:"startDate"`
	EndDate          *string   `json:"endDate"`
	SortOrder        *int      `json:"sortOrder"`
}

func (in Input) apply(p *Project) error {
	setString(&p.Title, in.Title)
	setString(&p.ShortDescription, in.ShortDescription)
	setString(&p.FullDescription, in.FullDescription)
	setString(&p.ProjectURL, in.ProjectURL)
	setString(&p.GithubURL, in.GithubURL)
	setString(&p.DemoURL, in.DemoURL)
	setString(&p.FeaturedImage, in.FeaturedImage)

	if in.Technologies != nil {
		p.Technologies = rules.TrimAll(*in.Technologies)
	}
	if in.ProjectImages != nil {
		p.ProjectImages = rules.TrimAll(*in.ProjectImages)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.SortOrder != nil {
		p.SortOrder = *in.SortOrder
	}

	var err error
	if in.StartDate != nil {
		if p.StartDate, err = parseDate(*in.StartDate); err != nil {
			return apperror.FieldInvalid("startDate", "must be a date (YYYY-MM-DD)")
		}
	}
	if in.EndDate != nil {
		if p.EndDate, err = parseDate(*in.EndDate); err != nil {
			return apperror.FieldInvalid("endDate", "must be a date (YYYY-MM-DD)")
		}
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &time.ParseError{Layout: time.DateOnly, Value: s}
}

func normalize(p *Project) {
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	if p.ProjectImages == nil {
		p.ProjectImages = []string{}
	}
}

func (s *Service) Create(ctx context.Context, in Input) (*Project, error) {
	p := &Project{Status: StatusDraft}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		p.Slug = content.Slugify(*in.Slug)
	}
	normalize(p)

	if err := apperror.Validation(p.Validate()); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		p.Slug = content.Slugify(p.Title)
		if p.Slug == "" {
			return nil, apperror.FieldInvalid("slug", "title must contain at least one letter or digit")
		}
	}

	if err := s.repository.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("project created", zap.Uint("project_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

// Update applies in to the stored project. The slug is fixed at creation.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*Project, error) {
	p, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	normalize(p)

	if err := apperror.Validation(p.Validate()); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("project updated", zap.Uint("project_id", p.ID))
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("project deleted", zap.Uint("project_id", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Project, error) {
	return s.repository.FindByID(ctx, id)
}

// GetPublished returns the project only when it is published.
func (s *Service) GetPublished(ctx context.Context, slug string) (*Project, error) {
	return s.repository.FindBySlug(ctx, slug, StatusPublished)
}

// List pins anonymous callers to published projects; admins may pass any
// status, or "all".
func (s *Service) List(ctx context.Context, status string, featured *bool, admin bool) ([]Project, error) {
	filter := ListFilter{Status: StatusPublished, Featured: featured}
	if admin {
		switch status {
		case "", "all":
			filter.Status = ""
		default:
			if !Status(status).Valid() {
				return nil, apperror.FieldInvalid("status", "must be one of draft, published, archived")
			}
			filter.Status = Status(status)
		}
	}
	return s.repository.List(ctx, filter)
}
