package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/cache"
	"github.com/elskow/portfolio-cms/internal/rules"
	"github.com/elskow/portfolio-cms/internal/upload"
)

const publicCacheKey = "profile:public"

var (
	imageRule = upload.Rule{
		Field:      "profileImage",
		Dir:        "profile",
		MaxSize:    5 * upload.MB,
		MIMEPrefix: "image/",
	}
	resumeRule = upload.Rule{
		Field:      "resume",
		Dir:        "resume",
		MaxSize:    10 * upload.MB,
		MIMEPrefix: "application/",
	}
)

type Service struct {
	repository Repository
	store      *upload.Store
	cache      cache.Cache
	log        *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, store *upload.Store, c cache.Cache, log *zap.Logger) *Service {
	return &Service{
		repository: repo,
		store:      store,
		cache:      c,
		log:        log,
		now:        time.Now,
	}
}

// Public returns the profile as shown to visitors. A profile that is missing
// or not public is reported as not found.
func (s *Service) Public(ctx context.Context) (*Profile, error) {
	var cached Profile
	if hit, err := s.cache.Get(ctx, publicCacheKey, &cached); err != nil {
		s.log.Warn("profile cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	p, err := s.repository.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsPublic {
		return nil, ErrProfileNotFound
	}

	public := p.Public()
	if err := s.cache.Set(ctx, publicCacheKey, public); err != nil {
		s.log.Warn("profile cache write failed", zap.Error(err))
	}
	return &public, nil
}

// Admin returns the stored profile, creating the placeholder when none exists.
func (s *Service) Admin(ctx context.Context) (*Profile, error) {
	p, err := s.repository.Get(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	p = Placeholder()
	if err := s.repository.Save(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("placeholder profile created")
	return p, nil
}

// Input carries editable profile fields; nil fields are left untouched.
type Input struct {
	FirstName           *string      `json:"firstName"`
	LastName            *string      `json:"lastName"`
	Title               *string      `json:"title"`
	Tagline             *string      `json:"tagline"`
	AboutMe             *string      `json:"aboutMe"`
	ShortBio            *string      `json:"shortBio"`
	Email               *string      `json:"email"`
	Phone               *string      `json:"phone"`
	Location            *Location    `json:"location"`
	SocialLinks         *SocialLinks `json:"socialLinks"`
	YearsOfExperience   *float64     `json:"yearsOfExperience"`
	TopSkills           *[]string    `json:"topSkills"`
	IsAvailable         *bool        `json:"isAvailable"`
	AvailabilityMessage *string      `json:"availabilityMessage"`
	MetaDescription     *string      `json:"metaDescription"`
	IsPublic            *bool        `json:"isPublic"`
	ShowContactInfo     *bool        `json:"showContactInfo"`
}

func (in Input) apply(p *Profile) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&p.FirstName, in.FirstName)
	setString(&p.LastName, in.LastName)
	setString(&p.Title, in.Title)
	setString(&p.Tagline, in.Tagline)
	setString(&p.ShortBio, in.ShortBio)
	setString(&p.Phone, in.Phone)
	setString(&p.AvailabilityMessage, in.AvailabilityMessage)
	setString(&p.MetaDescription, in.MetaDescription)
	if in.AboutMe != nil {
		p.AboutMe = *in.AboutMe
	}
	if in.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Location != nil {
		p.Location = Location{
			City:    strings.TrimSpace(in.Location.City),
			State:   strings.TrimSpace(in.Location.State),
			Country: strings.TrimSpace(in.Location.Country),
		}
	}
	if in.SocialLinks != nil {
		p.SocialLinks = SocialLinks{
			GitHub:    strings.TrimSpace(in.SocialLinks.GitHub),
			LinkedIn:  strings.TrimSpace(in.SocialLinks.LinkedIn),
			Twitter:   strings.TrimSpace(in.SocialLinks.Twitter),
			Instagram: strings.TrimSpace(in.SocialLinks.Instagram),
			Website:   strings.TrimSpace(in.SocialLinks.Website),
		}
	}
	if in.YearsOfExperience != nil {
		p.YearsOfExperience = *in.YearsOfExperience
	}
	if in.TopSkills != nil {
		p.TopSkills = rules.TrimAll(*in.TopSkills)
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	if in.ShowContactInfo != nil {
		p.ShowContactInfo = *in.ShowContactInfo
	}
}

// Update applies in to the stored profile, creating it when missing.
func (s *Service) Update(ctx context.Context, in Input) (*Profile, error) {
	p, err := s.repository.Get(ctx)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		p = &Profile{IsAvailable: true, IsPublic: true, ShowContactInfo: true}
	case err != nil:
		return nil, err
	}
	in.apply(p)

	if err := apperror.Validation(p.Validate()); err != nil {
		return nil, err
	}
	if err := s.repository.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("profile updated")
	return p, nil
}

// UploadImage stores a new profile picture and removes the previous one.
func (s *Service) UploadImage(ctx context.Context, r io.Reader) (*Profile, error) {
	rule := imageRule
	rule.Name = func(ext string) string {
		return fmt.Sprintf("profile-%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	}
	return s.replaceFile(ctx, r, rule, func(p *Profile) *string { return &p.ProfileImage })
}

// UploadResume stores a new resume and removes the previous one.
func (s *Service) UploadResume(ctx context.Context, r io.Reader) (*Profile, error) {
	rule := resumeRule
	rule.Name = func(ext string) string {
		return fmt.Sprintf("resume-%d%s", s.now().UnixMilli(), ext)
	}
	return s.replaceFile(ctx, r, rule, func(p *Profile) *string { return &p.ResumeURL })
}

func (s *Service) replaceFile(ctx context.Context, r io.Reader, rule upload.Rule, field func(*Profile) *string) (*Profile, error) {
	p, err := s.repository.Get(ctx)
	if err != nil {
		return nil, err
	}

	file, err := s.store.Save(r, rule)
	if err != nil {
		return nil, err
	}

	target := field(p)
	previous := *target
	*target = file.URL
	if err := s.repository.Save(ctx, p); err != nil {
		if derr := s.store.DeleteByURL(file.URL); derr != nil {
			s.log.Warn("cleanup of orphaned upload failed", zap.Error(derr))
		}
		return nil, err
	}

	if previous != "" && previous != file.URL {
		if err := s.store.DeleteByURL(previous); err != nil {
			s.log.Warn("previous upload not removed", zap.String("url", previous), zap.Error(err))
		}
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, publicCacheKey); err != nil {
		s.log.Warn("profile cache invalidation failed", zap.Error(err))
	}
}
