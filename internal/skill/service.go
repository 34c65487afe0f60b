package skill

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/rules"
)

type Service struct {
	repository Repository
	log        *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repository: repo, log: log}
}

// Input carries the editable fields of a skill; nil fields are left untouched.
type Input struct {
	Name              *string   `json:"name"`
	Category          *Category `json:"category"`
	Level             *Level    `json:"level"`
	Proficiency       *int      `json:"proficiency"`
	Icon              *string   `json:"icon"`
	Color             *string   `json:"color"`
	Description       *string   `json:"description"`
	YearsOfExperience *float64  `json:"yearsOfExperience"`
	Featured          *bool     `json:"featured"`
	SortOrder         *int      `json:"sortOrder"`
	Status            *Status   `json:"status"`
}

func (in Input) apply(s *Skill) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.Level != nil {
		s.Level = *in.Level
	}
	if in.Proficiency != nil {
		s.Proficiency = *in.Proficiency
	}
	if in.Icon != nil {
		s.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Color != nil {
		s.Color = strings.TrimSpace(*in.Color)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.YearsOfExperience != nil {
		s.YearsOfExperience = *in.YearsOfExperience
	}
	if in.Featured != nil {
		s.Featured = *in.Featured
	}
	if in.SortOrder != nil {
		s.SortOrder = *in.SortOrder
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
}

func (s *Service) Create(ctx context.Context, in Input) (*Skill, error) {
	sk := &Skill{
		Proficiency: DefaultProficiency,
		Color:       DefaultColor,
		Status:      StatusActive,
	}
	in.apply(sk)

	if err := apperror.Validation(sk.Validate()); err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, sk); err != nil {
		return nil, err
	}
	s.log.Info("skill created", zap.Uint("skill_id", sk.ID), zap.String("name", sk.Name))
	return sk, nil
}

func (s *Service) Update(ctx context.Context, id uint, in Input) (*Skill, error) {
	sk, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(sk)

	if err := apperror.Validation(sk.Validate()); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, sk); err != nil {
		return nil, err
	}
	s.log.Info("skill updated", zap.Uint("skill_id", sk.ID))
	return sk, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("skill deleted", zap.Uint("skill_id", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Skill, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, category, status string, featured *bool) ([]Skill, error) {
	filter := ListFilter{Category: Category(category), Status: Status(status), Featured: featured}

	err := validation.Errors{
		"category": validation.Validate(filter.Category, validation.In(rules.Strings(Categories...)...)),
		"status":   validation.Validate(filter.Status, validation.In(rules.Strings(Statuses...)...)),
	}.Filter()
	if err := apperror.Validation(err); err != nil {
		return nil, err
	}
	return s.repository.List(ctx, filter)
}

func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	return s.repository.CategoryCounts(ctx)
}
