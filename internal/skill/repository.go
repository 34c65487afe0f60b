package skill

import (
	"context"

	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/apperror"
)

var (
	ErrSkillNotFound = apperror.NotFound("Skill not found")
	ErrDuplicateName = apperror.Duplicate("Skill with this name already exists")
)

type ListFilter struct {
	Category Category
	Featured *bool
	// Status selects one status; empty means every status except archived.
	Status Status
}

type Repository interface {
	Create(ctx context.Context, s *Skill) error
	Update(ctx context.Context, s *Skill) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Skill, error)
	List(ctx context.Context, filter ListFilter) ([]Skill, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Skill) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, s *Skill) error {
	res := r.db.WithContext(ctx).Model(s).Select("*").Omit("id", "created_at").Updates(s)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Skill{}, id)
	if res.Error != nil {
		return apperror.Internal("delete skill", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Skill, error) {
	var s Skill
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Skill, error) {
	q := r.db.WithContext(ctx).Model(&Skill{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("status <> ?", StatusArchived)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}

	skills := make([]Skill, 0)
	if err := q.Order("sort_order ASC, proficiency DESC, name ASC").Find(&skills).Error; err != nil {
		return nil, apperror.Internal("list skills", err)
	}
	return skills, nil
}

func (r *repository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	counts := make([]CategoryCount, 0)
	err := r.db.WithContext(ctx).
		Model(&Skill{}).
		Select("category, COUNT(*) AS count").
		Where("status <> ?", StatusArchived).
		Group("category").
		Order("count DESC, category ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, apperror.Internal("skill category counts", err)
	}
	return counts, nil
}

func translate(err error) error {
	return apperror.FromDB(err, ErrSkillNotFound.Message, ErrDuplicateName.Message)
}
