package project

import (
	"context"

	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/apperror"
)

var (
	ErrProjectNotFound = apperror.NotFound("Project not found")
	ErrDuplicateSlug   = apperror.Duplicate("Project with this slug already exists")
)

type ListFilter struct {
	// Status restricts the listing; empty means any status.
	Status   Status
	Featured *bool
}

type Repository interface {
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Project, error)
	FindBySlug(ctx context.Context, slug string, status Status) (*Project, error)
	List(ctx context.Context, filter ListFilter) ([]Project, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Project) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, p *Project) error {
	res := r.db.WithContext(ctx).Model(p).Select("*").Omit("id", "created_at").Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Project{}, id)
	if res.Error != nil {
		return apperror.Internal("delete project", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Project, error) {
	var p Project
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string, status Status) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, status).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Project, error) {
	q := r.db.WithContext(ctx).Model(&Project{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}

	projects := make([]Project, 0)
	if err := q.Order("sort_order ASC, created_at DESC, id DESC").Find(&projects).Error; err != nil {
		return nil, apperror.Internal("list projects", err)
	}
	return projects, nil
}

func translate(err error) error {
	return apperror.FromDB(err, ErrProjectNotFound.Message, ErrDuplicateSlug.Message)
}
