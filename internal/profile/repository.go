package profile

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/elskow/portfolio-cms/internal/apperror"
)

var ErrProfileNotFound = apperror.NotFound("Profile not found")

type Repository interface {
	Get(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).First(&p, SingletonID).Error; err != nil {
		return nil, apperror.FromDB(err, ErrProfileNotFound.Message, "")
	}
	return &p, nil
}

// Save inserts or overwrites the singleton row.
func (r *repository) Save(ctx context.Context, p *Profile) error {
	p.ID = SingletonID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(p).Error
	if err != nil {
		return apperror.Internal("save profile", err)
	}
	return nil
}
