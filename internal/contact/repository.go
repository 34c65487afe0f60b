package contact

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/apperror"
)

var ErrMessageNotFound = apperror.NotFound("Contact message not found")

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"subject":   "subject",
}

type ListFilter struct {
	IsRead   *bool
	Priority Priority
	Page     int
	Limit    int
	Sort     string
}

type Repository interface {
	Create(ctx context.Context, m *Message) error
	Update(ctx context.Context, m *Message) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Message, error)
	List(ctx context.Context, filter ListFilter) ([]Message, int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperror.Internal("create contact message", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, m *Message) error {
	res := r.db.WithContext(ctx).
		Model(m).
		Select("is_read", "is_replied", "priority", "admin_notes", "updated_at").
		Updates(m)
	if res.Error != nil {
		return apperror.Internal("update contact message", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Message{}, id)
	if res.Error != nil {
		return apperror.Internal("delete contact message", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Message, error) {
	var m Message
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, apperror.FromDB(err, ErrMessageNotFound.Message, "")
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&Message{})
	if f.IsRead != nil {
		q = q.Where("is_read = ?", *f.IsRead)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("count contact messages", err)
	}

	messages := make([]Message, 0, f.Limit)
	err := q.Order(orderClause(f.Sort)).
		Order("id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, apperror.Internal("list contact messages", err)
	}
	return messages, total, nil
}

func (r *repository) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Message{}).Where("is_read = ?", false).Count(&n).Error; err != nil {
		return 0, apperror.Internal("count unread messages", err)
	}
	return n, nil
}

func orderClause(key string) string {
	dir := "ASC"
	if strings.HasPrefix(key, "-") {
		dir = "DESC"
		key = key[1:]
	}
	col, ok := sortColumns[key]
	if !ok {
		return "created_at DESC"
	}
	return col + " " + dir
}
