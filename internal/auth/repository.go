package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/apperror"
)

var (
	ErrAccountNotFound = apperror.NotFound("Account not found")
	ErrAccountExists   = apperror.Duplicate("User with this email or username already exists")
)

type Repository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id uint) (*Account, error)
	// FindByIdentifier matches identifier against username or email.
	FindByIdentifier(ctx context.Context, identifier string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Count(ctx context.Context) (int64, error)
	// RecordFailure counts one failed login atomically and reports whether it
	// locked the account.
	RecordFailure(ctx context.Context, id uint, f Failure) (bool, error)
	// RecordSuccess clears the failure counter and lock in one update.
	RecordSuccess(ctx context.Context, id uint, at time.Time) error
	UpdateProfile(ctx context.Context, id uint, firstName, lastName, email, avatar string) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// Failure describes one rejected password. The counter restarts when the
// previous failure is older than WindowStart. Reaching Threshold sets the lock
// to LockUntil and clears the counter.
type Failure struct {
	At          time.Time
	WindowStart time.Time
	Threshold   int
	LockUntil   time.Time
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, account *Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return ErrAccountExists
		}
		return apperror.Internal("create account", err)
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Account, error) {
	var account Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, apperror.FromDB(err, ErrAccountNotFound.Message, "")
	}
	return &account, nil
}

func (r *repository) FindByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&account).Error
	if err != nil {
		return nil, apperror.FromDB(err, ErrAccountNotFound.Message, "")
	}
	return &account, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, apperror.FromDB(err, ErrAccountNotFound.Message, "")
	}
	return &account, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Account{}).Count(&n).Error; err != nil {
		return 0, apperror.Internal("count accounts", err)
	}
	return n, nil
}

func (r *repository) RecordFailure(ctx context.Context, id uint, f Failure) (bool, error) {
	var locked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Account{}).Where("id = ?", id).Updates(map[string]any{
			"failed_attempts": gorm.Expr(
				"CASE WHEN last_failed_at IS NULL OR last_failed_at < ? THEN 1 ELSE failed_attempts + 1 END",
				failureTime(f.WindowStart)),
			"last_failed_at": failureTime(f.At),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAccountNotFound
		}

		res = tx.Model(&Account{}).
			Where("id = ? AND failed_attempts >= ?", id, f.Threshold).
			Updates(map[string]any{
				"failed_attempts": 0,
				"lock_until":      f.LockUntil,
			})
		if res.Error != nil {
			return res.Error
		}
		locked = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return false, err
		}
		return false, apperror.Internal("record login failure", err)
	}
	return locked, nil
}

// failureTime normalizes last_failed_at values to whole UTC seconds so that
// sqlite, which stores times as RFC 3339 text, compares them in order.
func failureTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func (r *repository) RecordSuccess(ctx context.Context, id uint, at time.Time) error {
	return r.update(ctx, id, map[string]any{
		"failed_attempts": 0,
		"last_failed_at":  nil,
		"lock_until":      nil,
		"last_login_at":   at,
	})
}

func (r *repository) UpdateProfile(ctx context.Context, id uint, firstName, lastName, email, avatar string) error {
	return r.update(ctx, id, map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"avatar":     avatar,
	})
}

func (r *repository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.update(ctx, id, map[string]any{"password_hash": hash})
}

func (r *repository) update(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if apperror.IsUniqueViolation(res.Error) {
			return ErrAccountExists
		}
		return apperror.Internal("update account", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
