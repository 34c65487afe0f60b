package auth

import (
	"context"
	"sync"
	"time"
)

type mockRepository struct {
	mu       sync.Mutex
	accounts map[uint]*Account
	nextID   uint
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts: make(map[uint]*Account),
		nextID:   1,
	}
}

func (m *mockRepository) Create(_ context.Context, account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Username == account.Username || a.Email == account.Email {
			return ErrAccountExists
		}
	}
	account.ID = m.nextID
	m.nextID++
	stored := *account
	m.accounts[account.ID] = &stored
	return nil
}

func (m *mockRepository) get(match func(*Account) bool) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if match(a) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockRepository) FindByID(_ context.Context, id uint) (*Account, error) {
	return m.get(func(a *Account) bool { return a.ID == id })
}

func (m *mockRepository) FindByIdentifier(_ context.Context, identifier string) (*Account, error) {
	return m.get(func(a *Account) bool { return a.Username == identifier || a.Email == identifier })
}

func (m *mockRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	return m.get(func(a *Account) bool { return a.Email == email })
}

func (m *mockRepository) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.accounts)), nil
}

func (m *mockRepository) mutate(id uint, fn func(*Account)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	fn(a)
	return nil
}

func (m *mockRepository) RecordFailure(_ context.Context, id uint, f Failure) (bool, error) {
	var locked bool
	err := m.mutate(id, func(a *Account) {
		if a.LastFailedAt == nil || a.LastFailedAt.Before(f.WindowStart) {
			a.FailedAttempts = 1
		} else {
			a.FailedAttempts++
		}
		at := f.At
		a.LastFailedAt = &at
		if a.FailedAttempts >= f.Threshold {
			until := f.LockUntil
			a.LockUntil = &until
			a.FailedAttempts = 0
			locked = true
		}
	})
	return locked, err
}

func (m *mockRepository) RecordSuccess(_ context.Context, id uint, at time.Time) error {
	return m.mutate(id, func(a *Account) {
		a.FailedAttempts = 0
		a.LastFailedAt = nil
		a.LockUntil = nil
		a.LastLoginAt = &at
	})
}

func (m *mockRepository) UpdateProfile(_ context.Context, id uint, firstName, lastName, email, avatar string) error {
	return m.mutate(id, func(a *Account) {
		a.FirstName = firstName
		a.LastName = lastName
		a.Email = email
		a.Avatar = avatar
	})
}

func (m *mockRepository) UpdatePassword(_ context.Context, id uint, hash string) error {
	return m.mutate(id, func(a *Account) { a.PasswordHash = hash })
}

func (m *mockRepository) setActive(id uint, active bool) {
	_ = m.mutate(id, func(a *Account) { a.IsActive = active })
}

func (m *mockRepository) snapshot(id uint) Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.accounts[id]
}
