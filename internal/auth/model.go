package auth

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// Satisfies reports whether r is at least as privileged as required.
func (r Role) Satisfies(required Role) bool {
	return roleRank[r] >= roleRank[required] && roleRank[r] > 0
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

type Account struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash   string     `gorm:"not null" json:"-"`
	FirstName      string     `gorm:"size:50" json:"firstName"`
	LastName       string     `gorm:"size:50" json:"lastName"`
	Avatar         string     `json:"avatar"`
	Role           Role       `gorm:"size:20;not null" json:"role"`
	IsActive       bool       `gorm:"not null" json:"isActive"`
	FailedAttempts int        `gorm:"not null" json:"-"`
	LastFailedAt   *time.Time `json:"-"`
	LockUntil      *time.Time `json:"-"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// IsLocked reports whether a lockout is still in force at now.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}

// Summary is the public view of an account returned by the API.
type Summary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar"`
}

func (a *Account) Summary() Summary {
	return Summary{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		FullName: a.FullName(),
		Role:     a.Role,
		Avatar:   a.Avatar,
	}
}
