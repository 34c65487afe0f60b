package contact

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/elskow/portfolio-cms/internal/rules"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	Subject    string    `gorm:"size:200;not null" json:"subject"`
	Message    string    `gorm:"size:2000;not null" json:"message"`
	IsRead     bool      `gorm:"not null;index" json:"isRead"`
	IsReplied  bool      `gorm:"not null" json:"isReplied"`
	Priority   Priority  `gorm:"size:10;not null" json:"priority"`
	AdminNotes string    `gorm:"type:text" json:"adminNotes"`
	IPAddress  string    `gorm:"size:64" json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Message) TableName() string {
	return "contact_messages"
}

func (m Message) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&m.Email, validation.Required, is.EmailFormat),
		validation.Field(&m.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Message, validation.Required, validation.Length(1, 2000)),
		validation.Field(&m.Priority, validation.Required, validation.In(rules.Strings(Priorities...)...)),
		validation.Field(&m.AdminNotes, validation.Length(0, 2000)),
	)
}
