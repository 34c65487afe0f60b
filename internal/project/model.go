package project

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/elskow/portfolio-cms/internal/rules"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

var Statuses = []Status{StatusDraft, StatusPublished, StatusArchived}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Project struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"size:100;not null" json:"title"`
	Slug             string     `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	ShortDescription string     `gorm:"size:200" json:"shortDescription"`
	FullDescription  string     `gorm:"type:text" json:"fullDescription"`
	Technologies     []string   `gorm:"serializer:json" json:"technologies"`
	ProjectURL       string     `json:"projectUrl,omitempty"`
	GithubURL        string     `json:"githubUrl,omitempty"`
	DemoURL          string     `json:"demoUrl,omitempty"`
	FeaturedImage    string     `json:"featuredImage,omitempty"`
	ProjectImages    []string   `gorm:"serializer:json" json:"projectImages"`
	Status           Status     `gorm:"size:20;not null;index" json:"status"`
	Featured         bool       `gorm:"not null" json:"featured"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	SortOrder        int        `gorm:"not null" json:"sortOrder"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}

func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.ShortDescription, validation.Length(0, 200)),
		validation.Field(&p.Status, validation.Required, validation.In(rules.Strings(Statuses...)...)),
		validation.Field(&p.ProjectURL, rules.HTTPURL),
		validation.Field(&p.GithubURL, rules.HTTPURL),
		validation.Field(&p.DemoURL, rules.HTTPURL),
		validation.Field(&p.FeaturedImage, rules.HTTPURL),
		validation.Field(&p.ProjectImages, validation.Each(rules.HTTPURL)),
		validation.Field(&p.EndDate, validation.By(p.endAfterStart)),
	)
}

func (p Project) endAfterStart(interface{}) error {
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return validation.NewError("validation_end_before_start", "must not be before the start date")
	}
	return nil
}
