package skill

import (
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/rules"
)

type Category string

const (
	CategoryFrontend   Category = "Frontend"
	CategoryBackend    Category = "Backend"
	CategoryDatabase   Category = "Database"
	CategoryDevOps     Category = "DevOps"
	CategoryMobile     Category = "Mobile"
	CategoryDesign     Category = "Design"
	CategoryTools      Category = "Tools"
	CategorySoftSkills Category = "Soft Skills"
	CategoryLanguages  Category = "Languages"
)

var Categories = []Category{
	CategoryFrontend, CategoryBackend, CategoryDatabase, CategoryDevOps, CategoryMobile,
	CategoryDesign, CategoryTools, CategorySoftSkills, CategoryLanguages,
}

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelExpert       Level = "Expert"
)

var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

type Status string

const (
	StatusActive   Status = "active"
	StatusLearning Status = "learning"
	StatusArchived Status = "archived"
)

var Statuses = []Status{StatusActive, StatusLearning, StatusArchived}

const (
	DefaultProficiency = 50
	DefaultColor       = "#007bff"
)

type Skill struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Category          Category  `gorm:"size:30;not null;index" json:"category"`
	Level             Level     `gorm:"size:20;not null" json:"level"`
	Proficiency       int       `gorm:"not null" json:"proficiency"`
	Icon              string    `json:"icon"`
	Color             string    `gorm:"size:7" json:"color"`
	Description       string    `gorm:"size:200" json:"description"`
	YearsOfExperience float64   `gorm:"not null" json:"yearsOfExperience"`
	Featured          bool      `gorm:"not null" json:"featured"`
	SortOrder         int       `gorm:"not null" json:"sortOrder"`
	Status            Status    `gorm:"size:20;not null;index" json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	ExperienceLevel string `gorm:"-" json:"experienceLevel"`
}

func (Skill) TableName() string {
	return "skills"
}

func (s *Skill) AfterFind(*gorm.DB) error {
	s.ExperienceLevel = ExperienceLevel(s.YearsOfExperience)
	return nil
}

func (s *Skill) AfterSave(*gorm.DB) error {
	s.ExperienceLevel = ExperienceLevel(s.YearsOfExperience)
	return nil
}

// ExperienceLevel renders years of experience as a short label.
func ExperienceLevel(years float64) string {
	switch {
	case years < 1:
		return "New to"
	case years < 2:
		return "1+ year"
	default:
		return strconv.FormatFloat(years, 'f', -1, 64) + "+ years"
	}
}

func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&s.Category, validation.Required, validation.In(rules.Strings(Categories...)...)),
		validation.Field(&s.Level, validation.Required, validation.In(rules.Strings(Levels...)...)),
		validation.Field(&s.Proficiency,
			validation.Required.Error("must be between 1 and 100"), validation.Min(1), validation.Max(100)),
		validation.Field(&s.Color, rules.HexColor),
		validation.Field(&s.Description, validation.Length(0, 200)),
		validation.Field(&s.YearsOfExperience, validation.Min(0.0)),
		validation.Field(&s.Status, validation.Required, validation.In(rules.Strings(Statuses...)...)),
	)
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}
