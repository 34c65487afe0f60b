package profile

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"

	"github.com/elskow/portfolio-cms/internal/rules"
)

// SingletonID is the primary key of the only profile row.
const SingletonID = 1

type Location struct {
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	Country string `gorm:"size:100" json:"country"`
}

// String joins the non-empty parts with ", ".
func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type SocialLinks struct {
	GitHub    string `gorm:"column:github" json:"github"`
	LinkedIn  string `gorm:"column:linkedin" json:"linkedin"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Website   string `json:"website"`
}

func (s SocialLinks) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.GitHub, rules.HTTPURL),
		validation.Field(&s.LinkedIn, rules.HTTPURL),
		validation.Field(&s.Twitter, rules.HTTPURL),
		validation.Field(&s.Instagram, rules.HTTPURL),
		validation.Field(&s.Website, rules.HTTPURL),
	)
}

type Profile struct {
	ID                  uint        `gorm:"primaryKey;autoIncrement:false" json:"-"`
	FirstName           string      `gorm:"size:50;not null" json:"firstName"`
	LastName            string      `gorm:"size:50;not null" json:"lastName"`
	Title               string      `gorm:"size:100;not null" json:"title"`
	Tagline             string      `gorm:"size:200" json:"tagline"`
	AboutMe             string      `gorm:"type:text;not null" json:"aboutMe"`
	ShortBio            string      `gorm:"size:300" json:"shortBio"`
	Email               string      `gorm:"size:255;not null" json:"email,omitempty"`
	Phone               string      `gorm:"size:20" json:"phone,omitempty"`
	Location            Location    `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	SocialLinks         SocialLinks `gorm:"embedded;embeddedPrefix:social_" json:"socialLinks"`
	ProfileImage        string      `json:"profileImage"`
	ResumeURL           string      `json:"resumeUrl"`
	YearsOfExperience   float64     `gorm:"not null" json:"yearsOfExperience"`
	TopSkills           []string    `gorm:"serializer:json" json:"topSkills"`
	IsAvailable         bool        `gorm:"not null" json:"isAvailable"`
	AvailabilityMessage string      `gorm:"size:200" json:"availabilityMessage"`
	MetaDescription     string      `gorm:"size:160" json:"metaDescription"`
	IsPublic            bool        `gorm:"not null" json:"isPublic"`
	ShowContactInfo     bool        `gorm:"not null" json:"showContactInfo"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`

	FullName          string `gorm:"-" json:"fullName"`
	FormattedLocation string `gorm:"-" json:"formattedLocation"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Placeholder is the record an admin starts editing from when none exists.
func Placeholder() *Profile {
	p := &Profile{
		ID:              SingletonID,
		FirstName:       "Your",
		LastName:        "Name",
		Title:           "Full Stack Developer",
		Tagline:         "Passionate about creating amazing web experiences",
		AboutMe:         "Write about yourself here...",
		Email:           "your.email@example.com",
		IsAvailable:     true,
		IsPublic:        true,
		ShowContactInfo: true,
	}
	p.decorate()
	return p
}

func (p *Profile) AfterFind(*gorm.DB) error {
	p.decorate()
	return nil
}

func (p *Profile) AfterSave(*gorm.DB) error {
	p.decorate()
	return nil
}

func (p *Profile) decorate() {
	p.FullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	p.FormattedLocation = p.Location.String()
	if p.TopSkills == nil {
		p.TopSkills = []string{}
	}
}

// Public returns the copy shown to anonymous visitors.
func (p Profile) Public() Profile {
	if !p.ShowContactInfo {
		p.Email = ""
		p.Phone = ""
	}
	return p
}

func (p Profile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&p.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Tagline, validation.Length(0, 200)),
		validation.Field(&p.AboutMe, validation.Required, validation.Length(1, 2000)),
		validation.Field(&p.ShortBio, validation.Length(0, 300)),
		validation.Field(&p.Email, validation.Required, is.EmailFormat),
		validation.Field(&p.Phone, validation.Length(0, 20)),
		validation.Field(&p.SocialLinks),
		validation.Field(&p.YearsOfExperience, validation.Min(0.0)),
		validation.Field(&p.TopSkills, validation.Each(validation.Length(1, 50))),
		validation.Field(&p.AvailabilityMessage, validation.Length(0, 200)),
		validation.Field(&p.MetaDescription, validation.Length(0, 160)),
	)
}
