package blog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"

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

var Categories = []string{
	"Web Development",
	"React",
	"Node.js",
	"JavaScript",
	"CSS",
	"Database",
	"DevOps",
	"Mobile Development",
	"UI/UX Design",
	"Career",
	"Tutorial",
	"Opinion",
	"Review",
}

const DefaultAuthorName = "Admin"

type Author struct {
	Name   string `gorm:"size:100" json:"name"`
	Email  string `gorm:"size:255" json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&a.Email, is.EmailFormat),
		validation.Field(&a.Avatar, rules.HTTPURL),
	)
}

type SEO struct {
	MetaTitle       string   `gorm:"size:60" json:"metaTitle,omitempty"`
	MetaDescription string   `gorm:"size:160" json:"metaDescription,omitempty"`
	Keywords        []string `gorm:"serializer:json" json:"keywords"`
}

func (s SEO) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.MetaTitle, validation.Length(0, 60)),
		validation.Field(&s.MetaDescription, validation.Length(0, 160)),
	)
}

type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:100;not null" json:"title"`
	Slug          string     `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Excerpt       string     `gorm:"size:300;not null" json:"excerpt"`
	Content       string     `gorm:"type:text;not null" json:"content,omitempty"`
	Author        Author     `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Category      string     `gorm:"size:50;not null;index" json:"category"`
	Tags          []string   `gorm:"serializer:json" json:"tags"`
	Status        Status     `gorm:"size:20;not null;index" json:"status"`
	Featured      bool       `gorm:"not null" json:"featured"`
	PublishedAt   *time.Time `gorm:"index" json:"publishedAt"`
	ReadTime      int        `gorm:"not null" json:"readTime"`
	Views         int64      `gorm:"not null" json:"views"`
	Likes         int64      `gorm:"not null" json:"likes"`
	SEO           SEO        `gorm:"embedded;embeddedPrefix:seo_" json:"seo"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	URL         string `gorm:"-" json:"url"`
	ContentHTML string `gorm:"-" json:"contentHtml,omitempty"`
}

func (Post) TableName() string {
	return "blog_posts"
}

func (p *Post) AfterFind(*gorm.DB) error {
	p.decorate()
	return nil
}

func (p *Post) AfterSave(*gorm.DB) error {
	p.decorate()
	return nil
}

func (p *Post) decorate() {
	p.URL = "/blog/" + p.Slug
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.SEO.Keywords == nil {
		p.SEO.Keywords = []string{}
	}
}

// IsPublic reports whether anonymous readers may see the post at now.
func (p *Post) IsPublic(now time.Time) bool {
	return p.Status == StatusPublished && p.PublishedAt != nil && !p.PublishedAt.After(now)
}

func (p Post) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Excerpt, validation.Required, validation.Length(1, 300)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.Category, validation.Required, validation.In(rules.Strings(Categories...)...)),
		validation.Field(&p.Status, validation.Required, validation.In(rules.Strings(Statuses...)...)),
		validation.Field(&p.FeaturedImage, rules.HTTPURL),
		validation.Field(&p.Tags, validation.Each(validation.Length(1, 50))),
		validation.Field(&p.Author),
		validation.Field(&p.SEO),
	)
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
