package dashboard

import "time"

type Overview struct {
	ProjectsCount     int64 `json:"projectsCount"`
	SkillsCount       int64 `json:"skillsCount"`
	BlogPostsCount    int64 `json:"blogPostsCount"`
	PublishedProjects int64 `json:"publishedProjects"`
	PublishedPosts    int64 `json:"publishedPosts"`
	FeaturedProjects  int64 `json:"featuredProjects"`
	FeaturedPosts     int64 `json:"featuredPosts"`
	TotalViews        int64 `json:"totalViews"`
}

type RecentProject struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RecentPost struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Views     int64     `json:"views"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RecentActivity struct {
	Projects []RecentProject `json:"projects"`
	Posts    []RecentPost    `json:"posts"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// MonthlyPosts aggregates posts published in one calendar month (UTC).
type MonthlyPosts struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
	Views int64 `json:"views"`
}

type Breakdown struct {
	SkillsByCategory []CategoryCount `json:"skillsByCategory"`
	PostsByCategory  []CategoryCount `json:"postsByCategory"`
	MonthlyPosts     []MonthlyPosts  `json:"monthlyPosts"`
}

type Stats struct {
	Overview       Overview       `json:"overview"`
	RecentActivity RecentActivity `json:"recentActivity"`
	Breakdown      Breakdown      `json:"breakdown"`
}

type Draft struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type PopularPost struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type NewSkill struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
}

type Summary struct {
	DraftProjects []Draft       `json:"draftProjects"`
	DraftPosts    []Draft       `json:"draftPosts"`
	PopularPosts  []PopularPost `json:"popularPosts"`
	NewestSkills  []NewSkill    `json:"newestSkills"`
}
