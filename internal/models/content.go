package models

import "time"

// Post 博客文章
type Post struct {
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Content       string     `json:"content,omitempty"`
	Author        string     `json:"author"`
	Category      string     `json:"category"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	ModifiedDate  *time.Time `json:"modified_date,omitempty"`
}

// FAQ 常见问题
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Testimonial 用户好评
type Testimonial struct {
	Name    string     `json:"name"`
	Pfp     string     `json:"pfp,omitempty"`
	Comment string     `json:"comment"`
	Date    *time.Time `json:"date,omitempty"`
}

// SiteStats 站点统计
type SiteStats struct {
	ActiveUsers    int `json:"active_users"`
	PremiumScripts int `json:"premium_scripts"`
}

// TeamMember 团队成员
type TeamMember struct {
	Name             string `json:"name"`
	Role             string `json:"role"`
	ShortDescription string `json:"short_description"`
}

// FeaturedServer 合作服务器
type FeaturedServer struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url"`
}
