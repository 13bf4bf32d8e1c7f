package cache

import "strings"

// 目录与内容缓存 key
const (
	KeyCatalogScripts  = "catalog:scripts"
	KeyPosts           = "content:posts"
	KeyFAQs            = "content:faqs"
	KeyTestimonials    = "content:testimonials"
	KeyStats           = "content:stats"
	KeyTeamMembers     = "content:team-members"
	KeyFeaturedServers = "content:featured-servers"
)

// CatalogScriptKey 单个脚本详情缓存 key
func CatalogScriptKey(slug string) string {
	return "catalog:script:" + strings.TrimSpace(slug)
}

// PostKey 单篇文章缓存 key
func PostKey(slug string) string {
	return "content:post:" + strings.TrimSpace(slug)
}
