package feed

import (
	"testing"
	"time"

	"github.com/stackcraft/stackcraft/content"
)

func testSite() Site {
	return Site{
		Name:             "StackCraft",
		URL:              "https://www.example.com",
		Title:            "Example Playbooks",
		Description:      "Engineering playbooks.",
		Language:         "en-us",
		TTL:              60,
		Editor:           "hello@example.com (Example Team)",
		Creator:          "Example Team",
		Copyright:        "Copyright 2026 Example.",
		Categories:       []string{"Technology", "Software Engineering", "Programming"},
		Generator:        "Example RSS Generator",
		Docs:             "https://www.rssboard.org/rss-specification",
		SocialImage:      "https://www.example.com/og-image.png",
		SocialImageTitle: "Example",
	}
}

func testRoutes() []content.Route {
	return []content.Route{
		{Path: "/blog", Name: "blog"},
		{Path: "/", Name: "home"},
		{Path: "/about", Name: "about"},
		{Path: "/blog/:slug", Name: "post"},
		{Path: "/terms", Name: "terms"},
		{Path: "/about", Name: "about-again"},
		{Path: "/*", Name: "notfound"},
	}
}

func testPosts() []content.Post {
	return []content.Post{
		{
			ID:          "2",
			Slug:        "second-post",
			Title:       "Second <Post> & more",
			Description: "Covers \"quoting\" & escaping.",
			Category:    "devops",
			Tags:        []string{"Kubernetes", "CI/CD"},
			PublishedAt: time.Date(2026, 1, 4, 9, 0, 0, 0, time.UTC),
			ModifiedAt:  time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
			ReadTime:    10,
		},
		{
			ID:          "1",
			Slug:        "first-post",
			Title:       "First Post",
			Description: "The first one.",
			Category:    "ai",
			Tags:        []string{"AI", "RAG"},
			PublishedAt: time.Date(2025, 12, 28, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			ReadTime:    5,
		},
	}
}

func TestSiteURLFor(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{name: "root", base: "https://www.example.com", segments: []string{"/"}, want: "https://www.example.com/"},
		{name: "no segments", base: "https://www.example.com", want: "https://www.example.com/"},
		{name: "trailing slash on base", base: "https://www.example.com/", segments: []string{"/about"}, want: "https://www.example.com/about"},
		{name: "post", base: "https://www.example.com", segments: []string{"blog", "my-post"}, want: "https://www.example.com/blog/my-post"},
		{name: "base with path", base: "https://example.com/site", segments: []string{"rss.xml"}, want: "https://example.com/site/rss.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Site{URL: tt.base}.URLFor(tt.segments...)
			if got != tt.want {
				t.Errorf("URLFor(%v) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}
