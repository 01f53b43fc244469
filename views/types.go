package views

import (
	"html/template"

	"github.com/stackcraft/stackcraft/content"
	"github.com/stackcraft/stackcraft/markdown"
	"github.com/stackcraft/stackcraft/search"
)

// Site holds the site-wide settings every page template reads.
type Site struct {
	Name        string
	URL         string // canonical origin, no trailing slash
	Tagline     string
	Description string
	SocialImage string // absolute URL
	Year        int
}

// Meta carries per-page OpenGraph and SEO metadata into the <head> template.
type Meta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      template.JS
	NoIndex     bool
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Href   string
	Label  string
	Active bool
}

// Base is embedded by every page model.
type Base struct {
	Site Site
	Meta Meta
	Nav  []NavLink
}

// PostCard is a post as shown in lists.
type PostCard struct {
	Post     content.Post
	Category content.Category
	Href     string
}

// CategoryCard is a category with its post count.
type CategoryCard struct {
	Category content.Category
	Count    int
	Href     string
}

// FilterLink toggles one search filter value.
type FilterLink struct {
	Label  string
	Href   string
	Active bool
}

// HomePage is the landing page model.
type HomePage struct {
	Base
	Featured   []PostCard
	Categories []CategoryCard
}

// BlogPage lists every post, optionally narrowed to one category.
type BlogPage struct {
	Base
	Posts      []PostCard
	Categories []FilterLink
}

// PostPage renders one post.
type PostPage struct {
	Base
	Post     content.Post
	Category content.Category
	Author   content.Author
	Headings []markdown.Heading
	Related  []PostCard
}

// SearchPage is the search page and its htmx results partial.
type SearchPage struct {
	Base
	State      search.State
	Results    []PostCard
	Total      int
	Categories []FilterLink
	Tags       []FilterLink
	ClearHref  string
}

// InfoPage renders the static informational pages.
type InfoPage struct {
	Base
	Route      content.Route
	Categories []CategoryCard
}

// NewsletterResult is the htmx response of the signup form.
type NewsletterResult struct {
	Email string
	Error string
	OK    bool
}
