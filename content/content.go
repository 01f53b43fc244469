// Package content is the static registry behind the site: the route
// manifest, playbook categories, authors and the blog posts themselves.
//
// Posts are authored as Markdown files with YAML frontmatter and embedded
// into the binary, so the HTTP app, the prerenderer and the feed generator
// all read the same data.
package content

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Route is one page of the site. Paths use echo syntax: ":name" marks a
// route parameter and "/*" is the catch-all.
type Route struct {
	Path    string
	Name    string // handler key
	Title   string
	Summary string
}

// Indexable reports whether the route is a single concrete page that can
// be listed in a sitemap.
func (r Route) Indexable() bool {
	return !strings.Contains(r.Path, ":") && !strings.Contains(r.Path, "*")
}

// DisplayTitle returns Title, or a title-cased Name when Title is empty.
func (r Route) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return cases.Title(language.English).String(strings.ReplaceAll(r.Name, "-", " "))
}

// Category groups playbooks by technology area.
type Category struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Color       string `yaml:"color"` // gradient key
}

// Author is a playbook author.
type Author struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Avatar   string `yaml:"avatar"`
	Bio      string `yaml:"bio"`
	Twitter  string `yaml:"twitter"`
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
}

// Post is a blog post / playbook.
type Post struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Content     string // Markdown body
	Category    string
	Author      string
	Image       string
	Tags        []string
	PublishedAt time.Time
	ModifiedAt  time.Time
	ReadTime    int // minutes
}

// HasTag reports whether tag is one of the post's tags (exact match).
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Registry holds everything loaded from the content tree. It is read-only
// once loaded.
type Registry struct {
	Routes     []Route
	Categories []Category
	Authors    []Author
	Posts      []Post
}

// PostBySlug returns the post with the given slug.
func (r *Registry) PostBySlug(slug string) (Post, bool) {
	for _, p := range r.Posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// PostsByCategory returns the posts in category id, in registry order.
func (r *Registry) PostsByCategory(id string) []Post {
	var out []Post
	for _, p := range r.Posts {
		if p.Category == id {
			out = append(out, p)
		}
	}
	return out
}

// CategoryByID looks up a category.
func (r *Registry) CategoryByID(id string) (Category, bool) {
	for _, c := range r.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// HasCategory reports whether id names a known category.
func (r *Registry) HasCategory(id string) bool {
	_, ok := r.CategoryByID(id)
	return ok
}

// AuthorByName looks up an author, falling back to the default (first)
// author when name is unknown.
func (r *Registry) AuthorByName(name string) (Author, bool) {
	for _, a := range r.Authors {
		if a.Name == name {
			return a, true
		}
	}
	if len(r.Authors) > 0 {
		return r.Authors[0], false
	}
	return Author{}, false
}

// RouteByName returns the first route with the given handler key.
func (r *Registry) RouteByName(name string) (Route, bool) {
	for _, rt := range r.Routes {
		if rt.Name == name {
			return rt, true
		}
	}
	return Route{}, false
}
