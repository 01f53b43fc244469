// Package feed serializes the site's sitemap.xml and rss.xml from the
// content registry and writes them into the build output.
package feed

import (
	"net/url"
	"path"
	"strings"
)

// Site carries the feed-level metadata that does not come from posts.
type Site struct {
	Name        string // short brand name
	URL         string // canonical origin, no trailing slash
	Title       string // channel title
	Description string
	Language    string
	TTL         int    // minutes
	Editor      string // "mail (Name)" form for managingEditor/webMaster
	Creator     string // dc:creator for every item
	Copyright   string
	Categories  []string // channel-level categories
	Generator   string
	Docs        string

	SocialImage      string // absolute URL of the shared preview image
	SocialImageTitle string

	// Icon is the channel image. Without one the social image is used.
	Icon *Icon
}

// Icon is a published feed icon and its pixel size.
type Icon struct {
	URL           string
	Width, Height int
}

// URLFor joins path segments onto the site URL. The root path keeps its
// trailing slash; other paths have none.
func (s Site) URLFor(segments ...string) string {
	base := strings.TrimSuffix(s.URL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return base + "/" + strings.Join(segments, "/")
	}
	u.Path = path.Join(append([]string{"/", u.Path}, segments...)...)
	return u.String()
}

// PostURL is the absolute link of a post.
func (s Site) PostURL(slug string) string {
	return s.URLFor("blog", slug)
}
