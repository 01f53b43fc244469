package views

import (
	"encoding/json"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/stackcraft/stackcraft/content"
	"github.com/stackcraft/stackcraft/feed"
)

// URLFor returns the absolute URL of a path on the site.
func (s Site) URLFor(segments ...string) string {
	return feed.Site{URL: s.URL}.URLFor(segments...)
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "tag"
	if active {
		base += " tag-active"
	}
	return base
}

// FormatDate renders a publish date the way post cards show it.
func FormatDate(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006")
}

// JoinTags formats a tag slice as a comma-separated string.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func marshalJSONLD(data map[string]any) template.JS {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}

// WebsiteJSONLD produces a Schema.org WebSite block with a search action
// pointing at the search page.
func WebsiteJSONLD(site Site) template.JS {
	return marshalJSONLD(map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Name,
		"url":         site.URLFor(),
		"description": site.Description,
		"potentialAction": map[string]any{
			"@type":       "SearchAction",
			"target":      site.URLFor("search") + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	})
}

// ArticleJSONLD produces a Schema.org TechArticle block for a post.
func ArticleJSONLD(site Site, post content.Post, author content.Author) template.JS {
	postURL := site.URLFor("blog", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "TechArticle",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.PublishedAt.UTC().Format(time.RFC3339),
		"dateModified":  post.ModifiedAt.UTC().Format(time.RFC3339),
		"url":           postURL,
		"timeRequired":  "PT" + strconv.Itoa(post.ReadTime) + "M",
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if author.Name != "" {
		a := map[string]string{"@type": "Person", "name": author.Name}
		if author.URL != "" {
			a["url"] = author.URL
		}
		data["author"] = a
	}
	if post.Image != "" {
		data["image"] = post.Image
	}
	if len(post.Tags) > 0 {
		data["keywords"] = JoinTags(post.Tags)
	}
	return marshalJSONLD(data)
}

// SearchResultsJSONLD produces a Schema.org SearchResultsPage block listing
// the result links in order.
func SearchResultsJSONLD(site Site, pageURL string, results []PostCard) template.JS {
	items := make([]map[string]any, 0, len(results))
	for i, r := range results {
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"url":      site.URLFor("blog", r.Post.Slug),
			"name":     r.Post.Title,
		})
	}
	return marshalJSONLD(map[string]any{
		"@context": "https://schema.org",
		"@type":    "SearchResultsPage",
		"url":      pageURL,
		"mainEntity": map[string]any{
			"@type":           "ItemList",
			"numberOfItems":   len(results),
			"itemListElement": items,
		},
	})
}
