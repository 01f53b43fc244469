package search

import (
	"slices"
	"strings"

	"github.com/stackcraft/stackcraft/content"
)

// DefaultRelatedLimit is how many related posts a post page shows.
const DefaultRelatedLimit = 3

// Filter returns the posts matching every active filter in s, in their
// original order. The query matches case-insensitively against title,
// description and tags; category and tag are exact matches. posts is not
// modified.
func Filter(posts []content.Post, s State) []content.Post {
	query := strings.ToLower(s.Query)
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if s.Category != "" && p.Category != s.Category {
			continue
		}
		if s.Tag != "" && !p.HasTag(s.Tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p content.Post, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(p.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Description), lowerQuery) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), lowerQuery) {
			return true
		}
	}
	return false
}

// AllTags returns every distinct tag across posts, sorted.
func AllTags(posts []content.Post) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	slices.Sort(tags)
	return tags
}

// Related returns up to limit posts other than current that share its
// category or at least one tag, in registry order.
func Related(posts []content.Post, current content.Post, limit int) []content.Post {
	var out []content.Post
	for _, p := range posts {
		if len(out) >= limit {
			break
		}
		if p.ID == current.ID {
			continue
		}
		if p.Category == current.Category || sharesTag(p, current) {
			out = append(out, p)
		}
	}
	return out
}

func sharesTag(a, b content.Post) bool {
	for _, t := range a.Tags {
		if b.HasTag(t) {
			return true
		}
	}
	return false
}
