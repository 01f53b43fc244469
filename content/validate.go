package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var reSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate checks the registry's schema invariants and returns every
// violation found, joined.
func Validate(reg *Registry) error {
	var errs []error

	paths := make(map[string]struct{}, len(reg.Routes))
	for _, r := range reg.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			errs = append(errs, fmt.Errorf("route %q: path must start with /", r.Path))
		}
		if _, dup := paths[r.Path]; dup {
			errs = append(errs, fmt.Errorf("route %q: duplicate path", r.Path))
		}
		paths[r.Path] = struct{}{}
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("route %q: missing name", r.Path))
		}
	}

	categories := make(map[string]struct{}, len(reg.Categories))
	for _, c := range reg.Categories {
		if c.ID == "" {
			errs = append(errs, errors.New("category with empty id"))
			continue
		}
		if _, dup := categories[c.ID]; dup {
			errs = append(errs, fmt.Errorf("category %q: duplicate id", c.ID))
		}
		categories[c.ID] = struct{}{}
	}

	authors := make(map[string]struct{}, len(reg.Authors))
	for _, a := range reg.Authors {
		authors[a.Name] = struct{}{}
	}

	ids := make(map[string]struct{}, len(reg.Posts))
	slugs := make(map[string]struct{}, len(reg.Posts))
	for _, p := range reg.Posts {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("post %q: missing id", p.Slug))
		} else if _, dup := ids[p.ID]; dup {
			errs = append(errs, fmt.Errorf("post %q: duplicate id %q", p.Slug, p.ID))
		}
		ids[p.ID] = struct{}{}

		if !reSlug.MatchString(p.Slug) {
			errs = append(errs, fmt.Errorf("post %q: slug is not URL-safe", p.Slug))
		}
		if _, dup := slugs[p.Slug]; dup {
			errs = append(errs, fmt.Errorf("post %q: duplicate slug", p.Slug))
		}
		slugs[p.Slug] = struct{}{}

		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("post %q: missing title", p.Slug))
		}
		if _, ok := categories[p.Category]; !ok {
			errs = append(errs, fmt.Errorf("post %q: unknown category %q", p.Slug, p.Category))
		}
		if p.Author != "" {
			if _, ok := authors[p.Author]; !ok {
				errs = append(errs, fmt.Errorf("post %q: unknown author %q", p.Slug, p.Author))
			}
		}
		if p.ModifiedAt.Before(p.PublishedAt) {
			errs = append(errs, fmt.Errorf("post %q: modified before published", p.Slug))
		}
		if p.ReadTime <= 0 {
			errs = append(errs, fmt.Errorf("post %q: read time must be positive", p.Slug))
		}
	}

	return errors.Join(errs...)
}
