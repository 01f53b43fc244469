package content

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml posts/*.md
var embedded embed.FS

// postMatter is the YAML frontmatter of a post file.
type postMatter struct {
	ID          string   `yaml:"id"`
	Order       int      `yaml:"order"`
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Author      string   `yaml:"author"`
	Image       string   `yaml:"image"`
	Tags        []string `yaml:"tags"`
	PublishedAt string   `yaml:"published_at"`
	ModifiedAt  string   `yaml:"modified_at"`
	ReadTime    int      `yaml:"read_time"`
}

// Load returns the registry built from the embedded content tree.
func Load() (*Registry, error) {
	return LoadFS(embedded)
}

// LoadFS builds and validates a registry from fsys, which must hold
// data/categories.yaml, data/authors.yaml and posts/*.md.
func LoadFS(fsys fs.FS) (*Registry, error) {
	reg := &Registry{Routes: Routes()}

	if err := decodeYAML(fsys, "data/categories.yaml", &reg.Categories); err != nil {
		return nil, err
	}
	if err := decodeYAML(fsys, "data/authors.yaml", &reg.Authors); err != nil {
		return nil, err
	}

	posts, err := loadPosts(fsys)
	if err != nil {
		return nil, err
	}
	reg.Posts = posts

	if err := Validate(reg); err != nil {
		return nil, fmt.Errorf("content: invalid registry: %w", err)
	}
	return reg, nil
}

func decodeYAML(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("content: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("content: parse %s: %w", name, err)
	}
	return nil
}

func loadPosts(fsys fs.FS) ([]Post, error) {
	names, err := fs.Glob(fsys, "posts/*.md")
	if err != nil {
		return nil, fmt.Errorf("content: list posts: %w", err)
	}

	type ordered struct {
		order int
		post  Post
	}
	var all []ordered
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", name, err)
		}
		var fm postMatter
		body, err := frontmatter.MustParse(bytes.NewReader(raw), &fm)
		if err != nil {
			return nil, fmt.Errorf("content: parse frontmatter of %s: %w", name, err)
		}
		p, err := fm.post(string(body))
		if err != nil {
			return nil, fmt.Errorf("content: %s: %w", name, err)
		}
		if p.Slug == "" {
			p.Slug = slugFromFile(name)
		}
		all = append(all, ordered{order: fm.Order, post: p})
	}

	// Editorial order; slug breaks ties so the result never depends on
	// directory listing order.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].order != all[j].order {
			return all[i].order < all[j].order
		}
		return all[i].post.Slug < all[j].post.Slug
	})

	posts := make([]Post, len(all))
	for i, o := range all {
		posts[i] = o.post
	}
	return posts, nil
}

func (fm postMatter) post(body string) (Post, error) {
	published, err := time.Parse(time.RFC3339, fm.PublishedAt)
	if err != nil {
		return Post{}, fmt.Errorf("published_at: %w", err)
	}
	modified := published
	if fm.ModifiedAt != "" {
		modified, err = time.Parse(time.RFC3339, fm.ModifiedAt)
		if err != nil {
			return Post{}, fmt.Errorf("modified_at: %w", err)
		}
	}
	return Post{
		ID:          fm.ID,
		Slug:        fm.Slug,
		Title:       fm.Title,
		Description: fm.Description,
		Content:     body,
		Category:    fm.Category,
		Author:      fm.Author,
		Image:       fm.Image,
		Tags:        fm.Tags,
		PublishedAt: published.UTC(),
		ModifiedAt:  modified.UTC(),
		ReadTime:    fm.ReadTime,
	}, nil
}

func slugFromFile(name string) string {
	base := path.Base(name)
	return base[:len(base)-len(path.Ext(base))]
}
