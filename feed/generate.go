package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/stackcraft/stackcraft/content"
)

// Output file names inside the build directory.
const (
	SitemapFile = "sitemap.xml"
	RSSFile     = "rss.xml"
	IconFile    = "feed-icon.jpg"
)

// Generator writes the feed artifacts into OutputDir. It is the build
// hook: Generate never fails the build, it logs and skips the artifact
// that could not be produced.
type Generator struct {
	Site      Site
	Rules     Rules
	OutputDir string

	// Routes and Posts supply the registry. An error from either skips
	// only the artifacts that need it.
	Routes func() ([]content.Route, error)
	Posts  func() ([]content.Post, error)

	// IconSource is an optional image file the feed icon is cut from.
	IconSource string

	Now    func() time.Time
	Logger *slog.Logger
}

// Generate writes the feed icon when IconSource is set, then sitemap.xml
// and rss.xml. A written icon becomes the RSS channel image. Each artifact
// is an independent failure domain. Calling it again overwrites the
// previous output.
func (g *Generator) Generate() {
	now := g.now()
	site := g.Site

	if g.IconSource != "" {
		var w, h int
		ok := g.run("stackcraft-icon", IconFile, func() ([]byte, error) {
			data, width, height, err := iconFromFile(g.IconSource)
			w, h = width, height
			return data, err
		})
		if ok {
			site.Icon = &Icon{URL: site.URLFor(IconFile), Width: w, Height: h}
		}
	}

	g.run("stackcraft-sitemap", SitemapFile, func() ([]byte, error) {
		routes, err := g.Routes()
		if err != nil {
			return nil, fmt.Errorf("read routes: %w", err)
		}
		posts, err := g.Posts()
		if err != nil {
			return nil, fmt.Errorf("read posts: %w", err)
		}
		return Sitemap(g.Site, routes, posts, g.Rules, now)
	})

	g.run("stackcraft-rss", RSSFile, func() ([]byte, error) {
		posts, err := g.Posts()
		if err != nil {
			return nil, fmt.Errorf("read posts: %w", err)
		}
		return RSS(site, posts, now)
	})
}

// run builds one artifact and writes it. Errors and panics are logged as
// warnings tagged with prefix; the return value reports success.
func (g *Generator) run(prefix, name string, build func() ([]byte, error)) (ok bool) {
	log := g.logger().With("artifact", name)
	defer func() {
		if r := recover(); r != nil {
			log.Warn(fmt.Sprintf("[%s] Failed to generate %s", prefix, name), "error", fmt.Sprint(r))
			ok = false
		}
	}()

	data, err := build()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && name == IconFile {
			log.Info(fmt.Sprintf("[%s] Source image not found, skipping", prefix), "source", g.IconSource)
			return false
		}
		log.Warn(fmt.Sprintf("[%s] Failed to generate %s", prefix, name), "error", err)
		return false
	}

	out := filepath.Join(g.OutputDir, name)
	if err := writeFileAtomic(out, data); err != nil {
		log.Warn(fmt.Sprintf("[%s] Failed to write %s", prefix, name), "path", out, "error", err)
		return false
	}
	log.Info("generated", "path", out, "bytes", len(data))
	return true
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// writeFileAtomic replaces path with data in one rename, so readers never
// observe a partially written document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
