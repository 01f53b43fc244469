package stackcraft

import (
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/stackcraft/stackcraft/feed"
)

const (
	contentTypeSitemap = "application/xml; charset=utf-8"
	contentTypeRSS     = "application/rss+xml; charset=utf-8"
)

// Generator returns the feed generator writing into outDir, reading routes
// and posts from the app's content cache.
func (a *App) Generator(outDir string) *feed.Generator {
	g := &feed.Generator{
		Site:      a.Config.FeedSite(a.now()),
		Rules:     a.rules,
		OutputDir: outDir,
		Routes:    a.Content.Routes,
		Posts:     a.Content.Posts,
		Now:       a.now,
		Logger:    a.Logger,
	}
	src := filepath.Join(a.Config.StaticDir, a.Config.SocialImage)
	if _, err := os.Stat(src); err == nil {
		g.IconSource = src
	}
	return g
}

// handleSitemap serves the generated sitemap from the output directory,
// rendering it on the fly when no build has run.
func (a *App) handleSitemap(c echo.Context) error {
	if ok, err := a.serveGenerated(c, feed.SitemapFile, contentTypeSitemap); ok || err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}
	doc, err := feed.Sitemap(a.Config.FeedSite(a.now()), reg.Routes, reg.Posts, a.rules, a.now())
	if err != nil {
		return err
	}
	return renderXML(c, contentTypeSitemap, doc)
}

// handleRSS is handleSitemap for rss.xml.
func (a *App) handleRSS(c echo.Context) error {
	if ok, err := a.serveGenerated(c, feed.RSSFile, contentTypeRSS); ok || err != nil {
		return err
	}
	reg, err := a.registry()
	if err != nil {
		return err
	}
	doc, err := feed.RSS(a.Config.FeedSite(a.now()), reg.Posts, a.now())
	if err != nil {
		return err
	}
	return renderXML(c, contentTypeRSS, doc)
}

// handleFeedIcon serves the icon written by the generator, which rss.xml
// names as its channel image.
func (a *App) handleFeedIcon(c echo.Context) error {
	path := filepath.Join(a.Config.OutputDir, feed.IconFile)
	if _, err := os.Stat(path); err != nil {
		return echo.ErrNotFound
	}
	return c.File(path)
}

func (a *App) serveGenerated(c echo.Context, name, contentType string) (bool, error) {
	doc, err := os.ReadFile(filepath.Join(a.Config.OutputDir, name))
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		a.Logger.Warn("read generated feed", "file", name, "error", err)
		return false, nil
	}
	return true, renderXML(c, contentType, doc)
}
