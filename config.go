package stackcraft

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/stackcraft/stackcraft/content"
	"github.com/stackcraft/stackcraft/feed"
	"github.com/stackcraft/stackcraft/views"
)

// SiteConfig holds all configuration for a StackCraft site. Field tags are
// the keys used in stackcraft.yaml and, upper-cased with the STACKCRAFT_
// prefix, in the environment.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // brand name (default "StackCraft")
	URL         string `mapstructure:"url"`         // canonical origin (default "https://www.stackcraft.io")
	Tagline     string `mapstructure:"tagline"`     // hero headline
	Description string `mapstructure:"description"` // meta and feed description
	Language    string `mapstructure:"language"`

	FeedTitle      string   `mapstructure:"feed_title"`
	FeedCreator    string   `mapstructure:"feed_creator"` // dc:creator on every item
	FeedEditor     string   `mapstructure:"feed_editor"`  // "mail (Name)"
	FeedTTL        int      `mapstructure:"feed_ttl"`     // minutes
	FeedCategories []string `mapstructure:"feed_categories"`
	Copyright      string   `mapstructure:"copyright"` // default carries the build year

	SocialImage      string `mapstructure:"social_image"` // file under the static dir
	SocialImageTitle string `mapstructure:"social_image_title"`

	Addr      string `mapstructure:"addr"`       // listen address (default ":3000")
	OutputDir string `mapstructure:"output_dir"` // build output (default "dist")
	StaticDir string `mapstructure:"static_dir"` // static assets (default "static")

	NewsletterMax    int           `mapstructure:"newsletter_max"`    // signups per window and IP (default 5)
	NewsletterWindow time.Duration `mapstructure:"newsletter_window"` // default 1m

	// SitemapRules override the built-in priority table, keyed by path.
	SitemapRules map[string]feed.Rule `mapstructure:"sitemap_rules"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "StackCraft"
	}
	if c.URL == "" {
		c.URL = "https://www.stackcraft.io"
	}
	if c.Tagline == "" {
		c.Tagline = "Production-Grade Engineering Playbooks"
	}
	if c.Description == "" {
		c.Description = "Production-grade engineering playbooks covering AI, .NET, Java, DevOps, Cloud, System Architecture, Testing, and API Design. Battle-tested patterns from real engineering teams."
	}
	if c.Language == "" {
		c.Language = "en-us"
	}
	if c.FeedTitle == "" {
		c.FeedTitle = c.Name + " Engineering Playbooks"
	}
	if c.FeedCreator == "" {
		c.FeedCreator = c.Name + " Team"
	}
	if c.FeedEditor == "" {
		c.FeedEditor = "hello@stackcraft.io (" + c.FeedCreator + ")"
	}
	if c.FeedTTL == 0 {
		c.FeedTTL = 60
	}
	if len(c.FeedCategories) == 0 {
		c.FeedCategories = []string{"Technology", "Software Engineering", "Programming"}
	}
	if c.SocialImage == "" {
		c.SocialImage = "og-image.png"
	}
	if c.SocialImageTitle == "" {
		c.SocialImageTitle = c.Name + " - " + c.Tagline
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.NewsletterMax == 0 {
		c.NewsletterMax = 5
	}
	if c.NewsletterWindow == 0 {
		c.NewsletterWindow = time.Minute
	}
}

// Validate applies defaults and reports configuration that cannot work.
func (c *SiteConfig) Validate() error {
	c.setDefaults()
	var errs []error
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("url %q must be absolute", c.URL))
	}
	if _, err := c.Rules(); err != nil {
		errs = append(errs, err)
	}
	if c.NewsletterMax < 0 {
		errs = append(errs, errors.New("newsletter_max must not be negative"))
	}
	return errors.Join(errs...)
}

// Rules returns the sitemap rule table with any configured overrides.
func (c SiteConfig) Rules() (feed.Rules, error) {
	return feed.DefaultRules().Merge(c.SitemapRules)
}

// URLFor returns the absolute URL of a path on the canonical origin.
func (c SiteConfig) URLFor(segments ...string) string {
	return feed.Site{URL: c.URL}.URLFor(segments...)
}

// SocialImageURL is the absolute URL of the shared preview image.
func (c SiteConfig) SocialImageURL() string {
	return c.URLFor("public", path.Clean("/"+c.SocialImage))
}

// FeedSite maps the configuration to the feed generator's metadata. now
// dates the default copyright line.
func (c SiteConfig) FeedSite(now time.Time) feed.Site {
	copyright := c.Copyright
	if copyright == "" {
		copyright = fmt.Sprintf("Copyright %d %s. All rights reserved.", now.Year(), c.Name)
	}
	return feed.Site{
		Name:             c.Name,
		URL:              c.URL,
		Title:            c.FeedTitle,
		Description:      c.Description,
		Language:         c.Language,
		TTL:              c.FeedTTL,
		Editor:           c.FeedEditor,
		Creator:          c.FeedCreator,
		Copyright:        copyright,
		Categories:       c.FeedCategories,
		Generator:        c.Name + " RSS Generator",
		Docs:             "https://www.rssboard.org/rss-specification",
		SocialImage:      c.SocialImageURL(),
		SocialImageTitle: c.SocialImageTitle,
	}
}

func (c SiteConfig) viewSite(now time.Time) views.Site {
	return views.Site{
		Name:        c.Name,
		URL:         c.URL,
		Tagline:     c.Tagline,
		Description: c.Description,
		SocialImage: c.SocialImageURL(),
		Year:        now.Year(),
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets. When it does not
// exist the embedded defaults are served.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithLogger sets the logger for requests and background work.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithViews replaces the page templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithContentLoader makes the app reload its registry with load once the
// cached copy is older than ttl. A zero ttl reloads only after Invalidate.
func WithContentLoader(load func() (*content.Registry, error), ttl time.Duration) Option {
	return func(a *App) {
		a.contentLoader = load
		a.contentTTL = ttl
	}
}

// WithClock overrides time.Now, for builds that need a fixed date.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
