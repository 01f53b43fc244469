// Package stackcraft serves the StackCraft engineering playbook site: the
// landing and information pages, the blog, the search page, the sitemap and
// RSS feed, and the newsletter signup endpoint.
//
// Pages are rendered through the ViewFuncs components, so a deployment can
// swap any page shell without touching the handlers. The same App renders
// the static export used by the build command.
package stackcraft

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/stackcraft/stackcraft/content"
	"github.com/stackcraft/stackcraft/feed"
	"github.com/stackcraft/stackcraft/views"
)

var errNoContent = errors.New("stackcraft: no content registry")

// ViewFuncs holds the components the handlers render. DefaultViews returns
// the embedded templates.
type ViewFuncs struct {
	Home          func(views.HomePage) templ.Component
	Blog          func(views.BlogPage) templ.Component
	Post          func(views.PostPage) templ.Component
	Search        func(views.SearchPage) templ.Component
	SearchResults func(views.SearchPage) templ.Component
	Info          func(views.InfoPage) templ.Component
	Newsletter    func(views.NewsletterResult) templ.Component
	NotFound      func(views.Base) templ.Component
	ServerError   func(views.Base) templ.Component
}

// DefaultViews returns the page shells shipped with the site.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:          views.Home,
		Blog:          views.Blog,
		Post:          views.Post,
		Search:        views.Search,
		SearchResults: views.SearchResults,
		Info:          views.Info,
		Newsletter:    views.Newsletter,
		NotFound:      views.NotFound,
		ServerError:   views.ServerError,
	}
}

// App is the central application. It wires together the content cache,
// handlers, middleware, and page templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *ContentCache
	Views   ViewFuncs
	Logger  *slog.Logger

	rules         feed.Rules
	limiter       *RateLimiter
	customRoutes  []func(*App)
	contentLoader func() (*content.Registry, error)
	contentTTL    time.Duration
	now           func() time.Time
}

// New creates an App serving reg. Routes are registered from reg's route
// manifest; the app is ready to serve through Handler once New returns.
func New(cfg SiteConfig, reg *content.Registry, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  DefaultViews(),
		Logger: slog.Default(),
		now:    time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	a.Content = NewContentCache(reg, a.contentLoader, a.contentTTL)

	rules, err := a.Config.Rules()
	if err != nil {
		a.Logger.Warn("invalid sitemap rules, using defaults", "error", err)
		rules = feed.DefaultRules()
	}
	a.rules = rules

	a.limiter = NewRateLimiter(a.Config.NewsletterMax, a.Config.NewsletterWindow)

	a.setupMiddleware()
	a.setupRoutes(reg)

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a
}

// Handler returns the app as an http.Handler.
func (a *App) Handler() http.Handler {
	return a.Echo
}

// Start listens on Config.Addr and blocks until the server stops.
func (a *App) Start() error {
	a.Logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases background resources. Call this when the app is shutting down.
func (a *App) Close() error {
	a.limiter.Stop()
	return nil
}

func (a *App) setupRoutes(reg *content.Registry) {
	e := a.Echo

	assets := a.staticFS()
	e.StaticFS("/public", assets)
	e.FileFS("/favicon.svg", "favicon.svg", assets)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss.xml", a.handleRSS)
	e.GET("/"+feed.IconFile, a.handleFeedIcon)
	e.POST("/newsletter", a.handleNewsletter)

	routes := content.Routes()
	if reg != nil {
		routes = reg.Routes
	}
	for _, r := range routes {
		h := a.pageHandler(r)
		if h == nil {
			a.Logger.Warn("no handler for route", "path", r.Path, "name", r.Name)
			continue
		}
		e.GET(r.Path, h)
	}
}

// pageHandler maps a manifest entry to its handler.
func (a *App) pageHandler(r content.Route) echo.HandlerFunc {
	switch r.Name {
	case "home":
		return a.handleHome
	case "blog":
		return a.handleBlog
	case "post":
		return a.handlePost
	case "search":
		return a.handleSearch
	case "notfound":
		return a.handleNotFound
	case "":
		return nil
	default:
		return a.handleInfo(r)
	}
}

// staticFS returns the static directory when present on disk, else the
// embedded assets.
func (a *App) staticFS() fs.FS {
	if info, err := os.Stat(a.Config.StaticDir); err == nil && info.IsDir() {
		return os.DirFS(a.Config.StaticDir)
	}
	sub, err := fs.Sub(StaticAssets, "static")
	if err != nil {
		panic(fmt.Sprintf("stackcraft: embedded static assets: %v", err))
	}
	return sub
}
