package stackcraft

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/suite"

	"github.com/stackcraft/stackcraft/content"
	"github.com/stackcraft/stackcraft/feed"
)

type AppTestSuite struct {
	suite.Suite

	app    *App
	reg    *content.Registry
	outDir string
	logs   bytes.Buffer
}

func (s *AppTestSuite) SetupTest() {
	reg, err := content.Load()
	s.Require().NoError(err)
	s.reg = reg
	s.outDir = s.T().TempDir()
	s.logs.Reset()

	s.app = New(SiteConfig{
		OutputDir:     s.outDir,
		StaticDir:     filepath.Join(s.T().TempDir(), "missing"),
		NewsletterMax: 10,
	}, reg,
		WithLogger(slog.New(slog.NewTextHandler(&s.logs, nil))),
		WithClock(func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }),
	)
}

func (s *AppTestSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) do(method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.app.Handler().ServeHTTP(rec, req)
	return rec
}

func (s *AppTestSuite) get(target string) *httptest.ResponseRecorder {
	return s.do(http.MethodGet, target, nil, nil)
}

func (s *AppTestSuite) TestManifestPagesRender() {
	for _, p := range feed.StaticPaths(s.reg.Routes) {
		rec := s.get(p)
		s.Equal(http.StatusOK, rec.Code, "GET %s", p)
		s.Contains(rec.Header().Get(echo.HeaderContentType), "text/html", "GET %s", p)
		s.Contains(rec.Body.String(), "<title>", "GET %s", p)
	}
}

func (s *AppTestSuite) TestHomeHasWebsiteJSONLD() {
	rec := s.get("/")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"@type":"WebSite"`)
	s.Contains(rec.Body.String(), "Building a Complete Kubernetes DevOps Pipeline")
}

func (s *AppTestSuite) TestPostPage() {
	rec := s.get("/blog/kubernetes-devops-pipeline")
	s.Require().Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "<h1>Building a Complete Kubernetes DevOps Pipeline</h1>")
	s.Contains(body, `"@type":"TechArticle"`)
	s.Contains(body, `<link rel="canonical" href="https://www.stackcraft.io/blog/kubernetes-devops-pipeline">`)
	s.NotContains(body, "Related playbooks", "no other post shares its category or tags")
}

func (s *AppTestSuite) TestPostPageRelated() {
	rec := s.get("/blog/microservices-architecture-patterns")
	s.Require().Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "Related playbooks")
	s.Contains(body, `href="/blog/aws-cloud-architecture-best-practices"`)
}

func (s *AppTestSuite) TestUnknownPostIs404() {
	rec := s.get("/blog/does-not-exist")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "404")
	s.Contains(rec.Body.String(), `<meta name="robots" content="noindex">`)
}

func (s *AppTestSuite) TestCatchAllIs404() {
	rec := s.get("/no/such/page")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *AppTestSuite) TestTrailingSlashRedirects() {
	rec := s.get("/about/")
	s.Equal(http.StatusMovedPermanently, rec.Code)
	s.Equal("/about", rec.Header().Get(echo.HeaderLocation))
}

func (s *AppTestSuite) TestApexHostRedirectsToWWW() {
	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Host = "stackcraft.io"
	rec := httptest.NewRecorder()
	s.app.Handler().ServeHTTP(rec, req)
	s.Equal(http.StatusMovedPermanently, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderLocation), "://www.stackcraft.io/blog")
}

func (s *AppTestSuite) TestBlogCategoryFilter() {
	rec := s.get("/blog?category=ai")
	s.Require().Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "LLM Integration Patterns for Production Systems")
	s.NotContains(body, "Building a Complete Kubernetes DevOps Pipeline")

	rec = s.get("/blog?category=bogus")
	s.Contains(rec.Body.String(), "Building a Complete Kubernetes DevOps Pipeline")
}

func (s *AppTestSuite) TestSearchFullPage() {
	rec := s.get("/search?q=kubernetes")
	s.Require().Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "<html")
	s.Contains(body, "1 result for")
	s.Contains(body, "Building a Complete Kubernetes DevOps Pipeline")
	s.NotContains(body, "LLM Integration Patterns for Production Systems")
	s.Empty(rec.Header().Get("HX-Replace-Url"))
}

func (s *AppTestSuite) TestSearchHTMXReplacesURL() {
	header := http.Header{"Hx-Request": {"true"}}
	rec := s.do(http.MethodGet, "/search?tag=RAG&category=ai&utm_source=x", nil, header)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("/search?category=ai&tag=RAG", rec.Header().Get("HX-Replace-Url"))

	body := rec.Body.String()
	s.NotContains(body, "<html")
	s.Contains(body, "LLM Integration Patterns for Production Systems")
	s.Contains(body, "1 result")
}

func (s *AppTestSuite) TestSearchIgnoresUnknownCategory() {
	header := http.Header{"Hx-Request": {"true"}}
	rec := s.do(http.MethodGet, "/search?category=nope", nil, header)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("/search", rec.Header().Get("HX-Replace-Url"))
	s.Contains(rec.Body.String(), "8 results")
}

func (s *AppTestSuite) TestSearchNoResults() {
	rec := s.get("/search?q=zzzz-nothing")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "No results found")
}

func (s *AppTestSuite) TestSitemapOnTheFly() {
	rec := s.get("/sitemap.xml")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(contentTypeSitemap, rec.Header().Get(echo.HeaderContentType))
	body := rec.Body.String()
	s.True(strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	s.Contains(body, "<loc>https://www.stackcraft.io/</loc>")
	s.Contains(body, "<loc>https://www.stackcraft.io/blog/llm-integration-patterns</loc>")
	s.NotContains(body, ":slug")
	s.Equal(len(feed.StaticPaths(s.reg.Routes))+len(s.reg.Posts), strings.Count(body, "<url>"))
}

func (s *AppTestSuite) TestRSSOnTheFly() {
	rec := s.get("/rss.xml")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(contentTypeRSS, rec.Header().Get(echo.HeaderContentType))

	parsed, err := gofeed.NewParser().ParseString(rec.Body.String())
	s.Require().NoError(err)
	s.Equal("StackCraft Engineering Playbooks", parsed.Title)
	s.Equal("Copyright 2026 StackCraft. All rights reserved.", parsed.Copyright)
	s.Len(parsed.Items, len(s.reg.Posts))
	s.Equal("https://www.stackcraft.io/blog/"+s.reg.Posts[0].Slug, parsed.Items[0].Link)
}

func (s *AppTestSuite) TestFeedsServedFromOutputDir() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.outDir, feed.RSSFile), []byte("<rss>built</rss>"), 0o644))
	rec := s.get("/rss.xml")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("<rss>built</rss>", rec.Body.String())
}

func (s *AppTestSuite) TestRobots() {
	rec := s.get("/robots.txt")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Sitemap: https://www.stackcraft.io/sitemap.xml")
	s.Equal("public, max-age=86400", rec.Header().Get("Cache-Control"))
}

func (s *AppTestSuite) TestEmbeddedStaticAssets() {
	rec := s.get("/public/site.css")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))

	rec = s.get("/favicon.svg")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentType), "image/svg+xml")
	s.Contains(rec.Body.String(), "<svg")
}

func (s *AppTestSuite) postNewsletter(email string, htmx bool) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}}
	header := http.Header{echo.HeaderContentType: {echo.MIMEApplicationForm}}
	if htmx {
		header.Set("HX-Request", "true")
	}
	return s.do(http.MethodPost, "/newsletter", strings.NewReader(form.Encode()), header)
}

func (s *AppTestSuite) TestNewsletter() {
	rec := s.postNewsletter("  dev@example.com ", false)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "dev@example.com is on the list")
	s.Equal("no-store", rec.Header().Get("Cache-Control"))
	s.NotContains(s.logs.String(), "dev@example.com")
}

func (s *AppTestSuite) TestNewsletterInvalid() {
	tests := []struct {
		email string
		want  string
	}{
		{"", "Please enter your email address"},
		{"not-an-email", "Please enter a valid email address"},
		{"Dev <dev@example.com>", "Please enter a valid email address"},
		{"dev@localhost", "Please enter a valid email address"},
		{strings.Repeat("a", 250) + "@example.com", "Email must be less than 255 characters"},
	}
	for _, tt := range tests {
		rec := s.postNewsletter(tt.email, false)
		s.Equal(http.StatusUnprocessableEntity, rec.Code, "email %q", tt.email)
		s.Contains(rec.Body.String(), tt.want, "email %q", tt.email)
	}

	rec := s.postNewsletter("nope", true)
	s.Equal(http.StatusOK, rec.Code, "htmx responses must be swappable")
	s.Contains(rec.Body.String(), `role="alert"`)
}

func (s *AppTestSuite) TestNewsletterRateLimited() {
	for i := 0; i < s.app.Config.NewsletterMax; i++ {
		s.Equal(http.StatusOK, s.postNewsletter("dev@example.com", false).Code)
	}
	rec := s.postNewsletter("late@example.com", false)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Contains(rec.Body.String(), "Too many attempts")
}

func (s *AppTestSuite) TestCustomRoutes() {
	app := New(SiteConfig{}, s.reg, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/healthz", func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		})
	}))
	defer app.Close()

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", rec.Body.String())
}

func (s *AppTestSuite) TestContentReload() {
	loads := 0
	app := New(SiteConfig{}, nil, WithContentLoader(func() (*content.Registry, error) {
		loads++
		return s.reg, nil
	}, 0))
	defer app.Close()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))
		s.Equal(http.StatusOK, rec.Code)
	}
	s.Equal(1, loads)

	app.Content.Invalidate()
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(2, loads)
}
