package stackcraft

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stackcraft/stackcraft/content"
	"github.com/stackcraft/stackcraft/feed"
	"github.com/stackcraft/stackcraft/markdown"
	"github.com/stackcraft/stackcraft/search"
	"github.com/stackcraft/stackcraft/views"
)

const (
	featuredPosts      = 6
	maxNewsletterEmail = 255
)

func (a *App) handleHome(c echo.Context) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}
	route, _ := reg.RouteByName("home")
	b := a.base(c, a.Config.Name, route.Summary)
	b.Meta.JSONLD = views.WebsiteJSONLD(b.Site)

	featured := reg.Posts
	if len(featured) > featuredPosts {
		featured = featured[:featuredPosts]
	}
	return Render(c, a.Views.Home(views.HomePage{
		Base:       b,
		Featured:   postCards(reg, featured),
		Categories: categoryCards(reg),
	}))
}

func (a *App) handleBlog(c echo.Context) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}
	route, _ := reg.RouteByName("blog")

	active := c.QueryParam("category")
	if !reg.HasCategory(active) {
		active = ""
	}
	posts := reg.Posts
	if active != "" {
		posts = reg.PostsByCategory(active)
	}

	links := []views.FilterLink{{Label: "All", Href: "/blog", Active: active == ""}}
	for _, cat := range reg.Categories {
		links = append(links, views.FilterLink{
			Label:  cat.Name,
			Href:   "/blog?category=" + cat.ID,
			Active: active == cat.ID,
		})
	}

	return Render(c, a.Views.Blog(views.BlogPage{
		Base:       a.base(c, route.DisplayTitle(), route.Summary),
		Posts:      postCards(reg, posts),
		Categories: links,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}
	post, ok := reg.PostBySlug(c.Param("slug"))
	if !ok {
		return echo.ErrNotFound
	}
	cat, _ := reg.CategoryByID(post.Category)
	author, _ := reg.AuthorByName(post.Author)

	b := a.base(c, post.Title, post.Description)
	b.Meta.OGType = "article"
	if post.Image != "" {
		b.Meta.Image = post.Image
	}
	b.Meta.JSONLD = views.ArticleJSONLD(b.Site, post, author)

	return Render(c, a.Views.Post(views.PostPage{
		Base:     b,
		Post:     post,
		Category: cat,
		Author:   author,
		Headings: markdown.Headings(post.Content),
		Related:  postCards(reg, search.Related(reg.Posts, post, relatedLimit)),
	}))
}

// handleSearch renders the filtered post list. htmx requests get only the
// results partial, and the browser URL is replaced (not pushed) with the
// canonical query string for the active filters.
func (a *App) handleSearch(c echo.Context) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}
	route, _ := reg.RouteByName("search")

	state := search.Parse(c.QueryParams(), reg.HasCategory)
	results := postCards(reg, search.Filter(reg.Posts, state))
	cats, tags := searchFilters(reg, state)
	href := search.Href("/search", state)

	b := a.base(c, route.DisplayTitle(), route.Summary)
	b.Meta.NoIndex = !state.IsZero()
	b.Meta.JSONLD = views.SearchResultsJSONLD(b.Site, a.Config.URLFor()+strings.TrimPrefix(href, "/"), results)

	page := views.SearchPage{
		Base:       b,
		State:      state,
		Results:    results,
		Total:      len(results),
		Categories: cats,
		Tags:       tags,
		ClearHref:  "/search",
	}
	if isHTMX(c) {
		c.Response().Header().Set("HX-Replace-Url", href)
		return Render(c, a.Views.SearchResults(page))
	}
	return Render(c, a.Views.Search(page))
}

// handleInfo serves one of the static informational pages.
func (a *App) handleInfo(r content.Route) echo.HandlerFunc {
	return func(c echo.Context) error {
		reg, err := a.registry()
		if err != nil {
			return err
		}
		page := views.InfoPage{
			Base:  a.base(c, r.DisplayTitle(), r.Summary),
			Route: r,
		}
		if r.Name == "playbooks" {
			page.Categories = categoryCards(reg)
		}
		return Render(c, a.Views.Info(page))
	}
}

func (a *App) handleNotFound(c echo.Context) error {
	return echo.ErrNotFound
}

// handleNewsletter validates a signup. Nothing is stored and no mail is
// sent; the response only confirms the address.
func (a *App) handleNewsletter(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	result := views.NewsletterResult{Email: email}
	status := http.StatusOK

	if !a.limiter.Allow(c.RealIP()) {
		result.Error = "Too many attempts. Please try again in a minute."
		status = http.StatusTooManyRequests
	} else if err := validEmail(email); err != nil {
		result.Error = err.Error()
		status = http.StatusUnprocessableEntity
	} else {
		result.OK = true
		domain := email[strings.LastIndexByte(email, '@')+1:]
		a.Logger.Info("newsletter signup accepted", "domain", domain)
	}

	// htmx only swaps successful responses.
	if isHTMX(c) && status == http.StatusUnprocessableEntity {
		status = http.StatusOK
	}
	return RenderStatus(c, status, a.Views.Newsletter(result))
}

func validEmail(email string) error {
	if email == "" {
		return errors.New("Please enter your email address")
	}
	if len(email) > maxNewsletterEmail {
		return fmt.Errorf("Email must be less than %d characters", maxNewsletterEmail)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndexByte(email, '@'):], ".") {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", a.Config.URLFor(feed.SitemapFile))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		b := a.base(c, "Page Not Found", "")
		b.Meta.NoIndex = true
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(b))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "uri", c.Request().RequestURI, "error", err)
		b := a.base(c, "Server Error", "")
		b.Meta.NoIndex = true
		_ = RenderStatus(c, code, a.Views.ServerError(b))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
