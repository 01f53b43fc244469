package stackcraft

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stackcraft/stackcraft/content"
	"github.com/stackcraft/stackcraft/search"
	"github.com/stackcraft/stackcraft/views"
)

// navRoutes are the header links, in display order.
var navRoutes = []struct{ path, label string }{
	{"/playbooks", "Playbooks"},
	{"/blog", "Blog"},
	{"/platform", "Platform"},
	{"/community", "Community"},
	{"/search", "Search"},
}

// relatedLimit is how many related posts a post page shows.
const relatedLimit = search.DefaultRelatedLimit

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// base builds the shared page model for the request path.
func (a *App) base(c echo.Context, title, description string) views.Base {
	reqPath := c.Request().URL.Path
	fullTitle := a.Config.Name
	if title != "" && title != a.Config.Name {
		fullTitle = title + " | " + a.Config.Name
	}
	if description == "" {
		description = a.Config.Description
	}

	nav := make([]views.NavLink, 0, len(navRoutes))
	for _, n := range navRoutes {
		nav = append(nav, views.NavLink{
			Href:   n.path,
			Label:  n.label,
			Active: reqPath == n.path || strings.HasPrefix(reqPath, n.path+"/"),
		})
	}

	return views.Base{
		Site: a.Config.viewSite(a.now()),
		Meta: views.Meta{
			Title:       fullTitle,
			Description: description,
			URL:         a.Config.URLFor(reqPath),
			OGType:      "website",
			Image:       a.Config.SocialImageURL(),
		},
		Nav: nav,
	}
}

func postCard(reg *content.Registry, p content.Post) views.PostCard {
	cat, _ := reg.CategoryByID(p.Category)
	return views.PostCard{Post: p, Category: cat, Href: "/blog/" + p.Slug}
}

func postCards(reg *content.Registry, posts []content.Post) []views.PostCard {
	cards := make([]views.PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, postCard(reg, p))
	}
	return cards
}

func categoryCards(reg *content.Registry) []views.CategoryCard {
	cards := make([]views.CategoryCard, 0, len(reg.Categories))
	for _, c := range reg.Categories {
		cards = append(cards, views.CategoryCard{
			Category: c,
			Count:    len(reg.PostsByCategory(c.ID)),
			Href:     search.Href("/search", search.State{Category: c.ID}),
		})
	}
	return cards
}

// searchFilters builds the toggle links for every category and tag. An
// active value links to the state without it.
func searchFilters(reg *content.Registry, state search.State) (cats, tags []views.FilterLink) {
	for _, c := range reg.Categories {
		next := state
		next.Category = c.ID
		if state.Category == c.ID {
			next.Category = ""
		}
		cats = append(cats, views.FilterLink{
			Label:  c.Name,
			Href:   search.Href("/search", next),
			Active: state.Category == c.ID,
		})
	}
	for _, t := range search.AllTags(reg.Posts) {
		next := state
		next.Tag = t
		if state.Tag == t {
			next.Tag = ""
		}
		tags = append(tags, views.FilterLink{
			Label:  t,
			Href:   search.Href("/search", next),
			Active: state.Tag == t,
		})
	}
	return cats, tags
}

func (a *App) registry() (*content.Registry, error) {
	reg, err := a.Content.Registry()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return reg, nil
}
