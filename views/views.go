// Package views renders the site's page shells. Pages are html/template
// files embedded in the binary and exposed as templ components, so the
// HTTP layer renders them the same way it renders any other component.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/stackcraft/stackcraft/markdown"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"formatDate": FormatDate,
	"tagClass":   TagClass,
	"joinTags":   JoinTags,
	"markdown": func(src string) (template.HTML, error) {
		out, err := markdown.HTML(src)
		if err != nil {
			return "", err
		}
		return template.HTML(out), nil
	},
}

var (
	shared = template.Must(template.New("shared").Funcs(funcs).ParseFS(files, "templates/partials.html"))
	pages  = map[string]*template.Template{}
)

func init() {
	for _, name := range []string{"home", "blog", "post", "search", "info", "notfound", "servererror"} {
		t := template.Must(shared.Clone())
		pages[name] = template.Must(t.ParseFS(files, "templates/layout.html", "templates/"+name+".html"))
	}
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", data)
	})
}

func partial(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return shared.ExecuteTemplate(w, name, data)
	})
}

// Page components.
func Home(p HomePage) templ.Component { return page("home", p) }

func Blog(p BlogPage) templ.Component { return page("blog", p) }

func Post(p PostPage) templ.Component { return page("post", p) }

func Search(p SearchPage) templ.Component { return page("search", p) }

func Info(p InfoPage) templ.Component { return page("info", p) }

func NotFound(b Base) templ.Component { return page("notfound", b) }

func ServerError(b Base) templ.Component { return page("servererror", b) }

// SearchResults renders only the result list, for htmx swaps.
func SearchResults(p SearchPage) templ.Component { return partial("search-results", p) }

// Newsletter renders the signup form's response fragment.
func Newsletter(r NewsletterResult) templ.Component {
	return partial("newsletter-result", r)
}
