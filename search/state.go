// Package search filters the post list by free text, category and tag, and
// maps the active filter state to and from the search page URL.
package search

import (
	"net/url"
)

// Query string parameter names.
const (
	ParamQuery    = "q"
	ParamCategory = "category"
	ParamTag      = "tag"
)

// State is the active filter state of the search page. Empty fields mean
// "no filter" on that dimension.
type State struct {
	Query    string
	Category string
	Tag      string
}

// IsZero reports whether no filter is active.
func (s State) IsZero() bool {
	return s == State{}
}

// Parse reads the state from query values. Unrelated parameters are
// ignored. A category that knownCategory rejects is dropped rather than
// reported; a nil knownCategory accepts any value.
func Parse(values url.Values, knownCategory func(string) bool) State {
	s := State{
		Query:    values.Get(ParamQuery),
		Category: values.Get(ParamCategory),
		Tag:      values.Get(ParamTag),
	}
	if s.Category != "" && knownCategory != nil && !knownCategory(s.Category) {
		s.Category = ""
	}
	return s
}

// Values returns the state as query values, omitting empty fields.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set(ParamQuery, s.Query)
	}
	if s.Category != "" {
		v.Set(ParamCategory, s.Category)
	}
	if s.Tag != "" {
		v.Set(ParamTag, s.Tag)
	}
	return v
}

// Encode returns the query string for s, "" when no filter is active.
func (s State) Encode() string {
	return s.Values().Encode()
}

// Sync returns a copy of u whose query string holds exactly s. Any other
// query parameters on u are dropped.
func Sync(u *url.URL, s State) *url.URL {
	out := *u
	out.RawQuery = s.Encode()
	out.ForceQuery = false
	return &out
}

// Href is the relative search page link for s.
func Href(path string, s State) string {
	return Sync(&url.URL{Path: path}, s).String()
}
