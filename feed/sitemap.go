package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/stackcraft/stackcraft/content"
)

const (
	nsSitemap        = "http://www.sitemaps.org/schemas/sitemap/0.9"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"
	nsImage          = "http://www.google.com/schemas/sitemap-image/1.1"
	sitemapSchemaLoc = "http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"

	postPriority   = 0.8
	postChangeFreq = Monthly
	dateLayout     = "2006-01-02"
)

type sitemapURLSet struct {
	XMLName        xml.Name     `xml:"urlset"`
	XMLNS          string       `xml:"xmlns,attr"`
	XSI            string       `xml:"xmlns:xsi,attr"`
	Image          string       `xml:"xmlns:image,attr"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	URLs           []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string        `xml:"loc"`
	LastMod    string        `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq    `xml:"changefreq,omitempty"`
	Priority   string        `xml:"priority,omitempty"`
	Image      *sitemapImage `xml:"image:image,omitempty"`
}

type sitemapImage struct {
	Loc   string `xml:"image:loc"`
	Title string `xml:"image:title,omitempty"`
}

// StaticPaths returns the indexable paths of routes: parameterized and
// catch-all routes are dropped, duplicates removed, and the result sorted
// with "/" first and the rest ascending.
func StaticPaths(routes []content.Route) []string {
	seen := make(map[string]struct{}, len(routes))
	var paths []string
	for _, r := range routes {
		if !r.Indexable() {
			continue
		}
		if _, ok := seen[r.Path]; ok {
			continue
		}
		seen[r.Path] = struct{}{}
		paths = append(paths, r.Path)
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i] == "/" {
			return paths[j] != "/"
		}
		if paths[j] == "/" {
			return false
		}
		return paths[i] < paths[j]
	})
	return paths
}

// Sitemap renders sitemap.xml. Static routes carry today's date as lastmod;
// posts carry their publish date. Output depends only on the arguments.
func Sitemap(site Site, routes []content.Route, posts []content.Post, rules Rules, today time.Time) ([]byte, error) {
	lastmod := today.Format(dateLayout)

	var urls []sitemapURL
	for _, p := range StaticPaths(routes) {
		rule := rules.Lookup(p)
		u := sitemapURL{
			Loc:        site.URLFor(p),
			LastMod:    lastmod,
			ChangeFreq: rule.ChangeFreq,
			Priority:   formatPriority(rule.Priority),
		}
		if p == "/" && site.SocialImage != "" {
			u.Image = &sitemapImage{Loc: site.SocialImage, Title: site.SocialImageTitle}
		}
		urls = append(urls, u)
	}
	for _, post := range posts {
		urls = append(urls, sitemapURL{
			Loc:        site.PostURL(post.Slug),
			LastMod:    post.PublishedAt.UTC().Format(dateLayout),
			ChangeFreq: postChangeFreq,
			Priority:   formatPriority(postPriority),
		})
	}

	doc := sitemapURLSet{
		XMLNS:          nsSitemap,
		XSI:            nsXSI,
		Image:          nsImage,
		SchemaLocation: sitemapSchemaLoc,
		URLs:           urls,
	}
	return encodeXML(doc)
}

func formatPriority(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// encodeXML marshals v as an indented UTF-8 document with an XML header
// and a trailing newline.
func encodeXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
