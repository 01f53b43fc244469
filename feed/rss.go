package feed

import (
	"encoding/xml"
	"time"

	"github.com/stackcraft/stackcraft/content"
)

const (
	nsAtom    = "http://www.w3.org/2005/Atom"
	nsContent = "http://purl.org/rss/1.0/modules/content/"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsMedia   = "http://search.yahoo.com/mrss/"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Content string     `xml:"xmlns:content,attr"`
	DC      string     `xml:"xmlns:dc,attr"`
	Media   string     `xml:"xmlns:media,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string    `xml:"title"`
	Link           string    `xml:"link"`
	Description    string    `xml:"description"`
	Language       string    `xml:"language,omitempty"`
	LastBuildDate  string    `xml:"lastBuildDate"`
	PubDate        string    `xml:"pubDate"`
	TTL            int       `xml:"ttl,omitempty"`
	AtomLink       atomLink  `xml:"atom:link"`
	Image          *rssImage `xml:"image,omitempty"`
	ManagingEditor string    `xml:"managingEditor,omitempty"`
	WebMaster      string    `xml:"webMaster,omitempty"`
	Copyright      string    `xml:"copyright,omitempty"`
	Categories     []string  `xml:"category"`
	Docs           string    `xml:"docs,omitempty"`
	Generator      string    `xml:"generator,omitempty"`
	Items          []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL    string `xml:"url"`
	Title  string `xml:"title"`
	Link   string `xml:"link"`
	Width  int    `xml:"width,omitempty"`
	Height int    `xml:"height,omitempty"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	GUID        rssGUID       `xml:"guid"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate"`
	Creator     string        `xml:"dc:creator,omitempty"`
	Categories  []string      `xml:"category"`
	Media       *mediaContent `xml:"media:content,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type mediaContent struct {
	URL    string `xml:"url,attr"`
	Medium string `xml:"medium,attr"`
}

// RSS renders rss.xml. Items keep the order of posts; buildTime fills
// lastBuildDate and the channel pubDate.
func RSS(site Site, posts []content.Post, buildTime time.Time) ([]byte, error) {
	built := formatRFC822(buildTime)

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := site.PostURL(p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			Description: p.Description,
			PubDate:     formatRFC822(p.PublishedAt),
			Creator:     site.Creator,
			Categories:  p.Tags,
		}
		if site.SocialImage != "" {
			item.Media = &mediaContent{URL: site.SocialImage, Medium: "image"}
		}
		items = append(items, item)
	}

	channel := rssChannel{
		Title:          site.Title,
		Link:           site.URL,
		Description:    site.Description,
		Language:       site.Language,
		LastBuildDate:  built,
		PubDate:        built,
		TTL:            site.TTL,
		AtomLink:       atomLink{Href: site.URLFor("rss.xml"), Rel: "self", Type: "application/rss+xml"},
		ManagingEditor: site.Editor,
		WebMaster:      site.Editor,
		Copyright:      site.Copyright,
		Categories:     site.Categories,
		Docs:           site.Docs,
		Generator:      site.Generator,
		Items:          items,
	}
	switch {
	case site.Icon != nil:
		channel.Image = &rssImage{
			URL:    site.Icon.URL,
			Title:  site.Name,
			Link:   site.URL,
			Width:  site.Icon.Width,
			Height: site.Icon.Height,
		}
	case site.SocialImage != "":
		channel.Image = &rssImage{URL: site.SocialImage, Title: site.Name, Link: site.URL}
	}

	return encodeXML(rssXML{
		Version: "2.0",
		Atom:    nsAtom,
		Content: nsContent,
		DC:      nsDC,
		Media:   nsMedia,
		Channel: channel,
	})
}

func formatRFC822(t time.Time) string {
	return t.UTC().Format(time.RFC1123Z)
}
