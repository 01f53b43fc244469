package feed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/gofeed"
)

func TestRSSParses(t *testing.T) {
	built := time.Date(2026, 2, 1, 12, 30, 0, 0, time.UTC)
	data, err := RSS(testSite(), testPosts(), built)
	if err != nil {
		t.Fatalf("RSS failed: %v", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		t.Fatalf("rss is not parseable: %v\n%s", err, data)
	}

	if diff := cmp.Diff("Example Playbooks", feed.Title); diff != "" {
		t.Errorf("title mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("en-us", feed.Language); diff != "" {
		t.Errorf("language mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Technology", "Software Engineering", "Programming"}, feed.Categories); diff != "" {
		t.Errorf("channel categories mismatch (-want +got):\n%s", diff)
	}
	if feed.Image == nil || feed.Image.URL != "https://www.example.com/og-image.png" {
		t.Errorf("channel image = %+v", feed.Image)
	}
	if feed.Copyright != "Copyright 2026 Example." {
		t.Errorf("copyright = %q", feed.Copyright)
	}
	if feed.Generator != "Example RSS Generator" {
		t.Errorf("generator = %q", feed.Generator)
	}
	if feed.UpdatedParsed == nil || !feed.UpdatedParsed.Equal(built) {
		t.Errorf("lastBuildDate = %v, want %v", feed.UpdatedParsed, built)
	}

	var titles []string
	for _, it := range feed.Items {
		titles = append(titles, it.Title)
	}
	if diff := cmp.Diff([]string{"Second <Post> & more", "First Post"}, titles); diff != "" {
		t.Errorf("item order mismatch (-want +got):\n%s", diff)
	}

	first := feed.Items[0]
	if first.Link != "https://www.example.com/blog/second-post" {
		t.Errorf("link = %q", first.Link)
	}
	if first.GUID != first.Link {
		t.Errorf("guid = %q, want link", first.GUID)
	}
	if diff := cmp.Diff([]string{"Kubernetes", "CI/CD"}, first.Categories); diff != "" {
		t.Errorf("item categories mismatch (-want +got):\n%s", diff)
	}
	if first.DublinCoreExt == nil || len(first.DublinCoreExt.Creator) != 1 || first.DublinCoreExt.Creator[0] != "Example Team" {
		t.Errorf("dc:creator = %+v", first.DublinCoreExt)
	}
	media := first.Extensions["media"]["content"]
	if len(media) != 1 || media[0].Attrs["url"] != "https://www.example.com/og-image.png" {
		t.Errorf("media:content = %+v", media)
	}
	if first.PublishedParsed == nil || !first.PublishedParsed.Equal(time.Date(2026, 1, 4, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("pubDate = %v", first.PublishedParsed)
	}
}

func TestRSSRawFields(t *testing.T) {
	data, err := RSS(testSite(), testPosts(), time.Date(2026, 2, 1, 12, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RSS failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom"`,
		`<lastBuildDate>Sun, 01 Feb 2026 12:30:00 +0000</lastBuildDate>`,
		`<ttl>60</ttl>`,
		`<atom:link href="https://www.example.com/rss.xml" rel="self" type="application/rss+xml"></atom:link>`,
		`<guid isPermaLink="true">https://www.example.com/blog/first-post</guid>`,
		// 23:30 EST is the next day in UTC.
		`<pubDate>Mon, 29 Dec 2025 04:30:00 +0000</pubDate>`,
		`<title>Second &lt;Post&gt; &amp; more</title>`,
		`<managingEditor>hello@example.com (Example Team)</managingEditor>`,
		`<webMaster>hello@example.com (Example Team)</webMaster>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("rss missing %q", want)
		}
	}
}

func TestRSSDeterministic(t *testing.T) {
	built := time.Date(2026, 2, 1, 12, 30, 0, 0, time.UTC)
	a, err := RSS(testSite(), testPosts(), built)
	if err != nil {
		t.Fatalf("RSS failed: %v", err)
	}
	b, err := RSS(testSite(), testPosts(), built)
	if err != nil {
		t.Fatalf("RSS failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("rss output differs between runs")
	}
}

func TestRSSEmpty(t *testing.T) {
	site := testSite()
	site.SocialImage = ""
	data, err := RSS(site, nil, time.Now())
	if err != nil {
		t.Fatalf("RSS failed: %v", err)
	}
	feed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		t.Fatalf("rss is not parseable: %v", err)
	}
	if len(feed.Items) != 0 {
		t.Errorf("got %d items, want 0", len(feed.Items))
	}
	if feed.Image != nil {
		t.Errorf("expected no channel image, got %+v", feed.Image)
	}
}

func TestRSSChannelImage(t *testing.T) {
	built := time.Date(2026, 2, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name       string
		icon       *Icon
		wantURL    string
		wantWidth  string
		wantHeight string
	}{
		{
			name:       "feed icon",
			icon:       &Icon{URL: "https://www.example.com/feed-icon.jpg", Width: 144, Height: 72},
			wantURL:    "https://www.example.com/feed-icon.jpg",
			wantWidth:  "<width>144</width>",
			wantHeight: "<height>72</height>",
		},
		{
			name:    "social image fallback",
			wantURL: "https://www.example.com/og-image.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := testSite()
			site.Icon = tt.icon
			data, err := RSS(site, testPosts(), built)
			if err != nil {
				t.Fatalf("RSS failed: %v", err)
			}
			parsed, err := gofeed.NewParser().ParseString(string(data))
			if err != nil {
				t.Fatalf("rss is not parseable: %v", err)
			}
			if parsed.Image == nil || parsed.Image.URL != tt.wantURL {
				t.Errorf("channel image = %+v, want url %q", parsed.Image, tt.wantURL)
			}
			s := string(data)
			if tt.wantWidth == "" {
				if strings.Contains(s, "<width>") || strings.Contains(s, "<height>") {
					t.Errorf("fallback image should carry no size")
				}
				return
			}
			for _, want := range []string{tt.wantWidth, tt.wantHeight} {
				if !strings.Contains(s, want) {
					t.Errorf("rss missing %q", want)
				}
			}
		})
	}
}
