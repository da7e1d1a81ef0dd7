package feed

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func entryAt(title string, ts time.Time) Entry {
	return Entry{
		Title:       title,
		Link:        "https://example.org/posts/" + title + ".html",
		Description: title + " preview ...",
		PubDate:     ts.Format(time.RFC1123Z),
		Published:   ts,
		ID:          "posts/" + title,
	}
}

var testCfg = Config{
	Title:       "Example",
	Domain:      "example.org",
	Description: "Notes & essays",
	Language:    "en",
	Generator:   "folio",
}

func titles(rss *RSS) []string {
	var out []string
	for _, it := range rss.Channel.Items {
		out = append(out, it.Title)
	}
	return out
}

func TestBuild_SortsAscending(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	in := []Entry{entryAt("c", t3), entryAt("a", t1), entryAt("b", t2)}

	got := titles(Build(in, testCfg))
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if in[0].Title != "c" {
		t.Error("input must not be reordered")
	}
}

func TestBuild_StableOnTies(t *testing.T) {
	ts := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)
	in := []Entry{entryAt("first", ts), entryAt("early", ts.Add(-time.Minute)), entryAt("second", ts), entryAt("third", ts)}

	got := titles(Build(in, testCfg))
	if want := []string{"early", "first", "second", "third"}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestRender_ParsesBack(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)
	e := entryAt("hello", t1)
	e.Title = `Fish & "Chips" <deluxe>`
	rss := Build([]Entry{e, entryAt("later", t1.Add(24*time.Hour))}, testCfg)

	var buf bytes.Buffer
	if err := rss.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(out, `<atom:link href="https://example.org/rss.xml" rel="self" type="application/rss+xml"></atom:link>`) {
		t.Errorf("missing self link:\n%s", out)
	}
	if strings.Contains(out, "<deluxe>") || !strings.Contains(out, "Fish &amp; &#34;Chips&#34; &lt;deluxe&gt;") {
		t.Errorf("title not escaped:\n%s", out)
	}

	parsed, err := gofeed.NewParser().ParseString(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.FeedType != "rss" || parsed.Title != "Example" || parsed.Description != "Notes & essays" || parsed.Language != "en" {
		t.Errorf("channel = %q %q %q %q", parsed.FeedType, parsed.Title, parsed.Description, parsed.Language)
	}
	if len(parsed.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(parsed.Items))
	}
	first := parsed.Items[0]
	if !strings.Contains(first.Title, "Fish & ") {
		t.Errorf("title = %q", first.Title)
	}
	if first.GUID != "posts/hello" || first.Link != "https://example.org/posts/hello.html" {
		t.Errorf("guid = %q, link = %q", first.GUID, first.Link)
	}
	if first.PublishedParsed == nil || !first.PublishedParsed.Equal(t1) {
		t.Errorf("published = %v, want %v", first.PublishedParsed, t1)
	}
	if parsed.Items[1].Title != "later" {
		t.Errorf("second title = %q", parsed.Items[1].Title)
	}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Build(nil, testCfg).Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	parsed, err := gofeed.NewParser().ParseString(buf.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.Items) != 0 {
		t.Errorf("items = %d, want 0", len(parsed.Items))
	}
	if !slices.Contains(parsed.Links, "https://example.org/") {
		t.Errorf("links = %v", parsed.Links)
	}
}
