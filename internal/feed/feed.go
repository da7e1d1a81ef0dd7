// Package feed assembles and renders the site's RSS 2.0 syndication feed.
package feed

import (
	"encoding/xml"
	"io"
	"slices"
	"time"
)

// Entry is the feed projection of one visible document.
type Entry struct {
	Title       string
	Link        string
	Description string
	PubDate     string
	Published   time.Time
	ID          string
}

// Config holds the channel-level fields.
type Config struct {
	Title       string
	Domain      string
	Description string
	Language    string
	Generator   string
}

// RSS is the root element of the rendered feed.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Atom    string   `xml:"xmlns:atom,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel carries site metadata and the ordered items.
type Channel struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Language    string   `xml:"language,omitempty"`
	Generator   string   `xml:"generator,omitempty"`
	Self        AtomLink `xml:"atom:link"`
	Items       []Item   `xml:"item"`
}

// AtomLink is the self-reference required by feed validators.
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// Item is one rendered entry.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        GUID   `xml:"guid"`
}

// GUID identifies an item independent of its link.
type GUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// SiteURL returns the https root of domain.
func SiteURL(domain string) string {
	return "https://" + domain + "/"
}

// Build sorts entries ascending by publish instant and wraps them in a
// channel. Entries with equal instants keep their relative order. The input
// slice is not modified.
func Build(entries []Entry, cfg Config) *RSS {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return a.Published.Compare(b.Published)
	})

	items := make([]Item, 0, len(sorted))
	for _, e := range sorted {
		items = append(items, Item{
			Title:       e.Title,
			Link:        e.Link,
			Description: e.Description,
			PubDate:     e.PubDate,
			GUID:        GUID{IsPermaLink: "false", Value: e.ID},
		})
	}

	return &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: Channel{
			Title:       cfg.Title,
			Link:        SiteURL(cfg.Domain),
			Description: cfg.Description,
			Language:    cfg.Language,
			Generator:   cfg.Generator,
			Self: AtomLink{
				Href: SiteURL(cfg.Domain) + "rss.xml",
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: items,
		},
	}
}

// Render writes the XML declaration followed by the indented feed.
func (r *RSS) Render(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
