package content

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/excerpt"
	"github.com/starford/folio/internal/feed"
	"github.com/starford/folio/internal/frontmatter"
	"github.com/starford/folio/internal/meta"
)

// Metadata keys with meaning to the builder. Every other key is passed
// through to the site index untouched.
const (
	KeyTitle        = "title"
	KeyModification = "modification"
	KeyHiddenUntil  = "hidden_until"
	KeyVisible      = "visible"
	KeyPeek         = "peek"
)

// Document is one source file with a leading metadata block.
type Document struct {
	Path        string
	Meta        *meta.Map
	PublishedAt time.Time
	Visible     bool
	Excerpt     *string
}

// ParseDocument reads the metadata block at the front of path. The title and
// modification keys are required; modification and hidden_until must match
// the parser's timestamp format.
func (p *Parser) ParseDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.WithPath(path, fmt.Errorf("%w: %v", apperr.ErrMetadata, err))
	}
	d, err := p.parseDocument(path, data)
	if err != nil {
		return nil, apperr.WithPath(path, fmt.Errorf("%w: %v", apperr.ErrMetadata, err))
	}
	return d, nil
}

func (p *Parser) parseDocument(path string, data []byte) (*Document, error) {
	node, _, err := frontmatter.Split(data)
	if err != nil {
		return nil, err
	}
	parsed, err := meta.FromNode(node)
	if err != nil {
		return nil, err
	}

	m := meta.New()
	m.Set(KeyVisible, true)
	m.Merge(parsed)

	if _, ok, err := m.Text(KeyTitle); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("missing required key %q", KeyTitle)
	}

	mod, ok, err := m.Text(KeyModification)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing required key %q", KeyModification)
	}
	published, err := p.parseTime(mod)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", KeyModification, mod, err)
	}

	visible, _, err := m.Bool(KeyVisible)
	if err != nil {
		return nil, err
	}
	hidden, ok, err := m.Text(KeyHiddenUntil)
	if err != nil {
		return nil, err
	}
	if ok {
		until, err := p.parseTime(hidden)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", KeyHiddenUntil, hidden, err)
		}
		visible = visible && until.Before(p.now())
	}

	return &Document{
		Path:        path,
		Meta:        m,
		PublishedAt: published,
		Visible:     visible,
	}, nil
}

// Title returns the document title.
func (d *Document) Title() string {
	t, _, _ := d.Meta.Text(KeyTitle)
	return t
}

// AttachExcerpt extracts the preview from converted markup and stores it,
// replacing any earlier excerpt.
func (d *Document) AttachExcerpt(markup string, maxLength int) error {
	s, err := excerpt.Extract(markup, maxLength)
	if err != nil {
		return apperr.WithPath(d.Path, err)
	}
	d.Excerpt = &s
	return nil
}

// IndexEntry returns the metadata with the excerpt under "peek". The peek is
// null when no excerpt could be attached.
func (d *Document) IndexEntry() *meta.Map {
	m := d.Meta.Clone()
	m.Set(KeyPeek, d.Excerpt)
	return m
}

// FeedEntry projects a visible document into a feed entry addressed by the
// given path segments from the tree root. ok is false for hidden documents.
func (d *Document) FeedEntry(domain string, segments []string) (feed.Entry, bool) {
	if !d.Visible {
		return feed.Entry{}, false
	}
	id := strings.Join(segments, "/")
	var desc string
	if d.Excerpt != nil {
		desc = *d.Excerpt
	}
	return feed.Entry{
		Title:       d.Title(),
		Link:        feed.SiteURL(domain) + id + ".html",
		Description: desc,
		PubDate:     d.PublishedAt.Format(time.RFC1123Z),
		Published:   d.PublishedAt,
		ID:          id,
	}, true
}
