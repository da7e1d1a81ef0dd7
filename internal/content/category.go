package content

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/brief"
	"github.com/starford/folio/internal/meta"
)

// Category config keys with meaning to the builder.
const (
	KeyListed        = "listed"
	KeyBrief         = "brief"
	KeySubcategories = "subcategories"
	KeyDocuments     = "documents"
)

// Category is one directory of the source tree.
type Category struct {
	Path          string
	Config        *meta.Map
	Subcategories *orderedmap.OrderedMap[string, *Category]
	Documents     *orderedmap.OrderedMap[string, *Document]
}

func newCategory(path string, cfg *meta.Map) *Category {
	return &Category{
		Path:          path,
		Config:        cfg,
		Subcategories: orderedmap.New[string, *Category](),
		Documents:     orderedmap.New[string, *Document](),
	}
}

// Listed reports whether the category appears in listings.
func (c *Category) Listed() bool {
	b, _, _ := c.Config.Bool(KeyListed)
	return b
}

// Brief reports whether the category ships a brief.html summary.
func (c *Category) Brief() bool {
	b, _, _ := c.Config.Bool(KeyBrief)
	return b
}

// ParseTree parses the root of the documents tree. Unlike subcategories, a
// root whose config cannot be read fails the whole parse. Root subcategories
// with a reserved name are dropped with a warning.
func (p *Parser) ParseTree(dir string) (*Category, error) {
	c, err := p.ParseCategory(dir)
	if err != nil {
		return nil, fmt.Errorf("parse documents root: %w", err)
	}
	for _, name := range p.reserved {
		if _, ok := c.Subcategories.Delete(name); ok {
			p.logger.Warn("subcategory dropped",
				slog.String("path", filepath.Join(dir, name)),
				slog.String("error", "name is reserved for build output"))
		}
	}
	return c, nil
}

// ParseCategory reads the config of dir and then every entry below it in
// lexical order. A subcategory that fails to parse is dropped along with its
// whole subtree; a document that fails to parse or is not visible is dropped
// alone. Both failures are logged and never reach the caller. In a brief
// category, brief.md is the summary source rather than a document.
func (p *Parser) ParseCategory(dir string) (*Category, error) {
	cfg, err := readConfig(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperr.WithPath(dir, fmt.Errorf("%w: %v", apperr.ErrConfig, err))
	}

	c := newCategory(dir, cfg)
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, hiddenPrefix) {
			continue
		}
		path := filepath.Join(dir, name)

		switch {
		case e.IsDir():
			sub, err := p.ParseCategory(path)
			if err != nil {
				p.logger.Warn("subcategory dropped",
					slog.String("path", path),
					slog.String("error", err.Error()))
				continue
			}
			c.Subcategories.Set(name, sub)

		case name == brief.MarkdownFile && c.Brief():
			continue

		case filepath.Ext(name) == DocumentExt:
			doc, err := p.ParseDocument(path)
			if err != nil {
				p.logger.Warn("document dropped",
					slog.String("path", path),
					slog.String("error", err.Error()))
				continue
			}
			stem := strings.TrimSuffix(name, DocumentExt)
			if stem+".html" == ListingPage {
				p.logger.Warn("document dropped",
					slog.String("path", path),
					slog.String("error", "name collides with the listing page"))
				continue
			}
			if !doc.Visible {
				p.logger.Debug("document hidden", slog.String("path", path))
				continue
			}
			c.Documents.Set(stem, doc)
		}
	}
	return c, nil
}

// readConfig merges dir/config.yaml over the listed/brief defaults. An empty
// file is an empty config; a missing or malformed file is an error.
func readConfig(dir string) (*meta.Map, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.WithPath(path, fmt.Errorf("%w: %v", apperr.ErrConfig, err))
	}

	cfg, err := decodeConfig(data)
	if err != nil {
		return nil, apperr.WithPath(path, fmt.Errorf("%w: %v", apperr.ErrConfig, err))
	}
	return cfg, nil
}

func decodeConfig(data []byte) (*meta.Map, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	parsed, err := meta.FromNode(&node)
	if err != nil {
		return nil, err
	}

	cfg := meta.New()
	cfg.Set(KeyListed, true)
	cfg.Set(KeyBrief, false)
	cfg.Merge(parsed)

	var errs []error
	for _, k := range []string{KeyListed, KeyBrief} {
		if _, _, err := cfg.Bool(k); err != nil {
			errs = append(errs, err)
		}
	}
	for _, k := range []string{KeySubcategories, KeyDocuments} {
		if cfg.Has(k) {
			errs = append(errs, fmt.Errorf("%q is reserved", k))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}
