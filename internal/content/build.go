package content

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/starford/folio/internal/brief"
	"github.com/starford/folio/internal/convert"
	"github.com/starford/folio/internal/excerpt"
	"github.com/starford/folio/internal/feed"
	"github.com/starford/folio/internal/meta"
	"github.com/starford/folio/internal/storage"
)

// Templates are the two page shells every category renders through.
type Templates struct {
	Listing  string // copied to <dir>/index.html
	Document string // copied to <dir>/<name>.html
}

// ListingPage is the page emitted for every category.
const ListingPage = "index.html"

// BuildOutputSkeleton lays out the navigable page tree under dir: one
// listing page per category and one document page per document.
func (c *Category) BuildOutputSkeleton(store storage.Provider, dir string, tmpl Templates) error {
	if err := store.MkdirAll(dir); err != nil {
		return err
	}
	if err := store.CopyFile(tmpl.Listing, filepath.Join(dir, ListingPage)); err != nil {
		return err
	}
	for pair := c.Subcategories.Oldest(); pair != nil; pair = pair.Next() {
		if err := pair.Value.BuildOutputSkeleton(store, filepath.Join(dir, pair.Key), tmpl); err != nil {
			return err
		}
	}
	for pair := c.Documents.Oldest(); pair != nil; pair = pair.Next() {
		if err := store.CopyFile(tmpl.Document, filepath.Join(dir, pair.Key+".html")); err != nil {
			return err
		}
	}
	return nil
}

// BuildBlobSkeleton mirrors the category directories under dir and places
// each brief category's summary there. brief.html is copied as-is; without
// one, brief.md is rendered. A category with neither is logged and skipped.
func (c *Category) BuildBlobSkeleton(store storage.Provider, dir string, logger *slog.Logger) error {
	if err := store.MkdirAll(dir); err != nil {
		return err
	}
	if c.Brief() {
		if err := c.placeBrief(store, dir); err != nil {
			logger.Warn("brief not placed",
				slog.String("path", c.Path),
				slog.String("error", err.Error()))
		}
	}
	for pair := c.Subcategories.Oldest(); pair != nil; pair = pair.Next() {
		if err := pair.Value.BuildBlobSkeleton(store, filepath.Join(dir, pair.Key), logger); err != nil {
			return err
		}
	}
	return nil
}

func (c *Category) placeBrief(store storage.Provider, dir string) error {
	dst := filepath.Join(dir, brief.HTMLFile)
	src := filepath.Join(c.Path, brief.HTMLFile)
	if _, err := os.Stat(src); err == nil {
		return store.CopyFile(src, dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	data, err := os.ReadFile(filepath.Join(c.Path, brief.MarkdownFile))
	if err != nil {
		return err
	}
	out, err := brief.Render(data)
	if err != nil {
		return err
	}
	return store.Write(dst, out)
}

// CollectJobs returns one conversion job per document, this category's own
// documents first, each targeting blobDir/<name>.html.
func (c *Category) CollectJobs(blobDir string) []convert.Job {
	var jobs []convert.Job
	for pair := c.Documents.Oldest(); pair != nil; pair = pair.Next() {
		jobs = append(jobs, convert.Job{
			Source:      pair.Value.Path,
			Destination: filepath.Join(blobDir, pair.Key+".html"),
		})
	}
	for pair := c.Subcategories.Oldest(); pair != nil; pair = pair.Next() {
		jobs = append(jobs, pair.Value.CollectJobs(filepath.Join(blobDir, pair.Key))...)
	}
	return jobs
}

// CollectExcerpts attaches an excerpt to every document from its converted
// file under blobDir. A document whose conversion output is missing keeps a
// nil excerpt and is reported.
func (c *Category) CollectExcerpts(blobDir string, maxLength int, logger *slog.Logger) {
	for pair := c.Documents.Oldest(); pair != nil; pair = pair.Next() {
		path := filepath.Join(blobDir, pair.Key+".html")
		s, err := excerpt.ExtractFile(path, maxLength)
		if err != nil {
			logger.Warn("excerpt skipped",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		pair.Value.Excerpt = &s
	}
	for pair := c.Subcategories.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.CollectExcerpts(filepath.Join(blobDir, pair.Key), maxLength, logger)
	}
}

// Index returns the serializable shape of the tree: config keys, then
// subcategories, then documents.
func (c *Category) Index() *meta.Map {
	m := c.Config.Clone()

	subs := meta.New()
	for pair := c.Subcategories.Oldest(); pair != nil; pair = pair.Next() {
		subs.Set(pair.Key, pair.Value.Index())
	}
	docs := meta.New()
	for pair := c.Documents.Oldest(); pair != nil; pair = pair.Next() {
		docs.Set(pair.Key, pair.Value.IndexEntry())
	}

	m.Set(KeySubcategories, subs)
	m.Set(KeyDocuments, docs)
	return m
}

// CollectFeedEntries returns the feed entries of every visible document
// below c in traversal order. prefix is the path of c from the root.
func (c *Category) CollectFeedEntries(domain string, prefix []string) []feed.Entry {
	var out []feed.Entry
	for pair := c.Documents.Oldest(); pair != nil; pair = pair.Next() {
		if e, ok := pair.Value.FeedEntry(domain, append(slices.Clone(prefix), pair.Key)); ok {
			out = append(out, e)
		}
	}
	for pair := c.Subcategories.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.CollectFeedEntries(domain, append(slices.Clone(prefix), pair.Key))...)
	}
	return out
}

// Walk calls fn for c and every descendant category, parents first.
func (c *Category) Walk(fn func(path []string, c *Category)) {
	c.walk(nil, fn)
}

func (c *Category) walk(path []string, fn func([]string, *Category)) {
	fn(path, c)
	for pair := c.Subcategories.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.walk(append(slices.Clone(path), pair.Key), fn)
	}
}

// CountDocuments returns the number of documents in the tree.
func (c *Category) CountDocuments() int {
	n := 0
	c.Walk(func(_ []string, cat *Category) {
		n += cat.Documents.Len()
	})
	return n
}
