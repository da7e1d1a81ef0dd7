// Package site drives a full build of a repository: parse the documents
// tree, lay out the output, convert, extract excerpts, and write the site
// index and feed.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/convert"
	"github.com/starford/folio/internal/feed"
	"github.com/starford/folio/internal/minify"
	"github.com/starford/folio/internal/storage"
)

// Directory and file names of a repository and its artifacts.
const (
	DocumentsDir = "documents"
	TemplatesDir = "templates"
	StaticDir    = "static"
	BlobDir      = "blob"
	IndexFile    = "index.json"
	FeedFile     = "rss.xml"

	ListingTemplate  = "index.html"
	DocumentTemplate = "document.html"
)

// Settings are the repository-level build parameters.
type Settings struct {
	DatetimeFormat string
	Timezone       float64
	ArtifactsDir   string
	Converter      string
	ConverterArgs  []string
	PeekLength     int
	Feed           feed.Config
}

// Repository owns one build of the site rooted at Root.
type Repository struct {
	root     string
	settings Settings
	logger   *slog.Logger
	now      func() time.Time
	convOpts []convert.Option

	state     State
	tree      *content.Category
	store     *storage.FS
	scheduler *convert.Scheduler
	failed    []convert.Result
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the build logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = l
	}
}

// WithClock overrides the instant used for visibility decisions.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithConverterOptions passes options to the conversion scheduler.
func WithConverterOptions(opts ...convert.Option) Option {
	return func(r *Repository) {
		r.convOpts = append(r.convOpts, opts...)
	}
}

// Open parses the documents tree under root. Failure to read the root
// category is fatal; damaged subtrees and documents are logged and dropped.
func Open(root string, s Settings, opts ...Option) (*Repository, error) {
	r := &Repository{
		root:     root,
		settings: s,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	parser := content.NewParser(s.DatetimeFormat, s.Timezone,
		content.WithClock(r.now),
		content.WithLogger(r.logger),
		content.WithReserved(BlobDir, StaticDir))
	tree, err := parser.ParseTree(filepath.Join(root, DocumentsDir))
	if err != nil {
		return nil, err
	}
	r.tree = tree
	r.scheduler = convert.NewScheduler(s.Converter, s.ConverterArgs, r.convOpts...)
	r.state = StateParsed

	r.logger.Info("documents parsed",
		slog.String("root", root),
		slog.Int("documents", tree.CountDocuments()))
	return r, nil
}

// State reports how far the build has progressed.
func (r *Repository) State() State {
	return r.state
}

// Failed returns the conversion jobs that did not succeed in the last build.
func (r *Repository) Failed() []convert.Result {
	return r.failed
}

// ArtifactsDir returns the absolute output directory.
func (r *Repository) ArtifactsDir() string {
	return filepath.Join(r.root, r.settings.ArtifactsDir)
}

type step struct {
	next State
	run  func(context.Context) error
}

// Generate runs the remaining pipeline steps in order. The converter is
// located before the artifacts directory is touched, so a missing converter
// leaves the previous output in place.
func (r *Repository) Generate(ctx context.Context) error {
	if r.state != StateParsed {
		return fmt.Errorf("generate: repository is %s, want %s", r.state, StateParsed)
	}
	if err := r.scheduler.Check(); err != nil {
		return err
	}

	steps := []step{
		{StateSkeletonBuilt, r.buildSkeleton},
		{StateConverted, r.convert},
		{StateExcerptsAttached, r.attachExcerpts},
		{StateIndexWritten, r.writeIndex},
		{StateAssetsMinified, r.minifyAssets},
		{StateFeedWritten, r.writeFeed},
	}
	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.next, err)
		}
		r.state = s.next
		r.logger.Debug("build step done", slog.String("state", s.next.String()))
	}
	r.state = StateDone
	r.logger.Info("build finished",
		slog.String("artifacts", r.ArtifactsDir()),
		slog.Int("failed_conversions", len(r.failed)))
	return nil
}

func (r *Repository) buildSkeleton(context.Context) error {
	store, err := storage.Reset(r.ArtifactsDir())
	if err != nil {
		return err
	}
	r.store = store

	if err := store.CopyTree(filepath.Join(r.root, StaticDir), StaticDir); err != nil {
		return fmt.Errorf("copy static: %w", err)
	}

	tmpl := content.Templates{
		Listing:  filepath.Join(r.root, TemplatesDir, ListingTemplate),
		Document: filepath.Join(r.root, TemplatesDir, DocumentTemplate),
	}
	if err := r.tree.BuildOutputSkeleton(store, "", tmpl); err != nil {
		return fmt.Errorf("output skeleton: %w", err)
	}
	if err := r.tree.BuildBlobSkeleton(store, BlobDir, r.logger); err != nil {
		return fmt.Errorf("blob skeleton: %w", err)
	}
	return nil
}

func (r *Repository) blobRoot() string {
	return filepath.Join(r.store.Root(), BlobDir)
}

func (r *Repository) convert(ctx context.Context) error {
	jobs := r.tree.CollectJobs(r.blobRoot())
	results := r.scheduler.Run(ctx, jobs)

	r.failed = convert.Failed(results)
	for _, f := range r.failed {
		r.logger.Warn("conversion failed",
			slog.String("path", f.Job.Source),
			slog.String("error", f.Err.Error()))
	}
	r.logger.Info("documents converted",
		slog.Int("jobs", len(jobs)),
		slog.Int("failed", len(r.failed)))
	return nil
}

func (r *Repository) attachExcerpts(context.Context) error {
	r.tree.CollectExcerpts(r.blobRoot(), r.settings.PeekLength, r.logger)
	return nil
}

// Index serializes the site index. Identical trees give identical bytes.
func (r *Repository) Index() ([]byte, error) {
	return json.Marshal(r.tree.Index())
}

func (r *Repository) writeIndex(context.Context) error {
	data, err := r.Index()
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	rel := filepath.Join(BlobDir, IndexFile)
	if err := r.store.Write(rel, data); err != nil {
		return err
	}
	r.logger.Info("index written",
		slog.String("path", rel),
		slog.String("sha256", checksum.Short(data)))
	return nil
}

func (r *Repository) minifyAssets(context.Context) error {
	files, err := r.store.List(StaticDir)
	if err != nil {
		// static/ is optional.
		r.logger.Debug("no static assets", slog.String("error", err.Error()))
		return nil
	}
	m := minify.New()
	for _, rel := range files {
		if !minify.Supports(filepath.Ext(rel)) {
			continue
		}
		if err := r.minifyOne(m, rel); err != nil {
			r.logger.Warn("minify failed",
				slog.String("path", rel),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (r *Repository) minifyOne(m *minify.Minifier, rel string) error {
	data, err := r.store.Read(rel)
	if err != nil {
		return err
	}
	out, err := m.Bytes(rel, data)
	if err != nil {
		return err
	}
	return r.store.Write(rel, out)
}

// Feed renders the syndication feed for the current tree.
func (r *Repository) Feed() ([]byte, error) {
	cfg := r.settings.Feed
	if cfg.Title == "" {
		if t, ok, _ := r.tree.Config.Text("title"); ok {
			cfg.Title = t
		} else {
			cfg.Title = cfg.Domain
		}
	}
	entries := r.tree.CollectFeedEntries(cfg.Domain, nil)

	var buf bytes.Buffer
	if err := feed.Build(entries, cfg).Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Repository) writeFeed(context.Context) error {
	data, err := r.Feed()
	if err != nil {
		return fmt.Errorf("render feed: %w", err)
	}
	if err := r.store.Write(FeedFile, data); err != nil {
		return err
	}
	r.logger.Info("feed written",
		slog.String("path", FeedFile),
		slog.String("sha256", checksum.Short(data)))
	return nil
}
