// Package content models the source tree: categories (directories) owning
// documents and subcategories, each document carrying its metadata, publish
// instant, visibility and excerpt.
package content

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/itchyny/timefmt-go"
)

// Well-known file names inside a category directory.
const (
	ConfigFile   = "config.yaml"
	DocumentExt  = ".md"
	hiddenPrefix = "."
)

// Parser turns a documents directory into a Category tree. The timestamp
// format is a strftime pattern; naive timestamps are read at a fixed offset
// from UTC so the published instant does not depend on the build machine.
type Parser struct {
	format string
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger

	// reserved directory names may not be used by root subcategories.
	reserved []string
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithClock overrides the time source used for visibility decisions.
func WithClock(now func() time.Time) ParserOption {
	return func(p *Parser) {
		p.now = now
	}
}

// WithLogger sets the logger receiving per-file warnings.
func WithLogger(l *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = l
	}
}

// WithReserved forbids root subcategories with the given names, for
// directories the build writes next to the page tree.
func WithReserved(names ...string) ParserOption {
	return func(p *Parser) {
		p.reserved = append(p.reserved, names...)
	}
}

// NewParser returns a Parser for timestamps in format, written at tzHours
// ahead of UTC.
func NewParser(format string, tzHours float64, opts ...ParserOption) *Parser {
	p := &Parser{
		format: format,
		loc:    FixedZone(tzHours),
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FixedZone returns the location hours ahead of UTC. Fractional hours are
// rounded to the nearest second.
func FixedZone(hours float64) *time.Location {
	secs := int(math.Round(hours * 3600))
	if secs == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+g", hours), secs)
}

// parseTime reads s in the configured format and location and returns the
// absolute instant in UTC.
func (p *Parser) parseTime(s string) (time.Time, error) {
	t, err := timefmt.ParseInLocation(s, p.format, p.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
