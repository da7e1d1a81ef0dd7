// Package testutil provides shared helpers for building fixture repositories.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Now is the fixed build instant used by fixtures.
var Now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time {
	return Now
}

// Logger discards everything below error level.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// CaptureLogger returns a logger writing JSON lines at debug level to w.
func CaptureLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// WriteTree creates files (slash-separated path relative to dir -> content)
// under dir, creating parent directories as needed. A path ending in "/"
// creates an empty directory.
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// Repo creates a temporary repository root populated with files and
// returns its path.
func Repo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteTree(t, root, files)
	return root
}

// Doc renders a markdown source with a metadata block.
func Doc(title, modification string, extra ...string) string {
	s := "---\ntitle: " + title + "\nmodification: " + modification + "\n"
	for _, line := range extra {
		s += line + "\n"
	}
	return s + "---\n\n" + title + " body.\n"
}

// converterScript stands in for pandoc: it copies the source to the -o
// destination and fails when the source is missing.
const converterScript = `#!/bin/sh
src="$1"
shift
[ "$1" = "-o" ] || exit 2
[ -f "$src" ] || { echo "cannot open $src" >&2; exit 1; }
cat "$src" > "$2"
`

// Converter writes an executable fake converter and returns its path.
func Converter(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-pandoc")
	if err := os.WriteFile(path, []byte(converterScript), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}
