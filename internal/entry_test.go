package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/folio/internal/testutil"
)

func buildRepo(t *testing.T) string {
	t.Helper()
	return testutil.Repo(t, map[string]string{
		"templates/index.html":    "<html>listing</html>",
		"templates/document.html": "<html>document</html>",
		"documents/config.yaml":   "title: Notes\n",
		"documents/hello.md":      testutil.Doc("Hello", "2024-03-01 10:00"),
	})
}

func TestBuild_WritesArtifacts(t *testing.T) {
	root := buildRepo(t)
	cfg := validConfig()
	cfg.Converter = testutil.Converter(t)

	err := Build(context.Background(),
		WithConfig(cfg),
		WithRoot(root),
		WithLogger(testutil.Logger()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, rel := range []string{"index.html", "hello.html", "blob/index.json", "blob/hello.html", "rss.xml"} {
		if _, err := os.Stat(filepath.Join(root, "artifacts", rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	rss, err := os.ReadFile(filepath.Join(root, "artifacts", "rss.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(rss), "<generator>folio</generator>") {
		t.Errorf("feed generator missing: %s", rss)
	}
}

func TestBuild_RequiresConfig(t *testing.T) {
	if err := Build(context.Background(), WithRoot(t.TempDir())); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestBuild_MissingConverterIsFatal(t *testing.T) {
	root := buildRepo(t)
	cfg := validConfig()
	cfg.Converter = filepath.Join(t.TempDir(), "no-such-converter")

	err := Build(context.Background(), WithConfig(cfg), WithRoot(root), WithLogger(testutil.Logger()))
	if err == nil {
		t.Fatal("expected error for missing converter")
	}
	if _, statErr := os.Stat(filepath.Join(root, "artifacts")); !os.IsNotExist(statErr) {
		t.Error("artifacts directory should not be created when the converter is missing")
	}
}

func TestServe_RequiresBuiltArtifacts(t *testing.T) {
	root := buildRepo(t)
	err := Serve(context.Background(), WithConfig(validConfig()), WithRoot(root), WithLogger(testutil.Logger()))
	if err == nil || !strings.Contains(err.Error(), "run build first") {
		t.Fatalf("expected missing artifacts error, got %v", err)
	}
}
