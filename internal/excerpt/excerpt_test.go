package excerpt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		max    int
		want   string
	}{
		{"budget charges full element", "<p>AAAA</p><p>BBBB</p>", 6, "AAAA BB ..."},
		{"stops once budget negative", "<p>AAAAAAAA</p><p>BBBB</p><li>CC</li>", 4, "AAAA ..."},
		// At exactly zero the next element still adds its separator.
		{"exact budget continues", "<p>AAAA</p><p>BBBB</p>", 4, "AAAA  ..."},
		{"ellipsis without truncation", "<p>short</p>", 150, "short ..."},
		{"ignores non-block text", "<h1>Title</h1><div>loose</div><ul><li>one</li><li>two</li></ul>", 100, "one two ..."},
		{"inline markup and newlines", "<p>Hello <em>brave</em>\nnew <a href=\"#\">world</a></p>", 100, "Hello brave new world ..."},
		{"counts runes", "<p>ééééé</p>", 3, "ééé ..."},
		{"empty", "", 10, "..."},
		{"long paragraph", "<p>" + strings.Repeat("x", 200) + "</p><li>y</li>", 150, strings.Repeat("x", 150) + " ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.markup, tt.max)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	in := "<p>" + strings.Repeat("x", 200) + "</p><li>y</li>"
	a, _ := Extract(in, 150)
	b, _ := Extract(in, 150)
	if a != b {
		t.Errorf("runs differ: %q vs %q", a, b)
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	if err := os.WriteFile(path, []byte("<p>from disk</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ExtractFile(path, 150)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if got != "from disk ..." {
		t.Errorf("ExtractFile = %q", got)
	}

	if _, err := ExtractFile(filepath.Join(t.TempDir(), "missing.html"), 150); err == nil {
		t.Error("expected error for missing file")
	}
}
