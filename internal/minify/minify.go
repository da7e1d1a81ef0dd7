// Package minify shrinks the stylesheets and scripts shipped under static/.
package minify

import (
	"fmt"
	"path/filepath"

	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	".css": "text/css",
	".js":  "application/javascript",
}

// Minifier minifies css and js sources by file extension.
type Minifier struct {
	m *tdminify.M
}

// New returns a Minifier with css and js support registered.
func New() *Minifier {
	m := tdminify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return &Minifier{m: m}
}

// Supports reports whether files with extension ext are minified.
func Supports(ext string) bool {
	_, ok := mediaTypes[ext]
	return ok
}

// Bytes minifies data according to the extension of name.
func (m *Minifier) Bytes(name string, data []byte) ([]byte, error) {
	mt, ok := mediaTypes[filepath.Ext(name)]
	if !ok {
		return nil, fmt.Errorf("minify: unsupported file type: %s", name)
	}
	out, err := m.m.Bytes(mt, data)
	if err != nil {
		return nil, fmt.Errorf("minify %s: %w", name, err)
	}
	return out, nil
}
