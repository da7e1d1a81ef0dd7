// Package storage manages the generated artifacts directory.
package storage

// Provider is the interface the build steps use to emit output. Every rel
// path is relative to the artifacts root.
type Provider interface {
	// Abs resolves rel against the artifacts root.
	Abs(rel string) (string, error)
	// MkdirAll creates the directory rel and its parents.
	MkdirAll(rel string) error
	// CopyFile copies the file at the absolute path src to rel.
	CopyFile(src, rel string) error
	// Read returns the bytes stored at rel.
	Read(rel string) ([]byte, error)
	// Write atomically writes content to rel.
	Write(rel string, content []byte) error
	// List returns every file below dir (relative to root) with one of exts.
	List(dir string, exts ...string) ([]string, error)
}
