// Package apperr defines the error taxonomy shared by the build pipeline.
package apperr

import "errors"

var (
	ErrConfig           = errors.New("invalid config")
	ErrMetadata         = errors.New("invalid metadata")
	ErrConversion       = errors.New("conversion failed")
	ErrConverterMissing = errors.New("converter not found")
)

// PathError attaches the offending file or directory to an error so warnings
// can point at the source that caused them.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// WithPath wraps err with path. A nil err stays nil.
func WithPath(path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Path: path, Err: err}
}
