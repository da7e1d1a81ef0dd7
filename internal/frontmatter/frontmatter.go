// Package frontmatter splits the leading YAML metadata block from a source
// document.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissing is returned when the document does not open with a metadata block.
	ErrMissing = errors.New("no metadata block")
	// ErrUnterminated is returned when the opening delimiter has no closing line.
	ErrUnterminated = errors.New("metadata block not terminated")
)

const delim = "---"

// Split separates the YAML block between the leading --- line and the next
// --- (or ...) line from the body that follows it. The block is returned as
// the decoded document node so callers can keep key order.
func Split(data []byte) (*yaml.Node, []byte, error) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, nil, ErrMissing
	}

	rest := trimmed[len(delim):]
	// The opening delimiter must be a line of its own.
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, nil, ErrMissing
	}
	rest = rest[nl+1:]

	block, body, ok := cutClosing(rest)
	if !ok {
		return nil, nil, ErrUnterminated
	}

	var node yaml.Node
	if err := yaml.Unmarshal(block, &node); err != nil {
		return nil, nil, fmt.Errorf("malformed metadata block: %w", err)
	}
	return &node, body, nil
}

// cutClosing finds the first line consisting solely of --- or ... and returns
// what precedes and follows it.
func cutClosing(rest []byte) ([]byte, []byte, bool) {
	off := 0
	for off <= len(rest) {
		end := bytes.IndexByte(rest[off:], '\n')
		var line []byte
		next := len(rest) + 1
		if end < 0 {
			line = rest[off:]
		} else {
			line = rest[off : off+end]
			next = off + end + 1
		}
		l := string(bytes.TrimRight(line, " \t\r"))
		if l == delim || l == "..." {
			body := []byte{}
			if next <= len(rest) {
				body = bytes.TrimLeft(rest[next:], "\n\r")
			}
			return rest[:off], body, true
		}
		off = next
	}
	return nil, nil, false
}
