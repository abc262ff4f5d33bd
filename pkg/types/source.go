package types

import "path/filepath"

// Source supplies a document snapshot to the checker.
type Source interface {
	// Text returns the full document text.
	Text() string
	// BaseDir returns the directory relative targets resolve against.
	BaseDir() string
	// Path returns a displayable path (may be empty for unsaved buffers).
	Path() string
}

// Document is the plain Source implementation.
type Document struct {
	Content string `json:"content"`
	Dir     string `json:"base_dir"`
	File    string `json:"path"`
}

// NewFileDocument builds a Document whose base directory is the file's directory.
func NewFileDocument(path, content string) *Document {
	return &Document{
		Content: content,
		Dir:     filepath.Dir(path),
		File:    path,
	}
}

func (d *Document) Text() string    { return d.Content }
func (d *Document) BaseDir() string { return d.Dir }
func (d *Document) Path() string    { return d.File }

// IsNilSource reports whether src is nil or a nil *Document.
func IsNilSource(src Source) bool {
	if src == nil {
		return true
	}
	d, ok := src.(*Document)
	return ok && d == nil
}
