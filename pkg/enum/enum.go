package enum

import (
	"context"

	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/spf13/afero"
)

// DefaultExtensions are the file extensions treated as AsciiDoc sources.
var DefaultExtensions = []string{".adoc", ".asciidoc", ".asc", ".ad"}

// Callback receives one document and the hash of its content.
type Callback func(doc *types.Document, id types.ContentID) error

// Enumerator discovers documents to check.
type Enumerator interface {
	// Enumerate yields documents from the source.
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration. May be a single file.
	Root string

	// Fs is the filesystem to walk. Defaults to the OS filesystem.
	Fs afero.Fs

	// Extensions limits enumeration to these file extensions (case-insensitive).
	// Defaults to DefaultExtensions.
	Extensions []string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Workers is the number of parallel readers (0 = NumCPU).
	Workers int
}
