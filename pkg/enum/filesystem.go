package enum

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"

	"github.com/praetorian-inc/adocref/pkg/types"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("adocref.enum")

// FilesystemEnumerator enumerates AsciiDoc files from a directory tree.
type FilesystemEnumerator struct {
	config Config
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	if config.Fs == nil {
		config.Fs = afero.NewOsFs()
	}
	if len(config.Extensions) == 0 {
		config.Extensions = DefaultExtensions
	}
	return &FilesystemEnumerator{config: config}
}

// Paths walks the tree and returns eligible file paths in walk order.
func (e *FilesystemEnumerator) Paths(ctx context.Context) ([]string, error) {
	fs := e.config.Fs
	root := e.config.Root

	info, err := fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		// An explicitly named file is checked regardless of extension.
		return []string{root}, nil
	}

	ignore := e.loadGitignore()

	var files []string
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if path != root && !e.config.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 && !e.config.FollowSymlinks {
			return nil
		}

		if !e.config.IncludeHidden && isHidden(info.Name()) {
			return nil
		}

		if !e.hasExtension(path) {
			return nil
		}

		if e.config.MaxFileSize > 0 && info.Size() > e.config.MaxFileSize {
			log.Debugf("skipping %s: %d bytes exceeds limit", path, info.Size())
			return nil
		}

		if ignore != nil {
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if ignore.MatchesPath(filepath.ToSlash(relPath)) {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Enumerate walks the tree and yields documents.
// Phase 1: walk the tree and collect eligible paths (sequential).
// Phase 2: read files and invoke the callback in parallel.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	files, err := e.Paths(ctx)
	if err != nil {
		return err
	}

	numReaders := e.config.Workers
	if numReaders <= 0 {
		numReaders = runtime.NumCPU()
	}

	origCtx := ctx
	g, ctx := errgroup.WithContext(ctx)
	pathsCh := make(chan string, numReaders*2)

	g.Go(func() error {
		defer close(pathsCh)
		for _, f := range files {
			select {
			case pathsCh <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < numReaders; i++ {
		g.Go(func() error {
			for path := range pathsCh {
				if err := e.processFile(ctx, path, callback); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// If the caller's context was cancelled but all goroutines finished
	// before noticing, propagate the cancellation.
	return origCtx.Err()
}

// ReadDocument reads a single file into a Document.
func ReadDocument(fs afero.Fs, path string) (*types.Document, types.ContentID, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, types.ContentID{}, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	text := string(content)
	return types.NewFileDocument(path, text), types.ComputeContentID(text), nil
}

func (e *FilesystemEnumerator) processFile(ctx context.Context, path string, callback Callback) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	doc, id, err := ReadDocument(e.config.Fs, path)
	if err != nil {
		return err
	}
	if isBinary([]byte(doc.Content)) {
		log.Debugf("skipping binary file %s", path)
		return nil
	}
	return callback(doc, id)
}

func (e *FilesystemEnumerator) loadGitignore() *gitignore.GitIgnore {
	data, err := afero.ReadFile(e.config.Fs, filepath.Join(e.config.Root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gitignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}

func (e *FilesystemEnumerator) hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(e.config.Extensions, func(want string) bool {
		return strings.EqualFold(want, ext)
	})
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isBinary detects if content is binary by checking first 8KB for null bytes.
func isBinary(content []byte) bool {
	checkSize := min(len(content), 8192)
	return bytes.IndexByte(content[:checkSize], 0) != -1
}
