// Package watch re-checks a document tree when files under it change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/praetorian-inc/adocref/pkg/attrs"
	"github.com/praetorian-inc/adocref/pkg/checker"
	"github.com/praetorian-inc/adocref/pkg/enum"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

// DefaultDebounce is the quiet period after the last event before re-checking.
const DefaultDebounce = 200 * time.Millisecond

var log = commonlog.GetLogger("adocref.watch")

// Config for a watch session.
type Config struct {
	// Tree selects the documents to check. Tree.Root is watched recursively;
	// a file root watches its directory.
	Tree enum.Config

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// CollectAttributes re-reads document header attributes under
	// Tree.Root before every pass, layered over Attributes.
	CollectAttributes bool
	Attributes        map[string]string
}

// Func receives the results of each check pass.
type Func func(results []*types.CheckResult, err error)

// Run checks the tree once, then again after every burst of changes, until
// ctx is cancelled. Any file change triggers a pass because new or removed
// files change which references resolve.
func Run(ctx context.Context, core *checker.Core, cfg Config, fn Func) error {
	if cfg.Tree.Root == "" {
		return fmt.Errorf("watch root is required")
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	dir := cfg.Tree.Root
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	} else if !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, dir, cfg.Tree.IncludeHidden); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	log.Infof("watching %s", dir)

	fs := cfg.Tree.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	check := func() {
		if cfg.CollectAttributes {
			collected, err := attrs.Collect(ctx, fs, cfg.Tree.Root, cfg.Attributes)
			if err != nil {
				if ctx.Err() == nil {
					fn(nil, err)
				}
				return
			}
			core.SetAttributes(collected)
		}
		results, err := core.CheckTree(ctx, cfg.Tree)
		if ctx.Err() != nil {
			return
		}
		fn(results, err)
	}
	check()

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timerC:
			timerC = nil
			check()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watcher error: %v", err)
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := addRecursive(watcher, evt.Name, cfg.Tree.IncludeHidden); err != nil {
						log.Warningf("adding watch for %s: %v", evt.Name, err)
					}
				}
			}
			if !shouldTrigger(evt, cfg.Tree.IncludeHidden) {
				continue
			}
			log.Debugf("%s: %s", evt.Op, evt.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			timerC = timer.C
		}
	}
}

func shouldTrigger(evt fsnotify.Event, includeHidden bool) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return false
	}
	return includeHidden || !strings.HasPrefix(filepath.Base(evt.Name), ".")
}

func addRecursive(watcher *fsnotify.Watcher, root string, includeHidden bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !includeHidden && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
