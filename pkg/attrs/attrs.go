// Package attrs collects document header attributes across a documentation tree.
package attrs

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/praetorian-inc/adocref/pkg/enum"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("adocref.attrs")

var entryPattern = regexp.MustCompile(`^:(!?)([A-Za-z0-9_][A-Za-z0-9_-]*)(!?):(?:[ \t]+(.*))?$`)

// Entry is one attribute entry from a document header.
type Entry struct {
	Name  string
	Value string
	Unset bool
}

// ParseHeader returns the attribute entries of the document header, in order.
// The header is the first block of non-blank lines; comment lines are ignored.
// Values continued with a trailing " \" are joined.
func ParseHeader(text string) []Entry {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var entries []Entry
	started := false
	inComment := false
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")

		if len(line) >= 4 && strings.Trim(line, "/") == "" {
			inComment = !inComment
			continue
		}
		if inComment || strings.HasPrefix(line, "//") {
			continue
		}
		if line == "" {
			if started {
				break
			}
			continue
		}
		started = true

		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		e := Entry{Name: m[2], Unset: m[1] == "!" || m[3] == "!"}
		if !e.Unset {
			value := m[4]
			for strings.HasSuffix(value, ` \`) && i+1 < len(lines) {
				i++
				value = strings.TrimSuffix(value, `\`) + strings.TrimSpace(lines[i])
			}
			e.Value = value
		}
		entries = append(entries, e)
	}
	return entries
}

// Apply merges entries into attrs, deleting unset names.
func Apply(attrs map[string]string, entries []Entry) {
	for _, e := range entries {
		if e.Unset {
			delete(attrs, e.Name)
			continue
		}
		attrs[e.Name] = e.Value
	}
}

// Collect merges the header attributes of every AsciiDoc document under root.
// Documents are applied in path order, so later paths win on conflicts.
func Collect(ctx context.Context, fs afero.Fs, root string, base map[string]string) (map[string]string, error) {
	e := enum.NewFilesystemEnumerator(enum.Config{Root: root, Fs: fs})
	paths, err := e.Paths(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting attributes under %s: %w", root, err)
	}
	slices.Sort(paths)

	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string)
	}
	for _, path := range paths {
		doc, _, err := enum.ReadDocument(fs, path)
		if err != nil {
			return nil, err
		}
		entries := ParseHeader(doc.Content)
		log.Debugf("%s: %d header attribute entries", path, len(entries))
		Apply(out, entries)
	}
	return out, nil
}
