// Package scanner finds reference directives in AsciiDoc text.
package scanner

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/adocref/pkg/directive"
	"github.com/praetorian-inc/adocref/pkg/prefilter"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("adocref.scanner")

// compiledDirective pairs a directive with its compiled pattern.
type compiledDirective struct {
	directive *types.Directive
	re        *regexp2.Regexp
	hasClose  bool // pattern defines a "close" group
	hasAttrs  bool
}

// Scanner produces References from document text.
//
// A Scanner is immutable after New and safe for concurrent Scan calls.
type Scanner struct {
	directives   []*types.Directive
	compiled     map[*types.Directive]*compiledDirective
	prefilter    *prefilter.Prefilter
	skipComments bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSkipComments controls whether directives inside AsciiDoc comments are ignored.
// Enabled by default.
func WithSkipComments(skip bool) Option {
	return func(s *Scanner) {
		s.skipComments = skip
	}
}

// New compiles the given directives into a Scanner.
func New(directives []*types.Directive, opts ...Option) (*Scanner, error) {
	if len(directives) == 0 {
		return nil, fmt.Errorf("no directives provided")
	}

	s := &Scanner{
		directives:   directives,
		compiled:     make(map[*types.Directive]*compiledDirective, len(directives)),
		prefilter:    prefilter.New(directives),
		skipComments: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, d := range directives {
		re, err := directive.Compile(d)
		if err != nil {
			return nil, err
		}
		names := re.GetGroupNames()
		s.compiled[d] = &compiledDirective{
			directive: d,
			re:        re,
			hasClose:  slices.Contains(names, directive.GroupClose),
			hasAttrs:  slices.Contains(names, directive.GroupAttrs),
		}
	}

	return s, nil
}

// Directives returns the directives this scanner recognizes.
func (s *Scanner) Directives() []*types.Directive {
	return slices.Clone(s.directives)
}

// Scan returns the references in text, in ascending offset order.
// The sequence is computed lazily, one line at a time.
func (s *Scanner) Scan(text string) iter.Seq[types.Reference] {
	return func(yield func(types.Reference) bool) {
		candidates := s.candidates(text)
		if len(candidates) == 0 {
			return
		}

		runes := []rune(text)
		inCommentBlock := false
		lineNo := 1
		lineStart := 0

		for lineStart <= len(runes) {
			lineEnd := lineStart
			for lineEnd < len(runes) && runes[lineEnd] != '\n' {
				lineEnd++
			}

			line := runes[lineStart:lineEnd]
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}

			skip := false
			if s.skipComments {
				skip, inCommentBlock = commentState(line, inCommentBlock)
			}

			if !skip {
				for _, ref := range s.scanLine(candidates, line, lineNo, lineStart) {
					if !yield(ref) {
						return
					}
				}
			}

			if lineEnd == len(runes) {
				break
			}
			lineStart = lineEnd + 1
			lineNo++
		}
	}
}

// ScanAll collects Scan into a slice.
func (s *Scanner) ScanAll(text string) []types.Reference {
	return slices.Collect(s.Scan(text))
}

// candidates returns the compiled directives whose keyword occurs in text.
func (s *Scanner) candidates(text string) []*compiledDirective {
	filtered := s.prefilter.Filter([]byte(text))
	out := make([]*compiledDirective, 0, len(filtered))
	for _, d := range filtered {
		out = append(out, s.compiled[d])
	}
	return out
}

// lineMatch is a reference found on a single line before overlap removal.
type lineMatch struct {
	ref      types.Reference
	start    int // character offset within the line
	matchEnd int // end of the full regex match within the line
	order    int // directive order, for stable ties
}

// scanLine finds all references on one line.
func (s *Scanner) scanLine(candidates []*compiledDirective, line []rune, lineNo, lineStart int) []types.Reference {
	if len(line) == 0 {
		return nil
	}
	lineStr := string(line)

	var found []lineMatch
	for order, c := range candidates {
		if c.directive.Keyword != "" && !strings.Contains(lineStr, c.directive.Keyword) {
			continue
		}

		m, err := c.re.FindRunesMatch(line)
		for m != nil && err == nil {
			ref := buildReference(c, m, lineNo, lineStart)
			found = append(found, lineMatch{
				ref:      ref,
				start:    m.Index,
				matchEnd: m.Index + m.Length,
				order:    order,
			})
			m, err = c.re.FindNextMatch(m)
		}
		if err != nil {
			log.Warningf("directive %s: regex error on line %d (skipping directive for this line): %v", c.directive.ID, lineNo, err)
		}
	}

	if len(found) == 0 {
		return nil
	}

	slices.SortStableFunc(found, func(a, b lineMatch) int {
		if a.start != b.start {
			return a.start - b.start
		}
		return a.order - b.order
	})

	refs := make([]types.Reference, 0, len(found))
	acceptedEnd := -1
	for _, f := range found {
		if f.start < acceptedEnd {
			continue
		}
		refs = append(refs, f.ref)
		acceptedEnd = f.matchEnd
	}
	return refs
}

// buildReference converts a regex match into a Reference. A match with an
// empty target, or without the closing bracket list when the pattern has one,
// is malformed and spans only the text before the target.
func buildReference(c *compiledDirective, m *regexp2.Match, lineNo, lineStart int) types.Reference {
	raw := m.String()
	start := m.Index
	length := m.Length

	var target, attrs string
	targetGroup := m.GroupByName(directive.GroupTarget)
	if matched(targetGroup) {
		target = strings.TrimSpace(targetGroup.String())
	}
	closed := !c.hasClose || matched(m.GroupByName(directive.GroupClose))
	if c.hasAttrs {
		if g := m.GroupByName(directive.GroupAttrs); matched(g) {
			attrs = g.String()
		}
	}

	if target == "" || !closed {
		prefix := length
		if matched(targetGroup) {
			prefix = targetGroup.Index - m.Index
		}
		raw = string([]rune(raw)[:prefix])
		length = prefix
		target = ""
		attrs = ""
	}

	offset := lineStart + start
	return types.Reference{
		DirectiveID: c.directive.ID,
		Kind:        c.directive.Kind,
		RawText:     raw,
		Target:      target,
		Attributes:  attrs,
		Line:        lineNo,
		Offset:      offset,
		Length:      length,
		Location: types.Location{
			Offset: types.OffsetSpan{Start: offset, End: offset + length},
			Source: types.SourceSpan{
				Start: types.SourcePoint{Line: lineNo, Column: start + 1},
				End:   types.SourcePoint{Line: lineNo, Column: start + length + 1},
			},
		},
	}
}

func matched(g *regexp2.Group) bool {
	return g != nil && len(g.Captures) > 0
}

// commentState reports whether line is commented out and returns the new
// block-comment state. "////" lines open and close comment blocks; lines
// starting with "//" are line comments.
func commentState(line []rune, inBlock bool) (skip, stillInBlock bool) {
	trimmed := strings.TrimRight(string(line), " \t")
	if len(trimmed) >= 4 && strings.Trim(trimmed, "/") == "" {
		return true, !inBlock
	}
	if inBlock {
		return true, true
	}
	return strings.HasPrefix(trimmed, "//"), false
}
