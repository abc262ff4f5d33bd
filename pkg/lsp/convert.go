package lsp

import (
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"fortio.org/safecast"
	"github.com/praetorian-inc/adocref/pkg/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var source = Name

// toProtocol converts diagnostics into LSP form. LSP positions are 0-based
// with characters counted in UTF-16 code units.
func toProtocol(diags []types.Diagnostic, text string) []protocol.Diagnostic {
	if len(diags) == 0 {
		return nil
	}
	lines := strings.Split(text, "\n")

	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		start := d.Location.Source.Start
		end := d.Location.Source.End
		severity := toSeverity(d.Severity)
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: toUInteger(start.Line - 1), Character: utf16Column(lines, start.Line, start.Column)},
				End:   protocol.Position{Line: toUInteger(end.Line - 1), Character: utf16Column(lines, end.Line, end.Column)},
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: string(d.Code)},
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func toSeverity(s types.Severity) protocol.DiagnosticSeverity {
	if s == types.SeverityWarning {
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}

// utf16Column converts a 1-based rune column on a 1-based line to a 0-based
// UTF-16 offset.
func utf16Column(lines []string, line, column int) protocol.UInteger {
	if line < 1 || line > len(lines) || column < 1 {
		return 0
	}
	runes := []rune(strings.TrimSuffix(lines[line-1], "\r"))
	n := min(column-1, len(runes))
	return toUInteger(len(utf16.Encode(runes[:n])))
}

// toUInteger clamps n into the protocol's unsigned range.
func toUInteger(n int) protocol.UInteger {
	u, err := safecast.Conv[uint32](n)
	if err != nil {
		if n < 0 {
			return 0
		}
		return math.MaxUint32
	}
	return protocol.UInteger(u)
}

// applyChange applies a ranged edit to text.
func applyChange(text string, change protocol.TextDocumentContentChangeEvent) string {
	if change.Range == nil {
		return change.Text
	}
	start := offsetOf(text, change.Range.Start)
	end := offsetOf(text, change.Range.End)
	if end < start {
		start, end = end, start
	}
	return text[:start] + change.Text + text[end:]
}

// offsetOf returns the byte offset of an LSP position in text.
func offsetOf(text string, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	units := protocol.UInteger(0)
	for i, r := range text[offset:] {
		if r == '\n' || units >= pos.Character {
			return offset + i
		}
		units += protocol.UInteger(utf16.RuneLen(r))
	}
	return len(text)
}

// documentFor builds a checkable document for a file:// URI.
func documentFor(uri protocol.DocumentUri, text string) (*types.Document, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}
	return types.NewFileDocument(path, text), nil
}

func uriToPath(uri protocol.DocumentUri) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing document URI: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}
	path := u.Path
	// file:///C:/docs/a.adoc
	if filepath.Separator == '\\' && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}
