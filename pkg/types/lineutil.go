package types

// ComputeLineColumn computes line and column numbers from a character offset.
// Lines and columns are 1-indexed (first line is 1, first column is 1).
func ComputeLineColumn(text []rune, offset int) (line, column int) {
	line = 1
	column = 1
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// SpanLocation builds a Location for [start, end) in text.
func SpanLocation(text []rune, start, end int) Location {
	startLine, startCol := ComputeLineColumn(text, start)
	endLine, endCol := ComputeLineColumn(text, end)
	return Location{
		Offset: OffsetSpan{Start: start, End: end},
		Source: SourceSpan{
			Start: SourcePoint{Line: startLine, Column: startCol},
			End:   SourcePoint{Line: endLine, Column: endCol},
		},
	}
}
