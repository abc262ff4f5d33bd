package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetSpan_HalfOpen(t *testing.T) {
	// [0, 5) covers characters 0..4
	span := OffsetSpan{Start: 0, End: 5}
	assert.Equal(t, 5, span.Len())

	empty := OffsetSpan{Start: 3, End: 3}
	assert.Equal(t, 0, empty.Len())
}

func TestLocation(t *testing.T) {
	loc := Location{
		Offset: OffsetSpan{Start: 100, End: 200},
		Source: SourceSpan{
			Start: SourcePoint{Line: 10, Column: 1},
			End:   SourcePoint{Line: 12, Column: 15},
		},
	}

	assert.Equal(t, 100, loc.Offset.Start)
	assert.Equal(t, 200, loc.Offset.End)
	assert.Equal(t, 10, loc.Source.Start.Line)
	assert.Equal(t, 15, loc.Source.End.Column)
}
