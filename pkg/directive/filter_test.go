package directive

import (
	"testing"

	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string returns empty slice", input: "", expected: []string{}},
		{name: "single pattern", input: "adoc.include", expected: []string{"adoc.include"}},
		{name: "multiple patterns", input: "adoc.image.*,adoc.xref", expected: []string{"adoc.image.*", "adoc.xref"}},
		{name: "patterns with spaces are trimmed", input: " adoc.image.* , adoc.xref ", expected: []string{"adoc.image.*", "adoc.xref"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePatterns(tt.input))
		})
	}
}

func sampleDirectives() []*types.Directive {
	return []*types.Directive{
		{ID: "adoc.include"},
		{ID: "adoc.image.block"},
		{ID: "adoc.image.inline"},
		{ID: "adoc.xref"},
	}
}

func ids(directives []*types.Directive) []string {
	out := make([]string, 0, len(directives))
	for _, d := range directives {
		out = append(out, d.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		config   FilterConfig
		expected []string
	}{
		{
			name:     "no patterns keeps all",
			config:   FilterConfig{},
			expected: []string{"adoc.include", "adoc.image.block", "adoc.image.inline", "adoc.xref"},
		},
		{
			name:     "include only",
			config:   FilterConfig{Include: []string{`^adoc\.image`}},
			expected: []string{"adoc.image.block", "adoc.image.inline"},
		},
		{
			name:     "exclude only",
			config:   FilterConfig{Exclude: []string{"xref"}},
			expected: []string{"adoc.include", "adoc.image.block", "adoc.image.inline"},
		},
		{
			name:     "include then exclude",
			config:   FilterConfig{Include: []string{"image"}, Exclude: []string{"inline"}},
			expected: []string{"adoc.image.block"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Filter(sampleDirectives(), tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestFilter_InvalidPattern(t *testing.T) {
	_, err := Filter(sampleDirectives(), FilterConfig{Include: []string{"[invalid"}})
	assert.Error(t, err)
}

func TestFilter_Empty(t *testing.T) {
	result, err := Filter(nil, FilterConfig{Include: []string{"x"}})
	require.NoError(t, err)
	assert.Empty(t, result)
}
