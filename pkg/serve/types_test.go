package serve

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_CheckUnmarshal(t *testing.T) {
	input := `{"type":"check","payload":{"content":"include::a.adoc[]","path":"/docs/main.adoc"}}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(input), &req))
	assert.Equal(t, "check", req.Type)

	var payload CheckPayload
	require.NoError(t, json.Unmarshal(req.Payload, &payload))
	assert.Equal(t, "include::a.adoc[]", payload.Content)
	assert.Equal(t, "/docs/main.adoc", payload.Path)
}

func TestCheckPayload_Document(t *testing.T) {
	tests := []struct {
		name    string
		payload CheckPayload
		wantDir string
	}{
		{"dir from path", CheckPayload{Path: filepath.FromSlash("/docs/main.adoc")}, filepath.FromSlash("/docs")},
		{"explicit base dir", CheckPayload{Path: "main.adoc", BaseDir: "/other"}, "/other"},
		{"unsaved buffer", CheckPayload{Content: "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDir, tt.payload.Document().BaseDir())
		})
	}
}

func TestResponse_Marshal(t *testing.T) {
	data, err := json.Marshal(Response{Success: true, Type: "ready"})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"success":true`)
	assert.Contains(t, string(data), `"type":"ready"`)
	assert.NotContains(t, string(data), `"error"`)
}
