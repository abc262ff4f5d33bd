package serve

import (
	"encoding/json"
	"path/filepath"

	"github.com/praetorian-inc/adocref/pkg/types"
)

// Request types.
const (
	TypeCheck      = "check"
	TypeCheckBatch = "check_batch"
	TypeClose      = "close"
	TypeReady      = "ready"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "check" | "check_batch" | "close"
	Payload json.RawMessage `json:"payload"`
}

// CheckPayload is the payload for "check" requests.
// BaseDir defaults to the directory of Path.
type CheckPayload struct {
	Content string `json:"content"`
	Path    string `json:"path"`
	BaseDir string `json:"base_dir,omitempty"`
}

// Document converts the payload into a checkable document.
func (p CheckPayload) Document() *types.Document {
	dir := p.BaseDir
	if dir == "" && p.Path != "" {
		dir = filepath.Dir(p.Path)
	}
	return &types.Document{Content: p.Content, Dir: dir, File: p.Path}
}

// CheckBatchPayload is the payload for "check_batch" requests
type CheckBatchPayload struct {
	Documents []CheckPayload `json:"documents"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "check" | "check_batch" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version    string `json:"version"`
	Directives int    `json:"directives"`
}
