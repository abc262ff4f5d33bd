//go:build wasm

package main

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"syscall/js"

	"github.com/praetorian-inc/adocref/pkg/checker"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/spf13/afero"
)

// session is a checker resolving targets against files the page registered.
type session struct {
	core *checker.Core
	fs   afero.Fs
}

var (
	sessions   = make(map[int]*session)
	sessionsMu sync.RWMutex
	nextID     int
)

func errorResult(msg string) map[string]any {
	return map[string]any{"error": msg}
}

func lookup(handle int) (*session, bool) {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()
	s, ok := sessions[handle]
	return s, ok
}

// newChecker creates a checker with the given directives JSON.
// JS: AdocrefNewChecker(directivesJSON) -> {handle} or {error}
// "builtin" or an empty string selects the builtin directives.
func newChecker(this js.Value, args []js.Value) any {
	var directives []*types.Directive
	if len(args) > 0 {
		if raw := args[0].String(); raw != "" && raw != "builtin" {
			if err := json.Unmarshal([]byte(raw), &directives); err != nil {
				return errorResult("failed to parse directives JSON: " + err.Error())
			}
		}
	}

	fs := afero.NewMemMapFs()
	core, err := checker.NewCore(checker.Config{Directives: directives, Fs: fs})
	if err != nil {
		return errorResult("failed to create checker: " + err.Error())
	}

	sessionsMu.Lock()
	id := nextID
	nextID++
	sessions[id] = &session{core: core, fs: fs}
	sessionsMu.Unlock()

	return map[string]any{"handle": id}
}

// addFile registers a path that references may resolve to.
// JS: AdocrefAddFile(handle, path)
func addFile(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errorResult("handle and path arguments required")
	}
	s, ok := lookup(args[0].Int())
	if !ok {
		return errorResult("invalid checker handle")
	}

	path := filepath.Clean(args[1].String())
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errorResult("failed to add file: " + err.Error())
	}
	if err := afero.WriteFile(s.fs, path, nil, 0o644); err != nil {
		return errorResult("failed to add file: " + err.Error())
	}
	return nil
}

// check checks a single document.
// JS: AdocrefCheck(handle, content, path) -> JSON result or {error}
func check(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return errorResult("handle, content and path arguments required")
	}
	s, ok := lookup(args[0].Int())
	if !ok {
		return errorResult("invalid checker handle")
	}

	result, err := s.core.Check(types.NewFileDocument(args[2].String(), args[1].String()))
	if err != nil {
		return errorResult("check failed: " + err.Error())
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return errorResult("failed to marshal results: " + err.Error())
	}
	return string(jsonBytes)
}

// checkBatch checks multiple documents.
// JS: AdocrefCheckBatch(handle, documentsJSON) -> JSON results or {error}
func checkBatch(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errorResult("handle and documentsJSON arguments required")
	}
	s, ok := lookup(args[0].Int())
	if !ok {
		return errorResult("invalid checker handle")
	}

	var docs []*types.Document
	if err := json.Unmarshal([]byte(args[1].String()), &docs); err != nil {
		return errorResult("failed to parse documents JSON: " + err.Error())
	}
	for _, d := range docs {
		if d != nil && d.Dir == "" {
			d.Dir = filepath.Dir(d.File)
		}
	}

	batch, err := s.core.CheckBatch(docs)
	if err != nil {
		return errorResult("batch check failed: " + err.Error())
	}

	jsonBytes, err := json.Marshal(batch)
	if err != nil {
		return errorResult("failed to marshal results: " + err.Error())
	}
	return string(jsonBytes)
}

// closeChecker releases a checker.
// JS: AdocrefCloseChecker(handle)
func closeChecker(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("handle argument required")
	}
	handle := args[0].Int()

	sessionsMu.Lock()
	s, ok := sessions[handle]
	if ok {
		delete(sessions, handle)
	}
	sessionsMu.Unlock()

	if !ok {
		return errorResult("invalid checker handle")
	}
	s.core.Close()
	return nil
}

// getBuiltinDirectives returns the builtin directives as JSON.
// JS: AdocrefGetBuiltinDirectives() -> JSON array
func getBuiltinDirectives(this js.Value, args []js.Value) any {
	directives, err := checker.BuiltinDirectives()
	if err != nil {
		return errorResult("failed to load builtin directives: " + err.Error())
	}

	jsonBytes, err := json.Marshal(directives)
	if err != nil {
		return errorResult("failed to marshal directives: " + err.Error())
	}
	return string(jsonBytes)
}
