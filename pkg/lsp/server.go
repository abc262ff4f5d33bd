// Package lsp publishes reference diagnostics to editors over the Language Server Protocol.
package lsp

import (
	"sync"

	"github.com/praetorian-inc/adocref/pkg/checker"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Name is the language server name reported to clients.
const Name = "adocref"

var log = commonlog.GetLogger("adocref.lsp")

// Server keeps the open documents of one editor session.
type Server struct {
	core    *checker.Core
	version string
	handler protocol.Handler

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string
}

// New creates a language server checking documents with core.
func New(core *checker.Core, version string) *Server {
	s := &Server{
		core:    core,
		version: version,
		docs:    make(map[protocol.DocumentUri]string),
	}
	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}
	return s
}

// RunStdio serves the protocol over stdin/stdout until the client exits.
func (s *Server) RunStdio() error {
	return server.NewServer(&s.handler, Name, false).RunStdio()
}

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.True},
	}

	if params.ClientInfo != nil {
		log.Infof("client: %s", params.ClientInfo.Name)
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("server initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	log.Info("server shutting down")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.setText(uri, params.TextDocument.Text)
	s.publish(context, uri, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	text, ok := s.text(uri)

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, ok = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			if !ok {
				log.Warningf("%s: incremental change for unknown document ignored", uri)
				continue
			}
			text = applyChange(text, c)
		}
	}
	if !ok {
		return nil
	}

	s.setText(uri, text)
	s.publish(context, uri, text)
	return nil
}

func (s *Server) textDocumentDidSave(context *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		s.setText(uri, *params.Text)
	}
	// Saving may create files other documents refer to.
	for u, text := range s.snapshot() {
		s.publish(context, u, text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	reportDiagnostics(context, uri, nil)
	return nil
}

// publish checks text and sends its diagnostics. Documents that cannot be
// checked get an empty diagnostic set.
func (s *Server) publish(context *glsp.Context, uri protocol.DocumentUri, text string) {
	doc, err := documentFor(uri, text)
	if err != nil {
		log.Debugf("%s: %v", uri, err)
		reportDiagnostics(context, uri, nil)
		return
	}

	result, err := s.core.Check(doc)
	if err != nil {
		log.Errorf("checking %s: %v", uri, err)
		reportDiagnostics(context, uri, nil)
		return
	}
	reportDiagnostics(context, uri, toProtocol(result.Diagnostics, text))
}

func reportDiagnostics(context *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	context.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) text(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *Server) setText(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = text
}

func (s *Server) snapshot() map[protocol.DocumentUri]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[protocol.DocumentUri]string, len(s.docs))
	for k, v := range s.docs {
		out[k] = v
	}
	return out
}
