// Package serve exposes the checker as an NDJSON protocol over a reader/writer pair.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/praetorian-inc/adocref/pkg/checker"
	"github.com/praetorian-inc/adocref/pkg/types"
	"github.com/tliron/commonlog"
)

// Version is the server protocol version
const Version = "1.0.0"

var log = commonlog.GetLogger("adocref.serve")

// Server answers check requests read from in, one JSON document per line.
type Server struct {
	core    *checker.Core
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(core *checker.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop. It returns nil when the input ends or a
// "close" request arrives.
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Requests decoded before the error still get answered.
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	log.Debugf("request %s", req.Type)
	switch req.Type {
	case TypeCheck:
		s.handleCheck(req.Payload)
	case TypeCheckBatch:
		s.handleCheckBatch(req.Payload)
	case TypeClose:
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send(TypeReady, ReadyData{
		Version:    Version,
		Directives: len(s.core.Scanner().Directives()),
	})
}

func (s *Server) handleCheck(payload json.RawMessage) {
	var p CheckPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeCheck, err.Error())
		return
	}

	result, err := s.core.Check(p.Document())
	if err != nil {
		s.sendError(TypeCheck, err.Error())
		return
	}
	s.send(TypeCheck, result)
}

func (s *Server) handleCheckBatch(payload json.RawMessage) {
	var p CheckBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeCheckBatch, err.Error())
		return
	}

	docs := make([]*types.Document, 0, len(p.Documents))
	for _, d := range p.Documents {
		docs = append(docs, d.Document())
	}

	result, err := s.core.CheckBatch(docs)
	if err != nil {
		s.sendError(TypeCheckBatch, err.Error())
		return
	}
	s.send(TypeCheckBatch, result)
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, err.Error())
		return
	}
	if err := s.encoder.Encode(Response{Success: true, Type: respType, Data: data}); err != nil {
		log.Errorf("writing %s response: %v", respType, err)
	}
}

func (s *Server) sendError(reqType, msg string) {
	if err := s.encoder.Encode(Response{Success: false, Type: reqType, Error: msg}); err != nil {
		log.Errorf("writing %s error: %v", reqType, err)
	}
}
