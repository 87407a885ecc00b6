// Package serve exposes a Core over a newline-delimited JSON protocol on a
// pair of streams, usually stdin and stdout.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/entimark/entimark/pkg/markup"
	"github.com/entimark/entimark/pkg/scanner"
	"github.com/entimark/entimark/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages the streaming scanner
type Server struct {
	core    *scanner.Core
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(core *scanner.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run answers requests in order until the input ends, a close request
// arrives or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.send(TypeReady, ReadyData{Version: Version, Options: s.core.Options()})

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
			// Drain any pending requests before handling EOF
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
					s.sendError(TypeDecode, err.Error())
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
	switch req.Type {
	case TypeScan:
		s.handleScan(req.Payload)
	case TypeScanBatch:
		s.handleScanBatch(req.Payload)
	case TypeAnnotate:
		s.handleAnnotate(req.Payload)
	case TypeStats:
		s.send(TypeStats, StatsData{Report: s.core.Report()})
	case TypeClose:
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) handleScan(payload json.RawMessage) {
	var p ScanPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeScan, err.Error())
		return
	}

	result, err := s.core.ScanContent(p.Content, types.InlineProvenance{Source: p.Source})
	if err != nil {
		s.sendError(TypeScan, err.Error())
		return
	}
	s.send(TypeScan, result)
}

func (s *Server) handleScanBatch(payload json.RawMessage) {
	var p ScanBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeScanBatch, err.Error())
		return
	}

	result, err := s.core.ScanBatch(p.Items)
	if err != nil {
		s.sendError(TypeScanBatch, err.Error())
		return
	}
	s.send(TypeScanBatch, result)
}

func (s *Server) handleAnnotate(payload json.RawMessage) {
	var p AnnotatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(TypeAnnotate, err.Error())
		return
	}

	var opts []markup.Option
	if p.Element != "" {
		opts = append(opts, markup.WithElement(p.Element))
	}
	if p.Attribute != "" {
		opts = append(opts, markup.WithAttribute(p.Attribute))
	}
	doc := markup.New(p.Content, opts...)
	if err := s.core.Scan(doc); err != nil {
		s.sendError(TypeAnnotate, err.Error())
		return
	}
	s.send(TypeAnnotate, AnnotateData{Content: doc.Render(), Spans: doc.Spans()})
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, err.Error())
		return
	}
	s.encoder.Encode(Response{
		Success: true,
		Type:    respType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
