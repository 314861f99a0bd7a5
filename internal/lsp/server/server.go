package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	iLsp "github.com/jwtly10/protex/internal/lsp"
	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
)

// RenderCommand is the workspace command that writes the document of an open file
const RenderCommand = "protex.render"

// notifier sends notifications to the client
type notifier interface {
	Notify(ctx context.Context, method string, params interface{}, opts ...jsonrpc2.CallOption) error
}

type Server struct {
	conn notifier
	// tracks canceled request IDs
	cancelMap sync.Map

	// tracking for method request counts
	trackRequestCount sync.Map

	docService *iLsp.DocumentService

	exit func(code int)
}

type Options struct {
	DocService iLsp.DocumentServiceOptions
}

var DefaultServerOptions = Options{
	DocService: iLsp.DefaultDocumentServiceOptions,
}

func (o Options) Validate() error {
	return o.DocService.Validate()
}

func NewServer(options Options) (*Server, error) {
	dService, err := iLsp.NewDocumentService(options.DocService)
	if err != nil {
		return nil, err
	}

	return &Server{
		docService: dService,
		exit:       os.Exit,
	}, nil
}

func (s *Server) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (result interface{}, err error) {
	if s.conn == nil {
		s.conn = conn
	}
	return s.handle(ctx, req)
}

func (s *Server) handle(ctx context.Context, req *jsonrpc2.Request) (result interface{}, err error) {
	slog.Info("received request", "method", req.Method, "id", req.ID)
	reqCount, _ := s.trackRequestCount.LoadOrStore(req.Method, 0)
	if count, ok := reqCount.(int); ok {
		s.trackRequestCount.Store(req.Method, count+1)
	}

	if _, ok := s.cancelMap.Load(req.ID.String()); ok {
		slog.Debug("request was canceled", "id", req.ID)
		s.cancelMap.Delete(req.ID.String())
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		slog.Info("initializing lsp server")

		kind := lsp.TDSKFull
		return lsp.InitializeResult{
			Capabilities: lsp.ServerCapabilities{
				TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
					Kind: &kind,
				},
				ExecuteCommandProvider: &lsp.ExecuteCommandOptions{
					Commands: []string{RenderCommand},
				},
			},
		}, nil

	case "initialized":
		slog.Info("server initialized")
		return nil, nil
	case "shutdown":
		slog.Info("shutting down")
		s.printDebugStats()
		return nil, nil
	case "exit":
		slog.Info("exiting")
		s.exit(0)
		return nil, nil

	case "textDocument/didOpen":
		// Prologues are checked on open, so diagnostics are shown initially
		var params lsp.DidOpenTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		s.docService.Update(params.TextDocument.URI, params.TextDocument.Text)
		return nil, s.publishDiagnostics(ctx, params.TextDocument.URI)

	case "textDocument/didChange":
		var params lsp.DidChangeTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		// Full sync, the last change holds the whole document
		if n := len(params.ContentChanges); n > 0 {
			s.docService.Update(params.TextDocument.URI, params.ContentChanges[n-1].Text)
		}
		return nil, s.publishDiagnostics(ctx, params.TextDocument.URI)

	case "textDocument/didSave":
		var params lsp.DidSaveTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		return nil, s.publishDiagnostics(ctx, params.TextDocument.URI)

	case "textDocument/didClose":
		var params lsp.DidCloseTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		s.docService.Close(params.TextDocument.URI)
		return nil, s.sendDiagnostics(ctx, lsp.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []lsp.Diagnostic{},
		})

	case "workspace/executeCommand":
		var params lsp.ExecuteCommandParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		if params.Command != RenderCommand {
			return nil, fmt.Errorf("unknown command %q", params.Command)
		}
		if len(params.Arguments) != 1 {
			return nil, fmt.Errorf("%s expects the document URI as its only argument", RenderCommand)
		}
		uri, ok := params.Arguments[0].(string)
		if !ok {
			return nil, fmt.Errorf("%s expects the document URI as its only argument", RenderCommand)
		}

		return s.docService.RenderDoc(lsp.DocumentURI(uri))

	case "$/cancelRequest":
		var params lsp.CancelParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		slog.Debug("canceling request", "id", params.ID)
		s.cancelMap.Store(params.ID.String(), struct{}{})
		return nil, nil

	default:
		slog.Debug("unsupported method", "method", req.Method)
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method not supported: %s", req.Method),
		}
	}
}

func unmarshalParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	return json.Unmarshal(*req.Params, v)
}

func (s *Server) publishDiagnostics(ctx context.Context, uri lsp.DocumentURI) error {
	diagnostics, err := s.docService.Diagnose(uri)
	if err != nil {
		return err
	}
	return s.sendDiagnostics(ctx, lsp.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) sendDiagnostics(ctx context.Context, params lsp.PublishDiagnosticsParams) error {
	if s.conn == nil {
		slog.Warn("no client connection, dropping diagnostics", "uri", params.URI)
		return nil
	}
	return s.conn.Notify(ctx, "textDocument/publishDiagnostics", params)
}

func (s *Server) printDebugStats() {
	s.trackRequestCount.Range(func(key, value interface{}) bool {
		msg := fmt.Sprintf("Method: %-30s Count: %d", key.(string), value.(int))
		slog.Debug(msg)
		return true
	})
}
