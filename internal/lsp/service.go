package lsp

import (
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jwtly10/protex"
	"github.com/jwtly10/protex/internal/transformer"
	"github.com/sourcegraph/go-lsp"
)

// DiagnosticSource is the source reported on every diagnostic
const DiagnosticSource = "protex"

type DocumentServiceOptions struct {
	// Options used to read open documents. An empty or auto language detects the
	// language from the document path.
	Run protex.Options

	// Options for documents rendered on request
	RenderOpts transformer.TransformOptions
}

var DefaultDocumentServiceOptions = DocumentServiceOptions{
	Run: protex.Options{
		File: protex.FileOptions{Language: protex.LanguageAuto},
	},
	RenderOpts: transformer.TransformOptions{
		Format:   "latex",
		NoBackup: false,
		Run: protex.Options{
			File: protex.FileOptions{Language: protex.LanguageAuto},
		},
	},
}

func (o DocumentServiceOptions) Validate() error {
	if err := o.Run.Validate(); err != nil {
		return fmt.Errorf("invalid run options: %w", err)
	}
	if err := o.RenderOpts.Run.Validate(); err != nil {
		return fmt.Errorf("invalid render options: %w", err)
	}
	return nil
}

// DocumentService keeps the text of open documents and checks their prologues
type DocumentService struct {
	mu sync.Mutex
	// Latest full text per document URI
	docs map[lsp.DocumentURI]string

	opts DocumentServiceOptions

	// The transformer used for rendering documents on request
	renderTransformer *transformer.Transformer
}

func NewDocumentService(opts DocumentServiceOptions) (*DocumentService, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document service options: %w", err)
	}

	t, err := transformer.NewTransformer(opts.RenderOpts)
	if err != nil {
		return nil, fmt.Errorf("invalid document service options: %w", err)
	}

	return &DocumentService{
		docs:              make(map[lsp.DocumentURI]string),
		opts:              opts,
		renderTransformer: t,
	}, nil
}

// Update stores the full text of a document
func (s *DocumentService) Update(uri lsp.DocumentURI, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = text
}

// Close forgets a document
func (s *DocumentService) Close(uri lsp.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Text returns the stored text of a document
func (s *DocumentService) Text(uri lsp.DocumentURI) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[uri]
	return text, ok
}

// Diagnose reports a warning for every prologue of the document lacking required fields
func (s *DocumentService) Diagnose(uri lsp.DocumentURI) ([]lsp.Diagnostic, error) {
	text, ok := s.Text(uri)
	if !ok {
		return nil, fmt.Errorf("document not open: %s", uri)
	}

	fsPath, err := s.URIToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid document URI: %w", err)
	}

	fo := s.opts.Run.File
	findings, err := protex.Lint(protex.Source{
		Name:    fsPath,
		Reader:  strings.NewReader(text),
		Options: &fo,
	}, s.opts.Run)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(text, "\n")
	diagnostics := make([]lsp.Diagnostic, 0, len(findings))
	for _, f := range findings {
		line := f.Line - 1
		if line < 0 {
			line = 0
		}
		end := 0
		if line < len(lines) {
			end = len(strings.TrimRight(lines[line], "\r"))
		}

		diagnostics = append(diagnostics, lsp.Diagnostic{
			Range: lsp.Range{
				Start: lsp.Position{Line: line, Character: 0},
				End:   lsp.Position{Line: line, Character: end},
			},
			Severity: lsp.Warning,
			Source:   DiagnosticSource,
			Message:  fmt.Sprintf("prologue %s is missing %s", f.Name, strings.Join(f.Missing, ", ")),
		})
	}

	slog.Debug("diagnosed document", "uri", uri, "findings", len(findings))
	return diagnostics, nil
}

// RenderDoc converts the stored text of a document into a document written next to
// its source file, returning the absolute path of the output file
func (s *DocumentService) RenderDoc(uri lsp.DocumentURI) (string, error) {
	text, ok := s.Text(uri)
	if !ok {
		return "", fmt.Errorf("document not open: %s", uri)
	}

	fsPath, err := s.URIToPath(uri)
	if err != nil {
		return "", fmt.Errorf("invalid document URI: %w", err)
	}

	outPath := protex.ResolveOutputPath(filepath.Dir(fsPath), fsPath, s.renderTransformer.Extension())

	if _, err := s.renderTransformer.TransformToPath(outPath, []transformer.Input{{
		Path:    fsPath,
		Options: s.opts.RenderOpts.Run.File,
		Content: strings.NewReader(text),
	}}); err != nil {
		return "", fmt.Errorf("transform error: %w", err)
	}

	slog.Debug("rendered document", "uri", uri, "output", outPath)
	return protex.MustAbs(outPath), nil
}

// URIToPath converts an LSP URI to a filesystem path
func (s *DocumentService) URIToPath(uri lsp.DocumentURI) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// PathToURI converts a filesystem path to an LSP URI
func (s *DocumentService) PathToURI(path string) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + path)
}
