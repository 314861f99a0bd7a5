package transformer

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwtly10/protex"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const FormatHTML = "html"

type TransformOptions struct {
	// Output format name: latex, markdown or html
	Format string
	// If true, no backup will be created
	NoBackup bool
	// Run-wide conversion options
	Run protex.Options
}

func (t *TransformOptions) Pretty() string {
	return fmt.Sprintf("format=%s backup=%s bare=%s language=%s",
		formatName(t.Format),
		boolToText(!t.NoBackup),
		boolToText(t.Run.Bare),
		t.Run.File.Language)
}

func formatName(name string) string {
	if name == "" {
		return "latex"
	}
	return strings.ToLower(name)
}

func boolToText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Input is one source of a run together with the options scoped to it
type Input struct {
	// File path, protex.StdinName for standard input
	Path    string
	Options protex.FileOptions
	// Content is read instead of Path when set
	Content io.Reader
}

type Transformer struct {
	format protex.Format
	html   bool
	backup *protex.BackupManager
	md     goldmark.Markdown

	opts TransformOptions

	// Stdin is read for inputs named protex.StdinName
	Stdin io.Reader
	// Now is the clock used for file header dates
	Now func() time.Time
}

// NewTransformer creates a new Transformer instance with the specified options [TransformOptions]
func NewTransformer(opts TransformOptions) (*Transformer, error) {
	if err := opts.Run.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	t := &Transformer{
		backup: protex.NewBackupManager(),
		opts:   opts,
		Stdin:  os.Stdin,
		Now:    time.Now,
	}

	if formatName(opts.Format) == FormatHTML {
		t.html = true
		t.format = protex.Markdown{}
		t.md = goldmark.New(goldmark.WithExtensions(extension.Table))
		return t, nil
	}

	f, err := protex.FormatByName(opts.Format)
	if err != nil {
		return nil, err
	}
	t.format = f
	return t, nil
}

// Extension returns the file extension of the documents produced
func (t *Transformer) Extension() string {
	if t.html {
		return ".html"
	}
	return t.format.Extension()
}

// Transform converts inputs, in order, into one document written to w
func (t *Transformer) Transform(w io.Writer, inputs []Input) (*protex.State, error) {
	if !t.html {
		return t.convert(w, inputs)
	}

	var buf bytes.Buffer
	st, err := t.convert(&buf, inputs)
	if err != nil {
		return st, err
	}

	title := "ProTeX"
	if st.Title.Requested && st.Title.Title != "" {
		title = strings.ReplaceAll(st.Title.Title, `\_`, "_")
	}

	var body bytes.Buffer
	if err := t.md.Convert(buf.Bytes(), &body); err != nil {
		return st, fmt.Errorf("render html: %w", err)
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title)); err != nil {
		return st, fmt.Errorf("write html: %w", err)
	}
	if _, err := body.WriteTo(w); err != nil {
		return st, fmt.Errorf("write html: %w", err)
	}
	if _, err := io.WriteString(w, "</body>\n</html>\n"); err != nil {
		return st, fmt.Errorf("write html: %w", err)
	}
	return st, nil
}

// TransformToPath converts inputs into the file at path, backing up an existing file
func (t *Transformer) TransformToPath(path string, inputs []Input) (*protex.State, error) {
	if path == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if err := checkInputs(inputs); err != nil {
		return nil, err
	}

	if !t.opts.NoBackup {
		bkPath, err := t.backup.CreateBackupOf(path)
		if err != nil {
			return nil, fmt.Errorf("backup error: %w", err)
		}
		if bkPath != "" {
			slog.Debug("previous output preserved", "backup", bkPath, "output", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	return t.Transform(out, inputs)
}

// checkInputs resolves the language of every input so that a bad code fails the
// run before anything is written
func checkInputs(inputs []Input) error {
	for _, in := range inputs {
		if _, err := in.Options.Profile(in.Path); err != nil {
			return fmt.Errorf("input %q: %w", in.Path, err)
		}
	}
	return nil
}

func (t *Transformer) convert(w io.Writer, inputs []Input) (*protex.State, error) {
	if err := checkInputs(inputs); err != nil {
		return nil, err
	}

	e, err := protex.NewEngine(w, t.format, t.opts.Run)
	if err != nil {
		return nil, err
	}
	e.Now = t.Now

	st := protex.NewState()
	if err := e.Begin(); err != nil {
		return st, fmt.Errorf("write error: %w", err)
	}

	for _, in := range inputs {
		if err := t.process(e, st, in); err != nil {
			return st, err
		}
	}

	if err := e.End(st); err != nil {
		return st, fmt.Errorf("write error: %w", err)
	}
	return st, nil
}

func (t *Transformer) process(e *protex.Engine, st *protex.State, in Input) error {
	startTime := time.Now()
	r, closeFn, err := t.open(in)
	if err != nil {
		return err
	}
	defer closeFn()

	opts := in.Options
	if err := e.Process(st, protex.Source{Name: in.Path, Reader: r, Options: &opts}); err != nil {
		return err
	}

	slog.Debug("file processed", "path", in.Path, "duration", time.Since(startTime))
	return nil
}

func (t *Transformer) open(in Input) (io.Reader, func(), error) {
	if in.Content != nil {
		return in.Content, func() {}, nil
	}

	path := in.Path
	if path == "" || path == protex.StdinName {
		return t.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", protex.ErrUnreadableSource, err)
	}
	return f, func() { f.Close() }, nil
}

// Lint reports the prologues of inputs lacking required fields
func (t *Transformer) Lint(inputs []Input) ([]protex.Finding, error) {
	var findings []protex.Finding
	for _, in := range inputs {
		r, closeFn, err := t.open(in)
		if err != nil {
			return nil, err
		}

		opts := in.Options
		run := t.opts.Run
		run.File = opts
		found, err := protex.Lint(protex.Source{Name: in.Path, Reader: r, Options: &opts}, run)
		closeFn()
		if err != nil {
			return nil, err
		}
		findings = append(findings, found...)
	}
	return findings, nil
}
