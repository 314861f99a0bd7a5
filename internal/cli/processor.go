package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/jwtly10/protex"
	"github.com/jwtly10/protex/internal/transformer"
)

const (
	maxFiles = 1000
)

// Result describes a finished run
type Result struct {
	// Output file, empty for standard output
	OutPath   string
	Files     int
	Prologues int
	Duration  time.Duration
}

type Processor struct {
	transformer *transformer.Transformer
	opts        transformer.TransformOptions
}

func NewProcessor(opts transformer.TransformOptions) (*Processor, error) {
	t, err := transformer.NewTransformer(opts)
	if err != nil {
		return nil, err
	}
	return &Processor{
		transformer: t,
		opts:        opts,
	}, nil
}

// Expand replaces directory inputs by the source files found beneath them.
//
// Files found in a directory have their language detected from their name.
func (p *Processor) Expand(inputs []transformer.Input) ([]transformer.Input, error) {
	var out []transformer.Input
	for _, in := range inputs {
		if in.Content != nil || in.Path == protex.StdinName || in.Path == "" {
			out = append(out, in)
			continue
		}

		info, err := os.Stat(in.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", protex.ErrUnreadableSource, err)
		}
		if !info.IsDir() {
			out = append(out, in)
			continue
		}

		files, err := p.findFiles(in.Path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			opts := in.Options
			opts.Language = protex.LanguageAuto
			out = append(out, transformer.Input{Path: f, Options: opts})
		}
	}
	return out, nil
}

// findFiles walks the directory tree starting at root and returns the source files
// of a supported language
//
// If a .git directory is found, it will be used to load .gitignore patterns.
func (p *Processor) findFiles(root string) ([]string, error) {
	var files []string
	var patterns []gitignore.Pattern

	// If .git exists, set up gitignore patterns
	if _, err := os.Stat(filepath.Join(root, ".git")); err == nil {
		patterns = append(patterns, gitignore.ParsePattern(".git/", nil))

		if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
			for _, p := range strings.Split(string(data), "\n") {
				if p = strings.TrimSpace(p); p != "" && !strings.HasPrefix(p, "#") {
					patterns = append(patterns, gitignore.ParsePattern(p, nil))
				}
			}
		}
	}

	matcher := gitignore.NewMatcher(patterns)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		pathComponents := strings.Split(relPath, string(os.PathSeparator))

		if len(patterns) > 0 && relPath != "." {
			if matcher.Match(pathComponents, info.IsDir()) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if info.IsDir() {
			return nil
		}

		if _, ok := protex.DetectProfile(path); ok {
			if len(files) >= maxFiles {
				return fmt.Errorf("max files limit reached (%d)", maxFiles)
			}
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no source files found in %s", root)
	}

	slog.Debug("found files to process", "root", root, "count", len(files))
	return files, nil
}

// Process converts inputs into one document.
//
// Inputs are processed strictly in order. The document goes to w when output is empty
// or "-", otherwise to the file resolved from output.
func (p *Processor) Process(w io.Writer, output string, inputs []transformer.Input) (Result, error) {
	startTime := time.Now()

	files, err := p.Expand(inputs)
	if err != nil {
		return Result{}, err
	}

	first := ""
	if len(files) > 0 {
		first = files[0].Path
	}
	outPath := protex.ResolveOutputPath(output, first, p.transformer.Extension())

	var st *protex.State
	if outPath == "" {
		st, err = p.transformer.Transform(w, files)
	} else {
		st, err = p.transformer.TransformToPath(outPath, files)
	}
	if err != nil {
		if errors.Is(err, protex.ErrUnreadableSource) {
			slog.Debug("aborting run on unreadable source", "error", err)
		}
		return Result{}, err
	}

	res := Result{
		OutPath:   outPath,
		Files:     len(files),
		Prologues: len(st.Prologues),
		Duration:  time.Since(startTime),
	}
	slog.Debug("conversion completed", "files", res.Files, "prologues", res.Prologues, "duration", res.Duration)
	return res, nil
}

// Lint reports the prologues of inputs lacking required fields
func (p *Processor) Lint(inputs []transformer.Input) ([]protex.Finding, error) {
	files, err := p.Expand(inputs)
	if err != nil {
		return nil, err
	}
	return p.transformer.Lint(files)
}
