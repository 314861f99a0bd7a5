package protex

import (
	"fmt"
	"io"
	"strings"
)

// Finding reports a prologue that lacks required fields
type Finding struct {
	File    string   `json:"file" yaml:"file"`
	Line    int      `json:"line" yaml:"line"`
	Name    string   `json:"name" yaml:"name"`
	Missing []string `json:"missing" yaml:"missing"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: prologue %s is missing %s", f.File, f.Line, f.Name, strings.Join(f.Missing, ", "))
}

// Missing lists the names of the required fields the prologue did not carry
func (p PrologueSummary) Missing() []string {
	var missing []string
	if !p.HaveName {
		missing = append(missing, "name")
	}
	if !p.HaveDesc {
		missing = append(missing, "description")
	}
	if !p.HaveIntf {
		missing = append(missing, "interface")
	}
	if !p.HaveHist {
		missing = append(missing, "revision history")
	}
	return missing
}

// Findings turns the prologues recorded in a state into findings
func Findings(st *State) []Finding {
	var out []Finding
	for _, p := range st.Prologues {
		if p.Complete() {
			continue
		}
		out = append(out, Finding{
			File:    p.File,
			Line:    p.Line,
			Name:    strings.ReplaceAll(p.Name, `\_`, "_"),
			Missing: p.Missing(),
		})
	}
	return out
}

// Lint runs the state machine over one source without producing a document and
// reports the prologues lacking required fields.
func Lint(src Source, opts Options) ([]Finding, error) {
	opts.Bare = true
	e, err := NewEngine(io.Discard, LaTeX{}, opts)
	if err != nil {
		return nil, err
	}

	st := NewState()
	if err := e.Process(st, src); err != nil {
		return nil, err
	}
	if err := e.End(st); err != nil {
		return nil, err
	}
	return Findings(st), nil
}
