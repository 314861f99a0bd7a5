package protex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// ErrUnreadableSource is returned when an input source cannot be opened or read
var ErrUnreadableSource = errors.New("unreadable source")

// StdinName is the file name that stands for standard input
const StdinName = "-"

// Source is one input stream of a run
type Source struct {
	// File name as given by the user, StdinName or empty for standard input
	Name   string
	Reader io.Reader
	// Options scoped to this file, the run defaults when nil
	Options *FileOptions
}

// Label returns the escaped name of the source as shown in the document
func (s Source) Label() string {
	if s.Name == "" || s.Name == StdinName {
		return "Standard Input"
	}
	return Escape(filepath.Base(s.Name))
}

type emitWriter struct {
	w   io.Writer
	err error
}

func (ew *emitWriter) emit(s string) {
	if s == "" || ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// Engine converts prologue annotated sources into a document.
//
// The engine holds the run-wide settings and writes to a single output stream. The
// document state is owned by the caller and threaded through every Process call of
// the run.
type Engine struct {
	out      *emitWriter
	format   Format
	opts     Options
	dispatch *Dispatcher

	// Now is the clock used for file header dates
	Now func() time.Time
}

// NewEngine creates an engine writing format to w
func NewEngine(w io.Writer, format Format, opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if format == nil {
		format = LaTeX{}
	}

	return &Engine{
		out:      &emitWriter{w: w},
		format:   format,
		opts:     opts,
		dispatch: NewDispatcher(opts.keys()),
		Now:      time.Now,
	}, nil
}

// Begin writes the run boilerplate that precedes every input
func (e *Engine) Begin() error {
	e.out.emit(e.format.Notice())
	if !e.opts.Bare {
		e.out.emit(e.format.Preamble(e.opts.Style))
	}
	e.out.emit(e.format.Macros())
	return e.out.err
}

// End closes the document
func (e *Engine) End(st *State) error {
	st.finishSummary()
	if !e.opts.Bare {
		e.out.emit(e.format.EndDocument())
	}
	return e.out.err
}

// Process streams one source through the state machine.
//
// A read failure is returned wrapped in ErrUnreadableSource, output already written
// for the source stays written.
func (e *Engine) Process(st *State, src Source) error {
	fo := e.opts.File
	if src.Options != nil {
		fo = *src.Options
	}

	profile, err := fo.Profile(src.Name)
	if err != nil {
		return err
	}

	f := &fileRun{
		e:       e,
		st:      st,
		opts:    fo,
		profile: profile,
		markers: profile.Markers(),
		label:   src.Label(),
		name:    src.Name,
	}
	if f.name == "" {
		f.name = StdinName
	}

	slog.Debug("processing source", "name", src.Label(), "language", profile.Name)

	if !e.opts.Flavor.suppressHeaders() {
		e.out.emit(e.format.FileHeader(f.label, e.Now().Format("2006-01-02 15:04:05")))
	}

	r := bufio.NewReader(src.Reader)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			f.lineNo++
			f.handle(line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrUnreadableSource, src.Label(), err)
		}
		if e.out.err != nil {
			return e.out.err
		}
	}

	e.out.emit(e.format.Text(""))
	if st.region.Source {
		f.endCode()
	} else {
		f.closeVerbatim()
	}

	return e.out.err
}

// Convert runs a complete conversion of sources into w and returns the final state
func Convert(w io.Writer, format Format, opts Options, sources ...Source) (*State, error) {
	e, err := NewEngine(w, format, opts)
	if err != nil {
		return nil, err
	}

	st := NewState()
	if err := e.Begin(); err != nil {
		return st, err
	}
	for _, src := range sources {
		if err := e.Process(st, src); err != nil {
			return st, err
		}
	}
	return st, e.End(st)
}

// fileRun is the per file context of the state machine
type fileRun struct {
	e       *Engine
	st      *State
	opts    FileOptions
	profile Profile
	markers MarkerSet
	label   string
	name    string
	lineNo  int
}

func (f *fileRun) emit(s string) {
	f.e.out.emit(s)
}

func (f *fileRun) handle(text string) {
	raw := strings.TrimRightFunc(text, unicode.IsSpace)
	line := strings.TrimLeftFunc(raw, unicode.IsSpace)
	fields := strings.Fields(line)

	mi := 0
	if len(fields) > 0 && fields[0] == f.markers.Comment {
		mi = 1
	}
	if len(fields) <= mi {
		return
	}

	tok := fields[mi]
	st := f.st
	format := f.e.format

	if st.resource {
		if f.markers.Is(tok, RoleResourceEnd) {
			st.resource = false
		} else {
			f.resourceRow(line)
		}
		return
	}

	if tok == MarkerQuote {
		f.emit(format.Text(strings.Join(fields[mi+1:], " ")))
		return
	}

	if f.markers.Is(tok, RoleIntroBegin) {
		f.beginIntro()
		return
	}
	if st.intro && f.introField(fields, mi) {
		return
	}
	if f.markers.Is(tok, RoleIntroEnd) {
		f.endIntro()
		return
	}

	if f.markers.Is(tok, RoleResourceBegin) {
		f.emit(format.ResourceTable())
		st.resource = true
		return
	}

	if f.markers.Is(tok, RolePrologueBegin) {
		f.beginPrologue()
		return
	}
	if f.markers.Is(tok, RoleInternalBegin) {
		if f.opts.Internal {
			slog.Debug("skipping internal prologue", "file", f.label, "line", f.lineNo)
			f.closeVerbatim()
			st.closePrologue()
		} else {
			f.beginPrologue()
		}
		return
	}

	if st.region.Prologue && f.prologueField(line, fields, mi) {
		return
	}

	switch {
	case f.markers.Is(tok, RoleCodeBegin):
		f.beginCode()
		return
	case f.markers.Is(tok, RoleCodeEnd):
		f.closeVerbatim()
		f.endCode()
		return
	case f.markers.Is(tok, RoleExampleBegin):
		f.enterPrologue()
		f.emit(format.ExampleSeparator())
		st.first = false
		st.openPrologue()
		return
	case f.markers.Is(tok, RoleExampleEnd):
		f.closeVerbatim()
		st.closePrologue()
		return
	}

	if st.region.Source {
		f.emit(format.Text(raw))
		return
	}

	if st.region.Prologue || st.intro {
		f.emit(format.Text(strings.TrimPrefix(line, f.markers.Comment)))
	}
}

func (f *fileRun) beginDocument() {
	if f.e.opts.Bare || f.st.begun {
		return
	}
	f.emit(f.e.format.BeginDocument(f.st.Title))
	f.st.begun = true
}

func (f *fileRun) beginIntro() {
	f.closeVerbatim()
	f.st.closePrologue()
	f.endCode()
	f.st.intro = true
}

func (f *fileRun) endIntro() {
	if !f.st.intro {
		return
	}
	f.emit(f.e.format.IntroEnd())
	f.st.intro = false
}

// introField handles the title page keys and the introduction heading.
//
// The key is looked up at the marker position first, then on the token after it.
func (f *fileRun) introField(fields []string, mi int) bool {
	idx := -1
	for _, i := range []int{mi, mi + 1} {
		if i < len(fields) && isIntroKey(fields[i]) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	rest := Escape(strings.Join(fields[idx+1:], " "))
	t := &f.st.Title
	switch fields[idx] {
	case MarkerTitle:
		t.Title = rest
		t.Requested = true
	case MarkerAuthors:
		t.Author = rest
		t.Requested = true
	case MarkerAffiliation:
		t.Affiliation = rest
		t.Requested = true
	case MarkerDate:
		t.Date = rest
		t.Requested = true
	case MarkerIntroduction:
		f.beginDocument()
		f.emit(f.e.format.IntroSection(rest))
	}
	return true
}

func isIntroKey(tok string) bool {
	switch tok {
	case MarkerTitle, MarkerAuthors, MarkerAffiliation, MarkerDate, MarkerIntroduction:
		return true
	}
	return false
}

// enterPrologue closes whatever region is open before a prologue like region starts
func (f *fileRun) enterPrologue() {
	f.endIntro()
	if f.st.region.Source {
		f.endCode()
	} else {
		f.closeVerbatim()
	}
}

func (f *fileRun) beginPrologue() {
	st := f.st
	f.enterPrologue()
	f.beginDocument()

	if !st.first {
		f.emit(f.e.format.Separator())
	} else if !f.e.opts.Bare && !f.e.opts.Flavor.suppressHeaders() {
		f.emit(f.e.format.PrologueSection())
	}

	st.first = false
	st.openPrologue()
	st.startSummary(f.name, f.lineNo)
}

// prologueField dispatches the field markers recognised inside a prologue
func (f *fileRun) prologueField(line string, fields []string, mi int) bool {
	st := f.st
	format := f.e.format
	tok := fields[mi]

	if h, ok := f.e.dispatch.Heading(tok, f.markers, fields[mi+1:], f.label, f.opts.NoSourceInfo); ok {
		f.closeVerbatim()
		if h.Numbered {
			if f.opts.NewPage && st.headed {
				f.emit(format.PageBreak())
			}
			st.headed = true
		}
		f.emit(format.Heading(h.Level, h.Text, h.Short))
		sum := st.summary()
		sum.HaveName = true
		sum.Name = h.Name
		return true
	}

	if strings.Contains(line, MarkerDescription) {
		f.closeVerbatim()
		f.emit(format.DescriptionLabel())
		if f.opts.NoLaTeX {
			f.emit(format.BeginVerbatim(f.profile.Highlight))
			st.openFieldVerbatim()
		}
		// description text is LaTeX written by the author, it is not escaped
		if rest := strings.Join(fields[mi+1:], " "); rest != "" {
			f.emit(format.Text(rest))
		}
		st.summary().HaveDesc = true
		return true
	}

	if k, ok := f.e.dispatch.MatchKeyword(line); ok {
		if !f.closeVerbatim() {
			f.emit(format.FieldSkip())
		}
		f.emit(format.Label(k.Label, k.Emphasized))
		f.emit(format.BeginVerbatim(f.profile.Highlight))
		st.openFieldVerbatim()

		sum := st.summary()
		if strings.Contains(k.Key, "INTERFACE") {
			sum.HaveIntf = true
		}
		if strings.Contains(k.Key, "REVISION HISTORY") {
			sum.HaveHist = true
		}
		return true
	}

	if f.markers.Is(tok, RolePrologueEnd) || f.markers.Is(tok, RoleInternalEnd) {
		f.closeVerbatim()
		st.closePrologue()
		return true
	}

	return false
}

func (f *fileRun) beginCode() {
	st := f.st
	if f.opts.ShutUp {
		f.closeVerbatim()
		st.closePrologue()
		return
	}
	if st.region.Source {
		return
	}
	f.closeVerbatim()
	st.closePrologue()
	f.emit(f.e.format.BeginCode(f.profile.Highlight))
	st.first = false
	st.openCode()
}

func (f *fileRun) endCode() {
	if !f.st.region.Source {
		return
	}
	f.emit(f.e.format.EndVerbatim())
	f.st.closeCode()
	f.emit(f.e.format.EndCode())
}

// closeVerbatim closes a verbatim field body, reporting whether one was open
func (f *fileRun) closeVerbatim() bool {
	if !f.st.closeFieldVerbatim() {
		return false
	}
	f.emit(f.e.format.EndVerbatim())
	return true
}

func (f *fileRun) resourceRow(line string) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		f.emit(f.e.format.Text(line))
		return
	}
	cols := make([]string, len(parts))
	for i, p := range parts {
		cols[i] = Escape(strings.TrimSpace(p))
	}
	f.emit(f.e.format.ResourceRow(cols))
}
