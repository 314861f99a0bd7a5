package protex

import "fmt"

// Region is the position of the state machine inside the document.
//
// The three flags are toggled independently but only four combinations are valid:
//
//	prologue source verb
//	   T       F     F    prologue header or field text
//	   T       F     T    verbatim field body inside a prologue
//	   F       T     T    raw source block
//	   F       F     F    outside any region
type Region struct {
	Prologue bool
	Source   bool
	Verb     bool
}

func (r Region) valid() bool {
	switch {
	case r.Prologue && !r.Source:
		return true
	case !r.Prologue && r.Source && r.Verb:
		return true
	case !r.Prologue && !r.Source && !r.Verb:
		return true
	}
	return false
}

func (r Region) String() string {
	return fmt.Sprintf("prologue=%t source=%t verb=%t", r.Prologue, r.Source, r.Verb)
}

// TitlePage holds the fields collected from the introduction
type TitlePage struct {
	Title       string
	Author      string
	Affiliation string
	Date        string
	// Set once any of the fields above was given
	Requested bool
}

// PrologueSummary records which of the required fields a prologue carried.
//
// The record is informational, conversion output never depends on it.
type PrologueSummary struct {
	// The source file label and the line of the begin marker
	File string
	Line int
	// Content of the name marker, UNKNOWN when there was none
	Name     string
	HaveName bool
	HaveDesc bool
	HaveIntf bool
	HaveHist bool
}

// Complete reports whether every required field was present
func (p PrologueSummary) Complete() bool {
	return p.HaveName && p.HaveDesc && p.HaveIntf && p.HaveHist
}

// State is the document state of one run.
//
// It is created once per run and passed to every file processed in that run, so
// that for example the document begin is only emitted once.
type State struct {
	region   Region
	intro    bool
	resource bool
	// no prologue or code block seen yet
	first bool
	begun bool
	// a numbered heading was emitted, for new page mode
	headed bool

	Title TitlePage

	current   *PrologueSummary
	Prologues []PrologueSummary
}

// NewState creates the state for a new run
func NewState() *State {
	return &State{first: true}
}

func (s *State) Region() Region   { return s.region }
func (s *State) InIntro() bool    { return s.intro }
func (s *State) InResource() bool { return s.resource }
func (s *State) Begun() bool      { return s.begun }

func (s *State) set(r Region) {
	if !r.valid() {
		panic(fmt.Sprintf("protex: invalid region transition to %s", r))
	}
	if r.Prologue && s.intro {
		panic("protex: prologue opened inside an introduction")
	}
	s.region = r
}

func (s *State) openPrologue() {
	s.set(Region{Prologue: true})
}

// closePrologue leaves the prologue, its verbatim body must be closed already
func (s *State) closePrologue() bool {
	if !s.region.Prologue {
		return false
	}
	s.set(Region{})
	s.finishSummary()
	return true
}

func (s *State) openFieldVerbatim() {
	s.set(Region{Prologue: true, Verb: true})
}

func (s *State) closeFieldVerbatim() bool {
	if !s.region.Prologue || !s.region.Verb {
		return false
	}
	s.set(Region{Prologue: true})
	return true
}

func (s *State) openCode() {
	s.set(Region{Source: true, Verb: true})
}

func (s *State) closeCode() bool {
	if !s.region.Source {
		return false
	}
	s.set(Region{})
	return true
}

func (s *State) startSummary(file string, line int) {
	s.finishSummary()
	s.current = &PrologueSummary{File: file, Line: line, Name: "UNKNOWN"}
}

func (s *State) finishSummary() {
	if s.current == nil {
		return
	}
	s.Prologues = append(s.Prologues, *s.current)
	s.current = nil
}

func (s *State) summary() *PrologueSummary {
	if s.current == nil {
		// example regions and prologues continued from a previous file have no
		// begin marker of their own, record into a throwaway summary
		return &PrologueSummary{}
	}
	return s.current
}
