package protex

import (
	"fmt"
	"strings"
)

type shortLabel int

const (
	shortNone shortLabel = iota
	// second word of the content
	shortSecond
	// every word after the first
	shortRest
)

type sourcePolicy int

const (
	// the source file never appears in the heading
	sourceNever sourcePolicy = iota
	// the source file appears unless suppressed for the file
	sourceOptional
	// the source file always appears, even when suppressed
	sourceAlways
)

// fieldRule is the formatting rule of a primary field marker
type fieldRule struct {
	level  HeadingLevel
	title  func(content string) string
	short  shortLabel
	source sourcePolicy
	// numbered headings take part in new page mode
	numbered bool
}

func plainTitle(content string) string { return content }

// module and program headings read "Fortran:" for every language
func fortranTitle(what string) func(string) string {
	return func(content string) string {
		return fmt.Sprintf("Fortran: %s %s", what, content)
	}
}

var primaryRules = map[string]fieldRule{
	MarkerModule:   {level: LevelSubsection, title: fortranTitle("Module Interface"), source: sourceOptional, numbered: true},
	MarkerProgram:  {level: LevelSubsection, title: fortranTitle("Main Program"), source: sourceOptional, numbered: true},
	MarkerRoutine:  {level: LevelSubsubsection, title: plainTitle, source: sourceOptional, numbered: true},
	MarkerFunction: {level: LevelSubsubsection, title: plainTitle, source: sourceAlways, numbered: true},

	MarkerIRoutine:  {level: LevelSubsubsection, title: plainTitle, short: shortSecond},
	MarkerIFunction: {level: LevelSubsubsection, title: plainTitle, short: shortSecond},
	MarkerIIRoutine: {level: LevelSubsubsection, title: plainTitle, short: shortRest},
	MarkerCRoutine:  {level: LevelSubsubsection, title: plainTitle, short: shortSecond},
}

// language specific spellings of some primary markers, resolved through the marker set
var primaryRoles = map[Role]string{
	RoleOverloadedRoutine: MarkerIIRoutine,
	RoleContainedRoutine:  MarkerCRoutine,
	RoleProgram:           MarkerProgram,
}

// words that make a keyword label emphasized when found in the marker line
var emphasisWords = []string{"USES", "INPUT", "OUTPUT", "PARAMETERS", "VALUE", "ARGUMENTS", "INTERFACE"}

// Heading is a formatted primary field
type Heading struct {
	Level    HeadingLevel
	Text     string
	Short    string
	Numbered bool
	// escaped content of the field, the name of the documented entity
	Name string
}

// Keyword is a matched keyword field marker
type Keyword struct {
	Key        string
	Label      string
	Emphasized bool
}

// Dispatcher maps field markers to their formatting rules.
//
// It is built once per run from the configured keyword list.
type Dispatcher struct {
	keys []string
}

// NewDispatcher creates a dispatcher recognising keys in the given order
func NewDispatcher(keys []string) *Dispatcher {
	k := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			k = append(k, key)
		}
	}
	return &Dispatcher{keys: k}
}

func (d *Dispatcher) rule(token string, markers MarkerSet) (fieldRule, bool) {
	if r, ok := primaryRules[token]; ok {
		return r, true
	}
	for role, marker := range primaryRoles {
		if markers.Is(token, role) {
			return primaryRules[marker], true
		}
	}
	return fieldRule{}, false
}

// Heading formats the primary field introduced by token.
//
// content are the tokens following the marker, file is the escaped label of the
// source file. The boolean is false when token is not a primary marker.
func (d *Dispatcher) Heading(token string, markers MarkerSet, content []string, file string, noSource bool) (Heading, bool) {
	r, ok := d.rule(token, markers)
	if !ok {
		return Heading{}, false
	}

	name := Escape(strings.Join(content, " "))
	h := Heading{
		Level:    r.level,
		Text:     r.title(name),
		Numbered: r.numbered,
		Name:     name,
	}

	if r.source == sourceAlways || (r.source == sourceOptional && !noSource) {
		h.Text = fmt.Sprintf("%s (Source File: %s)", h.Text, file)
	}

	words := strings.Fields(name)
	switch r.short {
	case shortSecond:
		if len(words) > 1 {
			h.Short = words[1]
		}
	case shortRest:
		if len(words) > 1 {
			h.Short = strings.Join(words[1:], " ")
		}
	}

	return h, true
}

// MatchKeyword finds the first configured keyword contained in line
func (d *Dispatcher) MatchKeyword(line string) (Keyword, bool) {
	for _, key := range d.keys {
		if !strings.Contains(line, key) {
			continue
		}
		k := Keyword{
			Key:   key,
			Label: Escape(strings.TrimPrefix(key, "!")),
		}
		for _, w := range emphasisWords {
			if strings.Contains(line, w) {
				k.Emphasized = true
				break
			}
		}
		return k, true
	}
	return Keyword{}, false
}
