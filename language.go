package protex

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// ErrUnknownLanguage is returned when a language code does not name a supported profile
var ErrUnknownLanguage = errors.New("unknown language")

// DefaultLanguage is the profile used when nothing else is selected (Fortran90)
const DefaultLanguage = "F"

// Profile describes how a source language marks its comments and how its code
// should be highlighted in verbatim regions.
type Profile struct {
	// Short code used on the command line (F, A, C, S, G, P)
	Code string
	// Display name of the language
	Name string
	// The comment symbol that prefixes every marker
	Comment string
	// Highlighting identifier passed to verbatim regions
	Highlight string
}

var profiles = map[string]Profile{
	"F": {Code: "F", Name: "Fortran90", Comment: "!", Highlight: "fortran"},
	"A": {Code: "A", Name: "Ada", Comment: "--", Highlight: "ada"},
	"C": {Code: "C", Name: "C++", Comment: "//", Highlight: "c"},
	"S": {Code: "S", Name: "Shell", Comment: "#", Highlight: "bash"},
	"G": {Code: "G", Name: "GrADS", Comment: "*", Highlight: "bash"},
	"P": {Code: "P", Name: "Python", Comment: "#", Highlight: "python"},
}

// chroma lexer names mapped to profile codes
var lexerProfiles = map[string]string{
	"fortran":      "F",
	"fortranfixed": "F",
	"ada":          "A",
	"c++":          "C",
	"c":            "C",
	"bash":         "S",
	"python":       "P",
	"python 2":     "P",
}

// LookupProfile returns the profile for a language code
func LookupProfile(code string) (Profile, error) {
	p, ok := profiles[code]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return p, nil
}

// Profiles returns every supported profile ordered by code
func Profiles() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// DetectProfile guesses the profile of a source file from its name.
//
// GrADS scripts are recognised by their .gs extension, everything else is matched
// through the chroma lexer registry. The second return value is false when the
// name matched nothing and the default profile was returned.
func DetectProfile(filename string) (Profile, bool) {
	if strings.EqualFold(filepath.Ext(filename), ".gs") {
		return profiles["G"], true
	}

	if lexer := lexers.Match(filepath.Base(filename)); lexer != nil {
		name := strings.ToLower(lexer.Config().Name)
		if code, ok := lexerProfiles[name]; ok {
			return profiles[code], true
		}
	}

	return profiles[DefaultLanguage], false
}
