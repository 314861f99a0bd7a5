package protex

import (
	"fmt"
	"log/slog"
)

// DefaultKeys is the ordered list of keyword field markers recognised in prologues
var DefaultKeys = []string{
	"!INTERFACE:", "!USES:", "!PUBLIC TYPES:", "!PRIVATE TYPES:",
	"!PUBLIC MEMBER FUNCTIONS:", "!PRIVATE MEMBER FUNCTIONS:",
	"!PUBLIC DATA MEMBERS:", "!PARAMETERS:", "!ARGUMENTS:",
	"!DEFINED PARAMETERS:", "!INPUT PARAMETERS:", "!INPUT/OUTPUT PARAMETERS:",
	"!OUTPUT PARAMETERS:", "!RETURN VALUE:", "!REVISION HISTORY:",
	"!BUGS:", "!SEE ALSO:", "!SYSTEM ROUTINES:", "!FILES USED:",
	"!REMARKS:", "!TO DO:", "!CALLING SEQUENCE:", "!AUTHOR:",
	"!CALLED FROM:", "!LOCAL VARIABLES:",
}

// LanguageAuto selects the profile of every file from its name
const LanguageAuto = "auto"

type Flavor string

const (
	FlavorDefault Flavor = ""
	// GEOS and MAPL documents carry their own section structure, so the per
	// file header and the prologue section heading are left out.
	FlavorGEOS Flavor = "geos"
	FlavorMAPL Flavor = "mapl"
)

func (f Flavor) suppressHeaders() bool {
	return f == FlavorGEOS || f == FlavorMAPL
}

// Options hold the settings that apply to a whole run
type Options struct {
	// No preamble, document begin or end
	Bare bool
	// Custom document class and package, empty for article
	Style  string
	Flavor Flavor
	// Ordered keyword field markers, DefaultKeys when nil
	Keys []string
	// Default options for files that do not carry their own
	File FileOptions
}

// FileOptions hold the settings that can change from one input file to the next
type FileOptions struct {
	// Language code or LanguageAuto
	Language string
	// Omit prologues marked as internal
	Internal bool
	// Page break before each module, program, routine and function heading
	NewPage bool
	// Listing mode. Accepted for compatibility, it has no effect on output.
	Listing bool
	// Drop code between code markers
	ShutUp bool
	// Put description bodies in verbatim regions
	NoLaTeX bool
	// Leave the source file name out of headings
	NoSourceInfo bool
}

// DefaultOptions returns the options of a plain run
func DefaultOptions() Options {
	return Options{
		Keys: DefaultKeys,
		File: FileOptions{Language: DefaultLanguage},
	}
}

func (o Options) keys() []string {
	if o.Keys == nil {
		return DefaultKeys
	}
	return o.Keys
}

// Validate checks the options before any processing begins
func (o Options) Validate() error {
	switch o.Flavor {
	case FlavorDefault, FlavorGEOS, FlavorMAPL:
	default:
		return fmt.Errorf("unknown flavor %q", o.Flavor)
	}
	return o.File.Validate()
}

// Validate checks that the language of the file options is known
func (f FileOptions) Validate() error {
	if f.Language == "" || f.Language == LanguageAuto {
		return nil
	}
	_, err := LookupProfile(f.Language)
	return err
}

// Profile resolves the language profile to use for the named file
func (f FileOptions) Profile(filename string) (Profile, error) {
	switch f.Language {
	case "":
		return LookupProfile(DefaultLanguage)
	case LanguageAuto:
		p, ok := DetectProfile(filename)
		if !ok {
			slog.Debug("no language detected, using default", "file", filename, "language", p.Code)
		}
		return p, nil
	default:
		return LookupProfile(f.Language)
	}
}
