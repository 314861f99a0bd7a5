package protex

// Role identifies a structural marker of the vocabulary
type Role int

const (
	RolePrologueBegin Role = iota
	RolePrologueEnd
	RoleInternalBegin
	RoleInternalEnd
	RoleCodeBegin
	RoleCodeEnd
	RoleIntroBegin
	RoleIntroEnd
	RoleExampleBegin
	RoleExampleEnd
	RoleResourceBegin
	RoleResourceEnd
	RoleOverloadedRoutine
	RoleContainedRoutine
	RoleProgram

	numRoles
)

var roleSuffixes = [numRoles]string{
	RolePrologueBegin:     "BOP",
	RolePrologueEnd:       "EOP",
	RoleInternalBegin:     "BOPI",
	RoleInternalEnd:       "EOPI",
	RoleCodeBegin:         "BOC",
	RoleCodeEnd:           "EOC",
	RoleIntroBegin:        "BOI",
	RoleIntroEnd:          "EOI",
	RoleExampleBegin:      "BOE",
	RoleExampleEnd:        "EOE",
	RoleResourceBegin:     "BOR",
	RoleResourceEnd:       "EOR",
	RoleOverloadedRoutine: "IIROUTINE:",
	RoleContainedRoutine:  "CROUTINE:",
	RoleProgram:           "PROGRAM:",
}

// Suffix returns the fixed part of the marker, without comment symbol
func (r Role) Suffix() string {
	if r < 0 || r >= numRoles {
		return ""
	}
	return roleSuffixes[r]
}

// Field markers are literal whatever the comment symbol of the language is.
const (
	MarkerModule       = "!MODULE:"
	MarkerProgram      = "!PROGRAM:"
	MarkerRoutine      = "!ROUTINE:"
	MarkerFunction     = "!FUNCTION:"
	MarkerIRoutine     = "!IROUTINE:"
	MarkerIFunction    = "!IFUNCTION:"
	MarkerIIRoutine    = "!IIROUTINE:"
	MarkerCRoutine     = "!CROUTINE:"
	MarkerQuote        = "!QUOTE:"
	MarkerDescription  = "!DESCRIPTION:"
	MarkerTitle        = "!TITLE:"
	MarkerAuthors      = "!AUTHORS:"
	MarkerAffiliation  = "!AFFILIATION:"
	MarkerDate         = "!DATE:"
	MarkerIntroduction = "!INTRODUCTION:"
)

// MarkerSet is the marker vocabulary of one language
type MarkerSet struct {
	Comment string
	markers [numRoles]string
}

// Get returns the literal marker for a role
func (m MarkerSet) Get(r Role) string {
	if r < 0 || r >= numRoles {
		return ""
	}
	return m.markers[r]
}

// Is reports whether token is the marker of the given role
func (m MarkerSet) Is(token string, r Role) bool {
	return token != "" && token == m.Get(r)
}

// NewMarkerSet builds the marker vocabulary for a comment symbol
func NewMarkerSet(comment string) MarkerSet {
	m := MarkerSet{Comment: comment}
	for r := Role(0); r < numRoles; r++ {
		m.markers[r] = comment + roleSuffixes[r]
	}
	return m
}

// ResolveMarkers returns the marker vocabulary of a language code
func ResolveMarkers(code string) (MarkerSet, error) {
	p, err := LookupProfile(code)
	if err != nil {
		return MarkerSet{}, err
	}
	return p.Markers(), nil
}

// Markers returns the marker vocabulary of the profile
func (p Profile) Markers() MarkerSet {
	return NewMarkerSet(p.Comment)
}
