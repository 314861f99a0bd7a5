package protex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherHeading(t *testing.T) {
	fortran, _ := LookupProfile("F")
	cpp, _ := LookupProfile("C")

	tests := []struct {
		name     string
		profile  Profile
		token    string
		content  []string
		noSource bool
		want     Heading
		primary  bool
	}{
		{
			name:    "module",
			profile: fortran,
			token:   "!MODULE:",
			content: []string{"m_grid"},
			want:    Heading{Level: LevelSubsection, Text: "Fortran: Module Interface m\\_grid (Source File: grid.F90)", Numbered: true, Name: "m\\_grid"},
			primary: true,
		},
		{
			name:     "module without source",
			profile:  cpp,
			token:    "!MODULE:",
			content:  []string{"grid"},
			noSource: true,
			want:     Heading{Level: LevelSubsection, Text: "Fortran: Module Interface grid", Numbered: true, Name: "grid"},
			primary:  true,
		},
		{
			name:     "function ignores no source",
			profile:  fortran,
			token:    "!FUNCTION:",
			content:  []string{"area"},
			noSource: true,
			want:     Heading{Level: LevelSubsubsection, Text: "area (Source File: grid.F90)", Numbered: true, Name: "area"},
			primary:  true,
		},
		{
			name:    "contained routine through language marker",
			profile: cpp,
			token:   "//CROUTINE:",
			content: []string{"inner", "helper"},
			want:    Heading{Level: LevelSubsubsection, Text: "inner helper", Short: "helper", Name: "inner helper"},
			primary: true,
		},
		{
			name:    "program",
			profile: fortran,
			token:   "!PROGRAM:",
			content: []string{"driver"},
			want:    Heading{Level: LevelSubsection, Text: "Fortran: Main Program driver (Source File: grid.F90)", Numbered: true, Name: "driver"},
			primary: true,
		},
		{
			name:    "not a primary marker",
			profile: fortran,
			token:   "!INTERFACE:",
			primary: false,
		},
	}

	d := NewDispatcher(DefaultKeys)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markers := tt.profile.Markers()
			h, ok := d.Heading(tt.token, markers, tt.content, "grid.F90", tt.noSource)
			assert.Equal(t, tt.primary, ok)
			if tt.primary {
				assert.Equal(t, tt.want, h)
			}
		})
	}
}

func TestDispatcherMatchKeyword(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		line  string
		want  Keyword
		found bool
	}{
		{
			name:  "emphasized keyword",
			keys:  DefaultKeys,
			line:  "! !INPUT PARAMETERS:",
			want:  Keyword{Key: "!INPUT PARAMETERS:", Label: "INPUT PARAMETERS:", Emphasized: true},
			found: true,
		},
		{
			name:  "plain keyword",
			keys:  DefaultKeys,
			line:  "! !SEE ALSO:",
			want:  Keyword{Key: "!SEE ALSO:", Label: "SEE ALSO:"},
			found: true,
		},
		{
			name:  "first key in list order wins",
			keys:  []string{"!SEE", "!SEE ALSO:"},
			line:  "! !SEE ALSO:",
			want:  Keyword{Key: "!SEE", Label: "SEE"},
			found: true,
		},
		{
			name:  "label is escaped",
			keys:  []string{"!LOCAL_VARS:"},
			line:  "! !LOCAL_VARS:",
			want:  Keyword{Key: "!LOCAL_VARS:", Label: "LOCAL\\_VARS:"},
			found: true,
		},
		{
			name:  "emphasis from anywhere on the line",
			keys:  DefaultKeys,
			line:  "! !REMARKS: see OUTPUT",
			want:  Keyword{Key: "!REMARKS:", Label: "REMARKS:", Emphasized: true},
			found: true,
		},
		{
			name:  "no keyword",
			keys:  DefaultKeys,
			line:  "! just text",
			found: false,
		},
		{
			name:  "empty keys are ignored",
			keys:  []string{"", "!BUGS:"},
			line:  "! nothing here",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := NewDispatcher(tt.keys).MatchKeyword(tt.line)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, k)
		})
	}
}
