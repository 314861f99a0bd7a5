package protex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Finding
	}{
		{
			name: "complete prologue",
			src: `!BOP
! !ROUTINE: foo
! !INTERFACE:
      subroutine foo()
! !DESCRIPTION: does foo
! !REVISION HISTORY:
!  today
!EOP
`,
		},
		{
			name: "missing fields",
			src: `      module m
!BOP
! !ROUTINE: foo_bar
! !DESCRIPTION: does foo
!EOP
`,
			want: []Finding{
				{File: "lint.F90", Line: 2, Name: "foo_bar", Missing: []string{"interface", "revision history"}},
			},
		},
		{
			name: "unnamed prologue left open",
			src: `!BOP
! !INTERFACE:
      subroutine bar()
`,
			want: []Finding{
				{File: "lint.F90", Line: 1, Name: "UNKNOWN", Missing: []string{"name", "description", "revision history"}},
			},
		},
		{
			name: "every prologue is reported",
			src:  "!BOP\n!EOP\n!BOPI\n! !FUNCTION: f\n!EOPI\n",
			want: []Finding{
				{File: "lint.F90", Line: 1, Name: "UNKNOWN", Missing: []string{"name", "description", "interface", "revision history"}},
				{File: "lint.F90", Line: 3, Name: "f", Missing: []string{"description", "interface", "revision history"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := Lint(Source{Name: "lint.F90", Reader: strings.NewReader(tt.src)}, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, findings)
		})
	}
}

func TestFindingString(t *testing.T) {
	f := Finding{File: "a.F90", Line: 4, Name: "foo", Missing: []string{"interface", "revision history"}}
	assert.Equal(t, "a.F90:4: prologue foo is missing interface, revision history", f.String())
}
