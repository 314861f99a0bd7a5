package protex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMarkers(t *testing.T) {
	tests := []struct {
		code      string
		comment   string
		highlight string
	}{
		{code: "F", comment: "!", highlight: "fortran"},
		{code: "A", comment: "--", highlight: "ada"},
		{code: "C", comment: "//", highlight: "c"},
		{code: "S", comment: "#", highlight: "bash"},
		{code: "G", comment: "*", highlight: "bash"},
		{code: "P", comment: "#", highlight: "python"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			m, err := ResolveMarkers(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.comment, m.Comment)

			for r := Role(0); r < numRoles; r++ {
				assert.Equal(t, tt.comment+r.Suffix(), m.Get(r))
				assert.True(t, m.Is(tt.comment+r.Suffix(), r))
			}

			p, err := LookupProfile(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.highlight, p.Highlight)
		})
	}
}

func TestMarkerRoles(t *testing.T) {
	m := NewMarkerSet("!")

	assert.Equal(t, "!BOP", m.Get(RolePrologueBegin))
	assert.Equal(t, "!EOPI", m.Get(RoleInternalEnd))
	assert.Equal(t, "!IIROUTINE:", m.Get(RoleOverloadedRoutine))
	assert.False(t, m.Is("", RolePrologueBegin))
	assert.False(t, m.Is("!BOPI", RolePrologueBegin))
	assert.Empty(t, m.Get(numRoles))
	assert.Empty(t, Role(-1).Suffix())
}

func TestUnknownLanguageCode(t *testing.T) {
	_, err := ResolveMarkers("Z")
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	_, err = LookupProfile("f")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestProfilesOrdered(t *testing.T) {
	var codes []string
	for _, p := range Profiles() {
		codes = append(codes, p.Code)
	}
	assert.Equal(t, []string{"A", "C", "F", "G", "P", "S"}, codes)
}

func TestDetectProfile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		found    bool
	}{
		{filename: "src/dynamics.F90", want: "F", found: true},
		{filename: "pkg.adb", want: "A", found: true},
		{filename: "grid.cpp", want: "C", found: true},
		{filename: "run.sh", want: "S", found: true},
		{filename: "plot.gs", want: "G", found: true},
		{filename: "tool.py", want: "P", found: true},
		{filename: "README", want: "F", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p, ok := DetectProfile(tt.filename)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, p.Code)
		})
	}
}

func TestFileOptionsProfile(t *testing.T) {
	p, err := FileOptions{}.Profile("anything.py")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, p.Code)

	p, err = FileOptions{Language: LanguageAuto}.Profile("anything.py")
	require.NoError(t, err)
	assert.Equal(t, "P", p.Code)

	p, err = FileOptions{Language: "S"}.Profile("anything.py")
	require.NoError(t, err)
	assert.Equal(t, "S", p.Code)

	_, err = FileOptions{Language: "Q"}.Profile("anything.py")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}
