package protex

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func TestCanConvertSourceFiles(t *testing.T) {
	tests := []struct {
		name      string
		inFile    string
		format    Format
		fixedTime time.Time
	}{
		{
			name:      "fortran routine to latex",
			inFile:    "routine.F90",
			format:    LaTeX{},
			fixedTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "fortran routine to markdown",
			inFile:    "routine.F90",
			format:    Markdown{},
			fixedTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("testdata/extract/%s", tt.inFile)
			input, err := os.ReadFile(path)
			require.NoError(t, err)

			var buf bytes.Buffer
			e, err := NewEngine(&buf, tt.format, Options{})
			require.NoError(t, err)
			e.Now = func() time.Time { return tt.fixedTime }

			st := NewState()
			require.NoError(t, e.Begin())
			require.NoError(t, e.Process(st, Source{Name: path, Reader: bytes.NewReader(input)}))
			require.NoError(t, e.End(st))

			golden.Assert(t, buf.String(), fmt.Sprintf("extract/routine.golden%s", tt.format.Extension()))
		})
	}
}
