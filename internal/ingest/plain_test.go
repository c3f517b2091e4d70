package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

func TestReadPlain(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"comma with header", "frequency,magnitude\n100,-90\n101,-30.5\n102,-90\n"},
		{"comma without header", "100,-90\n101,-30.5\n102,-90\n"},
		{"semicolon with decimal comma", "Frequency [Hz];Magnitude [dBm]\n100;-90\n101;-30,5\n102;-90\n"},
		{"comments and blank lines", "# exported\n100, -90\n\n101, -30.5\n102, -90\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trace, err := ReadPlain(strings.NewReader(tc.content))
			require.NoError(t, err)
			require.Equal(t, 3, trace.Len())
			assert.Equal(t, 101.0, trace.At(1).Frequency)
			assert.Equal(t, -30.5, trace.At(1).Power)
		})
	}
}

func TestReadPlain_Errors(t *testing.T) {
	_, err := ReadPlain(strings.NewReader("100,-90\n101\n"))
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, err = ReadPlain(strings.NewReader("100,-90\nabc,def\n"))
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, err = ReadPlain(strings.NewReader("101,-90\n100,-90\n"))
	assert.ErrorIs(t, err, spectrum.ErrInvalidTrace)
}

func TestReadPlain_Empty(t *testing.T) {
	trace, err := ReadPlain(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, trace.Len())
}
