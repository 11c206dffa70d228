package rolls

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandNumbered(t *testing.T) {
	ptr := func(r rune) *rune { return &r }
	deref := func(items []*rune) []any {
		out := make([]any, len(items))
		for i, it := range items {
			if it != nil {
				out[i] = *it
			}
		}
		return out
	}

	for _, tc := range []struct {
		name string
		in   []numbered[rune]
		out  []*rune
	}{
		{"empty", nil, []*rune{}},
		{"dense", []numbered[rune]{{1, 'A'}, {2, 'B'}}, []*rune{ptr('A'), ptr('B')}},
		{"trailing gap", []numbered[rune]{{1, 'A'}, {2, 'B'}, {5, 'C'}},
			[]*rune{ptr('A'), ptr('B'), nil, nil, ptr('C')}},
		{"leading gap", []numbered[rune]{{3, 'B'}}, []*rune{nil, nil, ptr('B')}},
		{"duplicates", []numbered[rune]{{3, 'A'}, {3, 'B'}},
			[]*rune{nil, nil, ptr('A'), ptr('B')}},
		{"duplicates then next", []numbered[rune]{{3, 'A'}, {3, 'B'}, {4, 'C'}},
			[]*rune{nil, nil, ptr('A'), ptr('B'), ptr('C')}},
		{"zero indexed", []numbered[rune]{{0, 'A'}}, []*rune{ptr('A')}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, deref(tc.out), deref(expandNumbered(tc.in)))
		})
	}
}

func TestParseCamera(t *testing.T) {
	c := ParseCamera("Voigtländer Bessa R2M")
	assert.Equal(t, "Voigtländer", c.Make)
	assert.Equal(t, "Bessa R2M", c.Model)
	assert.Equal(t, "Voigtländer Bessa R2M", c.String())

	single := ParseCamera("Rolleiflex")
	assert.Equal(t, "", single.Make)
	assert.Equal(t, "Rolleiflex", single.Model)
	assert.Equal(t, "Rolleiflex", single.String())
}

func TestCameraFromMakeModel(t *testing.T) {
	c := CameraFromMakeModel("Voigtländer", "Bessa R2M")
	assert.Equal(t, "Voigtländer Bessa R2M", c.String())

	modelOnly := CameraFromMakeModel("", "Bessa R2M")
	assert.Equal(t, "Bessa R2M", modelOnly.String())
}

func TestParseLens(t *testing.T) {
	l := ParseLens("Yashinon 45mm f/1.7")
	assert.Equal(t, "Yashinon", l.Make)
	assert.Equal(t, "45mm f/1.7", l.Model)
	assert.Equal(t, "Yashinon 45mm f/1.7", l.String())
}

func TestParseUnsupportedFormat(t *testing.T) {
	var errs []error
	for _, err := range Parse(Format("tiff"), strings.NewReader("")) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, errs[0], &unsupported)
	assert.Equal(t, "tiff", unsupported.Name)
}
