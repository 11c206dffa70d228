package photo

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShutterSpeed(t *testing.T) {
	av, err := ParseShutterSpeed("Av")
	require.NoError(t, err)
	_, manual := av.Manual()
	assert.False(t, manual)
	assert.Equal(t, "Av", av.String())

	s, err := ParseShutterSpeed("1/10")
	require.NoError(t, err)
	seconds, manual := s.Manual()
	require.True(t, manual)
	assert.Equal(t, 0, seconds.Cmp(big.NewRat(1, 10)))
	assert.Equal(t, "1/10 s", s.String())

	_, err = ParseShutterSpeed("fast")
	assert.Error(t, err)
}

func TestShutterFromSeconds(t *testing.T) {
	// 0.008 is not exactly representable; the approximation must still
	// land on the marketed 1/125.
	s := ShutterFromSeconds(0.008)
	seconds, manual := s.Manual()
	require.True(t, manual)
	assert.Equal(t, 0, seconds.Cmp(big.NewRat(1, 125)))
}

func TestParseAperture(t *testing.T) {
	for _, text := range []string{"S", "Tv"} {
		a, err := ParseAperture(text)
		require.NoError(t, err)
		_, manual := a.Manual()
		assert.False(t, manual)
		assert.Equal(t, "Tv", a.String())
	}

	a, err := ParseAperture("5.6")
	require.NoError(t, err)
	fnumber, manual := a.Manual()
	require.True(t, manual)
	assert.True(t, fnumber.Equal(decimal.RequireFromString("5.6")))
	assert.Equal(t, "ƒ/5.6", a.String())

	// Sub-unity stops keep their exact decimal form.
	a, err = ParseAperture("0.95")
	require.NoError(t, err)
	assert.Equal(t, "ƒ/0.95", a.String())

	_, err = ParseAperture("wide")
	assert.Error(t, err)
}

func TestParseExposureBias(t *testing.T) {
	b, err := ParseExposureBias("-1/3")
	require.NoError(t, err)
	assert.Equal(t, 0, b.EV().Cmp(big.NewRat(-1, 3)))
	assert.Equal(t, "-1/3 EV", b.String())

	var zero ExposureBias
	assert.Equal(t, 0, zero.EV().Sign())
	assert.Equal(t, "0 EV", zero.String())
}

func TestFocalLengthString(t *testing.T) {
	equiv := decimal.NewFromInt(50)
	f := FocalLength{Real: decimal.RequireFromString("35.0"), Equiv: &equiv}
	assert.Equal(t, "35 mm", f.String())
}

func TestDecimalRat(t *testing.T) {
	for _, tc := range []struct {
		in   string
		num  int64
		den  int64
	}{
		{"1230.0", 1230, 1},
		{"12.30", 123, 10},
		{"0.1230", 123, 1000},
	} {
		r := Rat(decimal.RequireFromString(tc.in))
		assert.Equal(t, 0, r.Cmp(big.NewRat(tc.num, tc.den)), "Rat(%s)", tc.in)
	}
}
