package photo

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// FilmSpeed is a standardized ISO film speed. Only the logarithmic
// (DIN) value is stored; the arithmetic (ASA/ISO) value is derived from
// the canonical table of marketed speeds, one decade of ten base values
// shifted across five decades. The mapping is a fixed table, not a pure
// mathematical inverse: deriving it from floating-point logarithms does
// not reproduce marketed speed strings like "125" or "0.8".
type FilmSpeed struct {
	din uint8
}

// asaBases is one decade of arithmetic speeds, scaled down by the
// decade shift when deriving the ASA value.
var asaBases = [10]int64{8000, 10000, 12500, 16000, 20000, 25000, 32000, 40000, 50000, 64000}

// FromDIN constructs a film speed from a logarithmic DIN value.
func FromDIN(din uint8) FilmSpeed {
	return FilmSpeed{din: din}
}

// FromASA constructs a film speed from an arithmetic ASA value. It
// fails for non-positive values and for values whose DIN equivalent
// does not fit the DIN storage range.
func FromASA(value decimal.Decimal) (FilmSpeed, error) {
	if value.Sign() <= 0 {
		return FilmSpeed{}, fmt.Errorf("film speed %s has no DIN equivalent", value)
	}
	f, _ := value.Float64()
	din := math.Round(10*math.Log10(f) + 1)
	if din < 0 || din > math.MaxUint8 {
		return FilmSpeed{}, fmt.Errorf("film speed %s is out of the DIN range", value)
	}
	return FromDIN(uint8(din)), nil
}

// FromISO constructs a film speed from an arithmetic ISO value.
func FromISO(value decimal.Decimal) (FilmSpeed, error) {
	return FromASA(value)
}

// DIN returns the logarithmic (DIN) value of this film speed.
func (s FilmSpeed) DIN() uint8 {
	return s.din
}

// ASA returns the arithmetic (ASA) value of this film speed.
func (s FilmSpeed) ASA() decimal.Decimal {
	if s.din/10 > 4 {
		panic(fmt.Sprintf("DIN %d has no tabulated arithmetic speed", s.din))
	}
	shift := int32(4 - s.din/10)
	base := asaBases[s.din%10]

	// Significant width of the marketed value. Two figures except for
	// the documented oddballs (12.5 vs 0.0012, 3, 6).
	width := int32(2)
	switch {
	case base == 12500 && shift < 3:
		width = 3
	case (base == 32000 || base == 64000) && shift == 4:
		width = 1
	}
	return normalize(roundSig(decimal.New(base, -shift), width))
}

// ISO returns the arithmetic (ISO) value of this film speed.
func (s FilmSpeed) ISO() decimal.Decimal {
	return s.ASA()
}

// String renders the combined "ASA/DIN°" form, e.g. "100/21°".
func (s FilmSpeed) String() string {
	return fmt.Sprintf("%s/%d°", s.ASA(), s.din)
}
