package photo

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ShutterSpeed is a shutter speed setting. Shutter speeds are commonly
// given as fractions of a second, so the manual variant holds an exact
// rational. The zero value is not meaningful; construct through
// ManualShutter or AperturePriority.
type ShutterSpeed struct {
	seconds *big.Rat
}

// ManualShutter returns a known shutter speed, in seconds.
func ManualShutter(seconds *big.Rat) ShutterSpeed {
	return ShutterSpeed{seconds: seconds}
}

// AperturePriority returns the sentinel for an unknown shutter speed
// chosen by the camera.
func AperturePriority() ShutterSpeed {
	return ShutterSpeed{}
}

// Manual reports the shutter speed in seconds, when known.
func (s ShutterSpeed) Manual() (*big.Rat, bool) {
	return s.seconds, s.seconds != nil
}

// ParseShutterSpeed parses "Av" or a rational like "1/500".
func ParseShutterSpeed(text string) (ShutterSpeed, error) {
	if text == "Av" {
		return AperturePriority(), nil
	}
	r, err := parseRat(text)
	if err != nil {
		return ShutterSpeed{}, err
	}
	return ManualShutter(r), nil
}

// ShutterFromSeconds converts a decimal exposure time (as found in
// lightme exports) to the nearest rational shutter speed.
func ShutterFromSeconds(seconds float64) ShutterSpeed {
	return ManualShutter(ApproxRat(seconds))
}

func (s ShutterSpeed) String() string {
	if s.seconds == nil {
		return "Av"
	}
	return s.seconds.RatString() + " s"
}

// Aperture is an f-stop setting. Apertures technically map to powers of
// the square root of two, but there are exceptions (ƒ/0.95) and EXIF
// stores plain numbers anyway, so the manual variant holds an exact
// decimal rather than a float.
type Aperture struct {
	fnumber decimal.Decimal
	manual  bool
}

// ManualAperture returns a known aperture, in f-stops.
func ManualAperture(fnumber decimal.Decimal) Aperture {
	return Aperture{fnumber: fnumber, manual: true}
}

// ShutterPriority returns the sentinel for an unknown aperture chosen
// by the camera.
func ShutterPriority() Aperture {
	return Aperture{}
}

// Manual reports the f-number, when known.
func (a Aperture) Manual() (decimal.Decimal, bool) {
	return a.fnumber, a.manual
}

// ParseAperture parses "Tv", "S", or a decimal f-number like "5.6".
func ParseAperture(text string) (Aperture, error) {
	if text == "Tv" || text == "S" {
		return ShutterPriority(), nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Aperture{}, err
	}
	return ManualAperture(d), nil
}

// ApertureFromFloat converts a numeric f-number (as found in lightme
// exports) to a manual aperture.
func ApertureFromFloat(fnumber float64) Aperture {
	return ManualAperture(decimal.NewFromFloat(fnumber))
}

func (a Aperture) String() string {
	if !a.manual {
		return "Tv"
	}
	return "ƒ/" + normalize(roundSig(a.fnumber, 2)).String()
}

// ExposureBias is an exposure compensation value in EV units.
// Compensation is typically set in half- or third-stop increments, so
// the value is an exact rational. The zero value is exactly 0 EV.
type ExposureBias struct {
	ev *big.Rat
}

// Bias returns an exposure bias of the given EV value.
func Bias(ev *big.Rat) ExposureBias {
	return ExposureBias{ev: ev}
}

// ParseExposureBias parses a rational EV value like "-1/3".
func ParseExposureBias(text string) (ExposureBias, error) {
	r, err := parseRat(text)
	if err != nil {
		return ExposureBias{}, err
	}
	return Bias(r), nil
}

// EV returns the exposure bias value.
func (b ExposureBias) EV() *big.Rat {
	if b.ev == nil {
		return new(big.Rat)
	}
	return b.ev
}

func (b ExposureBias) String() string {
	return b.EV().RatString() + " EV"
}

// FocalLength is a real focal length with an optional 35mm-equivalent.
type FocalLength struct {
	Real  decimal.Decimal
	Equiv *decimal.Decimal
}

func (f FocalLength) String() string {
	return normalize(roundSig(f.Real, 2)).String() + " mm"
}

// parseRat parses "n", "n/d" or "-n/d" into a reduced rational.
func parseRat(text string) (*big.Rat, error) {
	text = strings.TrimSpace(text)
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, fmt.Errorf("invalid rational %q", text)
	}
	return r, nil
}
