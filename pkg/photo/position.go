package photo

import (
	"fmt"
	"math"
)

// Cardinal is a compass direction attached to a DMS coordinate.
type Cardinal uint8

const (
	North Cardinal = iota + 1
	South
	East
	West
)

// Ref returns the single-letter form used by GPS reference tags. An
// unset cardinal is an internal invariant violation, never a
// recoverable condition, for any finite coordinate.
func (c Cardinal) Ref() string {
	switch c {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	}
	panic(fmt.Sprintf("unresolvable cardinal %d", uint8(c)))
}

// DMS is a degree/minute/second coordinate with a cardinal direction.
type DMS struct {
	Degrees  int
	Minutes  int
	Seconds  float64
	Cardinal Cardinal
}

// LatitudeDMS decomposes a decimal-degree latitude.
func LatitudeDMS(deg float64) DMS {
	d := splitDMS(deg)
	if deg < 0 {
		d.Cardinal = South
	} else {
		d.Cardinal = North
	}
	return d
}

// LongitudeDMS decomposes a decimal-degree longitude.
func LongitudeDMS(deg float64) DMS {
	d := splitDMS(deg)
	if deg < 0 {
		d.Cardinal = West
	} else {
		d.Cardinal = East
	}
	return d
}

func splitDMS(deg float64) DMS {
	abs := math.Abs(deg)
	d := int(abs)
	mf := (abs - float64(d)) * 60
	m := int(mf)
	return DMS{
		Degrees: d,
		Minutes: m,
		Seconds: (mf - float64(m)) * 60,
	}
}

// Position is a geographical position in decimal degrees.
type Position struct {
	Lat float64
	Lon float64
}

// Format renders the position in DMS form with the given seconds
// precision, e.g. `38° 53′ 23″ N, 77° 0′ 32″ W`.
func (p Position) Format(precision int) string {
	lat := LatitudeDMS(p.Lat)
	lon := LongitudeDMS(p.Lon)
	return fmt.Sprintf("%d° %d′ %.*f″ %s, %d° %d′ %.*f″ %s",
		lat.Degrees, lat.Minutes, precision, lat.Seconds, lat.Cardinal.Ref(),
		lon.Degrees, lon.Minutes, precision, lon.Seconds, lon.Cardinal.Ref())
}

func (p Position) String() string {
	return p.Format(3)
}
