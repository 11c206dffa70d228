// Package rolls normalizes photographic logbook exports into a single
// canonical model of film rolls and exposed frames.
//
// Two interchange formats are supported: the XML export of the Film
// Rolls iOS app and the JSON export of the lightme iOS app. Both
// decoders produce the same Roll/Frame types, so everything downstream
// is format-agnostic.
package rolls

import (
	"cmp"
	"io"
	"iter"
	"slices"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/skagerrak/filmtag/pkg/photo"
)

// Film is a film type, e.g. "Ilford Delta 100".
type Film string

func (f Film) String() string {
	return string(f)
}

// Camera identifies a camera. Make may be empty when the source only
// carried a single free-text name that could not be split.
type Camera struct {
	Make  string
	Model string
}

// ParseCamera splits a free-text camera name on the first space into
// make and model. A single word becomes a model with no make.
func ParseCamera(text string) *Camera {
	make, model := splitMakeModel(text)
	return &Camera{Make: make, Model: model}
}

// CameraFromMakeModel builds a camera from distinct source fields. An
// empty make yields a model-only camera.
func CameraFromMakeModel(make, model string) *Camera {
	return &Camera{Make: make, Model: model}
}

func (c *Camera) String() string {
	return joinMakeModel(c.Make, c.Model)
}

// Lens identifies a lens, with the same make/model conventions as
// Camera.
type Lens struct {
	Make  string
	Model string
}

// ParseLens splits a free-text lens name on the first space into make
// and model. A single word becomes a model with no make.
func ParseLens(text string) *Lens {
	make, model := splitMakeModel(text)
	return &Lens{Make: make, Model: model}
}

// LensFromMakeModel builds a lens from distinct source fields.
func LensFromMakeModel(make, model string) *Lens {
	return &Lens{Make: make, Model: model}
}

func (l *Lens) String() string {
	return joinMakeModel(l.Make, l.Model)
}

func splitMakeModel(text string) (make, model string) {
	text = strings.TrimSpace(text)
	if before, after, ok := strings.Cut(text, " "); ok {
		return before, after
	}
	return "", text
}

func joinMakeModel(make, model string) string {
	if make == "" {
		return model
	}
	return make + " " + model
}

// Frame is a single exposed frame. All capture settings are optional;
// the timestamp and position are always present.
type Frame struct {
	Lens         *Lens
	Aperture     *photo.Aperture
	ShutterSpeed *photo.ShutterSpeed
	FocalLength  *photo.FocalLength
	Compensation *photo.ExposureBias
	DateTime     time.Time
	Position     photo.Position
	Note         string
}

// Roll is a complete film roll.
//
// Frames holds all frames of the roll with potential gaps, starting at
// frame 1: index 0 is frame number 1, and a frame number never recorded
// in the source leaves a nil entry at its position. Duplicate frame
// numbers are preserved as adjacent entries, shifting everything after
// them one position later.
type Roll struct {
	ID     string
	Film   Film
	Speed  photo.FilmSpeed
	Camera *Camera
	Load   time.Time
	Unload time.Time
	Frames []*Frame
}

// Format names a supported source format.
type Format string

const (
	// FormatFilmRolls is the Film Rolls iOS app XML export.
	FormatFilmRolls Format = "film-rolls"
	// FormatLightMe is the lightme iOS app JSON export.
	FormatLightMe Format = "lightme"
)

// Parse reads logbook data in the given format and returns a lazy
// sequence of rolls. A structural parse failure yields exactly one
// error element; a roll with missing or invalid required fields yields
// an error element for that roll only. An unrecognized format yields a
// single UnsupportedFormatError.
func Parse(format Format, r io.Reader) iter.Seq2[*Roll, error] {
	switch format {
	case FormatFilmRolls:
		return parseFilmRolls(r)
	case FormatLightMe:
		return parseLightMe(r)
	}
	return func(yield func(*Roll, error) bool) {
		yield(nil, &UnsupportedFormatError{Name: string(format)})
	}
}

// ParseAll drains Parse into a slice, stopping at the first error.
func ParseAll(format Format, r io.Reader) ([]*Roll, error) {
	var out []*Roll
	for roll, err := range Parse(format, r) {
		if err != nil {
			return nil, err
		}
		out = append(out, roll)
	}
	klog.V(1).Infof("parsed %d rolls", len(out))
	return out, nil
}

type numbered[T any] struct {
	number int
	value  T
}

// expandNumbered turns a list of 1-indexed items into a dense slice,
// inserting nil entries wherever the numbering has gaps. Items sharing
// a number come out adjacent, in input order.
func expandNumbered[T any](items []numbered[T]) []*T {
	slices.SortStableFunc(items, func(a, b numbered[T]) int {
		return cmp.Compare(a.number, b.number)
	})
	out := make([]*T, 0, len(items))
	next := 1
	for _, it := range items {
		for range max(0, it.number-next) {
			out = append(out, nil)
		}
		next = it.number + 1
		v := it.value
		out = append(out, &v)
	}
	return out
}
