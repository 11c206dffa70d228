package rolls

import (
	"encoding/xml"
	"io"
	"iter"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skagerrak/filmtag/pkg/photo"
)

// Film Rolls XML document structure. Every leaf is decoded as a string
// so that empty elements can be treated as absent values.
type xmlData struct {
	XMLName   xml.Name      `xml:"data"`
	FilmRolls []xmlFilmRoll `xml:"filmRolls>filmRoll"`
}

type xmlFilmRoll struct {
	Title  string     `xml:"title"`
	Speed  string     `xml:"speed"`
	Camera string     `xml:"camera"`
	Load   string     `xml:"load"`
	Unload string     `xml:"unload"`
	Note   string     `xml:"note"`
	Frames []xmlFrame `xml:"frames>frame"`
}

type xmlFrame struct {
	Lens         string `xml:"lens"`
	Aperture     string `xml:"aperture"`
	ShutterSpeed string `xml:"shutterSpeed"`
	Compensation string `xml:"compensation"`
	Accessory    string `xml:"accessory"`
	Number       string `xml:"number"`
	Date         string `xml:"date"`
	Latitude     string `xml:"latitude"`
	Longitude    string `xml:"longitude"`
	Note         string `xml:"note"`
}

func parseFilmRolls(r io.Reader) iter.Seq2[*Roll, error] {
	return func(yield func(*Roll, error) bool) {
		var data xmlData
		if err := xml.NewDecoder(r).Decode(&data); err != nil {
			yield(nil, &SyntaxError{Err: err})
			return
		}
		for _, src := range data.FilmRolls {
			if !yield(convertXMLRoll(src)) {
				return
			}
		}
	}
}

func convertXMLRoll(src xmlFilmRoll) (*Roll, error) {
	if src.Note == "" {
		return nil, &MissingDataError{Field: "roll ID (<note>)"}
	}
	if src.Speed == "" {
		return nil, &MissingDataError{Field: "film speed (<speed>)"}
	}
	iso, err := decimal.NewFromString(src.Speed)
	if err != nil {
		return nil, &InvalidDataError{Field: "film speed (<speed>)"}
	}
	speed, err := photo.FromISO(iso)
	if err != nil {
		return nil, &InvalidDataError{Field: "film speed (<speed>)"}
	}
	// Load and unload dates are optional; only a present value that
	// fails to parse is an error.
	var load, unload time.Time
	if src.Load != "" {
		if load, err = parseXMLDateTime(src.Load); err != nil {
			return nil, &InvalidDataError{Field: "load date (<load>)"}
		}
	}
	if src.Unload != "" {
		if unload, err = parseXMLDateTime(src.Unload); err != nil {
			return nil, &InvalidDataError{Field: "unload date (<unload>)"}
		}
	}
	roll := &Roll{
		ID:     src.Note,
		Film:   Film(src.Title),
		Speed:  speed,
		Load:   load,
		Unload: unload,
	}
	if src.Camera != "" {
		roll.Camera = ParseCamera(src.Camera)
	}
	items := make([]numbered[Frame], 0, len(src.Frames))
	for _, f := range src.Frames {
		number, err := strconv.Atoi(f.Number)
		if err != nil {
			return nil, &InvalidDataError{Field: "frame number (<number>)"}
		}
		frame, err := convertXMLFrame(f)
		if err != nil {
			return nil, err
		}
		items = append(items, numbered[Frame]{number: number, value: *frame})
	}
	roll.Frames = expandNumbered(items)
	return roll, nil
}

func convertXMLFrame(src xmlFrame) (*Frame, error) {
	frame := &Frame{Note: src.Note}
	if src.Lens != "" {
		frame.Lens = ParseLens(src.Lens)
	}
	if src.Aperture != "" {
		a, err := photo.ParseAperture(src.Aperture)
		if err != nil {
			return nil, &InvalidDataError{Field: "aperture (<aperture>)"}
		}
		frame.Aperture = &a
	}
	if src.ShutterSpeed != "" {
		s, err := photo.ParseShutterSpeed(src.ShutterSpeed)
		if err != nil {
			return nil, &InvalidDataError{Field: "shutter speed (<shutterSpeed>)"}
		}
		frame.ShutterSpeed = &s
	}
	if src.Compensation != "" {
		b, err := photo.ParseExposureBias(src.Compensation)
		if err != nil {
			return nil, &InvalidDataError{Field: "compensation (<compensation>)"}
		}
		frame.Compensation = &b
	}
	date, err := parseXMLDateTime(src.Date)
	if err != nil {
		return nil, &InvalidDataError{Field: "date (<date>)"}
	}
	frame.DateTime = date
	lat, err := strconv.ParseFloat(src.Latitude, 64)
	if err != nil {
		return nil, &InvalidDataError{Field: "latitude (<latitude>)"}
	}
	lon, err := strconv.ParseFloat(src.Longitude, 64)
	if err != nil {
		return nil, &InvalidDataError{Field: "longitude (<longitude>)"}
	}
	frame.Position = photo.Position{Lat: lat, Lon: lon}
	return frame, nil
}

// parseXMLDateTime parses a sloppy RFC 3339 date/time. Besides plain
// RFC 3339, timestamps without a timezone but with fractional seconds
// are accepted, as are bare dates, which fall back to midnight. Any
// timezone offset is dropped: the wall-clock time as written is kept.
func parseXMLDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return stripZone(t), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func stripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
