package rolls

import (
	"io"
	"iter"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/skagerrak/filmtag/pkg/photo"
)

// lightme JSON record. The export repeats roll-level attributes on
// every frame; grouping and the first-wins policy live in
// convertLightMeRoll.
type lmFrame struct {
	DateTimeOriginal string   `json:"DateTimeOriginal"`
	Description      string   `json:"Description"`
	DocumentName     string   `json:"DocumentName"`
	ExposureTime     *float64 `json:"ExposureTime"`
	FNumber          *float64 `json:"FNumber"`
	FocalLength      *float64 `json:"FocalLength"`
	FocalLengthEquiv *float64 `json:"FocalLengthIn35mmFormat"`
	GPSLatitude      string   `json:"GPSLatitude"`
	GPSLongitude     string   `json:"GPSLongitude"`
	ImageNumber      int      `json:"ImageNumber"`
	ISOSpeed         uint32   `json:"ISOSpeed"`
	LensMake         string   `json:"LensMake"`
	LensModel        string   `json:"LensModel"`
	Make             string   `json:"Make"`
	Model            string   `json:"Model"`
	ReelName         string   `json:"ReelName"`
	UserComment      string   `json:"UserComment"`
}

var (
	loadDateRe   = regexp.MustCompile(`(?m)^load_date:\n(.+)$`)
	unloadDateRe = regexp.MustCompile(`(?m)^unload_date:\n(.+)$`)
	parenRe      = regexp.MustCompile(`\s+\(.*?\)$`)
	gpsCoordRe   = regexp.MustCompile(`(\d+)deg\s+(?:(\d+)'\s+)?(?:(\d+(?:\.\d*)?)"\s+)?([NEWS])`)
)

func parseLightMe(r io.Reader) iter.Seq2[*Roll, error] {
	return func(yield func(*Roll, error) bool) {
		var records []lmFrame
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			yield(nil, &SyntaxError{Err: err})
			return
		}
		// Group by reel name, in order of first appearance.
		groups := make(map[string][]lmFrame)
		var order []string
		for _, rec := range records {
			if _, ok := groups[rec.ReelName]; !ok {
				order = append(order, rec.ReelName)
			}
			groups[rec.ReelName] = append(groups[rec.ReelName], rec)
		}
		for _, reel := range order {
			if !yield(convertLightMeRoll(groups[reel])) {
				return
			}
		}
	}
}

func convertLightMeRoll(group []lmFrame) (*Roll, error) {
	first := group[0]
	if first.ReelName == "" {
		return nil, &MissingDataError{Field: "roll ID (ReelName)"}
	}
	if first.UserComment == "" {
		return nil, &MissingDataError{Field: "load/unload date (UserComment)"}
	}
	load, err := commentDate(loadDateRe, first.UserComment)
	if err != nil {
		return nil, &InvalidDataError{Field: "load date (UserComment)"}
	}
	unload, err := commentDate(unloadDateRe, first.UserComment)
	if err != nil {
		return nil, &InvalidDataError{Field: "unload date (UserComment)"}
	}
	speed, err := photo.FromISO(decimal.NewFromUint64(uint64(first.ISOSpeed)))
	if err != nil {
		return nil, &InvalidDataError{Field: "film speed (ISOSpeed)"}
	}
	roll := &Roll{
		ID:     first.ReelName,
		Film:   Film(first.DocumentName),
		Speed:  speed,
		Load:   load,
		Unload: unload,
	}
	if first.Model != "" {
		roll.Camera = CameraFromMakeModel(first.Make, stripParenSuffix(first.Model))
	}
	items := make([]numbered[Frame], 0, len(group))
	for _, rec := range group {
		frame, err := convertLightMeFrame(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, numbered[Frame]{number: rec.ImageNumber, value: *frame})
	}
	roll.Frames = expandNumbered(items)
	return roll, nil
}

func convertLightMeFrame(rec lmFrame) (*Frame, error) {
	frame := &Frame{}
	if rec.LensModel != "" {
		frame.Lens = LensFromMakeModel(rec.LensMake, stripParenSuffix(rec.LensModel))
	}
	if rec.FNumber != nil {
		a := photo.ApertureFromFloat(*rec.FNumber)
		frame.Aperture = &a
	}
	if rec.ExposureTime != nil {
		s := photo.ShutterFromSeconds(*rec.ExposureTime)
		frame.ShutterSpeed = &s
	}
	if rec.FocalLength != nil {
		f := photo.FocalLength{Real: decimal.NewFromFloat(*rec.FocalLength)}
		if rec.FocalLengthEquiv != nil {
			equiv := decimal.NewFromFloat(*rec.FocalLengthEquiv)
			f.Equiv = &equiv
		}
		frame.FocalLength = &f
	}
	datetime, err := parseCustomDateTime(rec.DateTimeOriginal)
	if err != nil {
		return nil, &InvalidDataError{Field: "capture date (DateTimeOriginal)"}
	}
	frame.DateTime = datetime
	lat, err := parseGPSCoord(rec.GPSLatitude)
	if err != nil {
		return nil, &InvalidDataError{Field: "latitude (GPSLatitude)"}
	}
	lon, err := parseGPSCoord(rec.GPSLongitude)
	if err != nil {
		return nil, &InvalidDataError{Field: "longitude (GPSLongitude)"}
	}
	frame.Position = photo.Position{Lat: lat, Lon: lon}
	return frame, nil
}

// stripParenSuffix removes the trailing parenthetical the lightme
// export appends to camera and lens model names, e.g.
// "Bessa R2M (Voigtländer)" becomes "Bessa R2M".
func stripParenSuffix(s string) string {
	return parenRe.ReplaceAllString(s, "")
}

func commentDate(re *regexp.Regexp, comment string) (time.Time, error) {
	m := re.FindStringSubmatch(comment)
	if m == nil {
		return time.Time{}, &MissingDataError{Field: "load/unload date (UserComment)"}
	}
	return parseCustomDateTime(m[1])
}

// parseCustomDateTime parses the two date forms found in lightme
// exports: the EXIF-style "2022:04:30 18:29:15" and the prose form
// "30 Apr 2022 at 17:57".
func parseCustomDateTime(s string) (time.Time, error) {
	if t, err := time.Parse("2006:01:02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse("2 Jan 2006 at 15:04", s)
}

// parseGPSCoord converts a textual DMS coordinate such as
// `57deg 42' 3" N` to decimal degrees.
func parseGPSCoord(s string) (float64, error) {
	m := gpsCoordRe.FindStringSubmatch(s)
	if m == nil {
		return 0, &InvalidDataError{Field: "DMS coordinate"}
	}
	deg, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.ParseFloat(m[3], 64)
	ddeg := float64(deg) + float64(min)/60 + sec/3600
	switch m[4] {
	case "S", "W":
		return -ddeg, nil
	}
	return ddeg, nil
}
