package negative

import (
	"encoding/binary"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skagerrak/filmtag/pkg/exifbox"
	"github.com/skagerrak/filmtag/pkg/meta"
	"github.com/skagerrak/filmtag/pkg/photo"
	"github.com/skagerrak/filmtag/pkg/rolls"
	"github.com/skagerrak/filmtag/pkg/xmp"
)

func testRoll() *rolls.Roll {
	return &rolls.Roll{
		ID:     "A0012",
		Film:   "Ilford Delta 100",
		Speed:  photo.FromDIN(21),
		Camera: rolls.ParseCamera("Hasselblad 500C/M"),
	}
}

func testFrame() *rolls.Frame {
	aperture := photo.ManualAperture(decimal.RequireFromString("5.6"))
	shutter := photo.ManualShutter(big.NewRat(1, 500))
	comp, _ := photo.ParseExposureBias("-1/3")
	equiv := decimal.NewFromInt(44)
	return &rolls.Frame{
		Lens:         rolls.ParseLens("Carl Zeiss Planar 80mm ƒ/2.8"),
		Aperture:     &aperture,
		ShutterSpeed: &shutter,
		FocalLength:  &photo.FocalLength{Real: decimal.NewFromInt(80), Equiv: &equiv},
		Compensation: &comp,
		DateTime:     time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC),
		Position:     photo.Position{Lat: 38.8897, Lon: -77.0089},
	}
}

func TestApplyRoll(t *testing.T) {
	n := New()
	require.NoError(t, n.ApplyRoll(testRoll()))

	assert.Equal(t, "A0012", n.Roll())
	assert.Equal(t, "Hasselblad 500C/M", n.box.String(exifbox.IfdRoot, exifbox.TagCameraLabel))
	assert.Equal(t, "Hasselblad", n.box.String(exifbox.IfdRoot, exifbox.TagMake))
	assert.Equal(t, "500C/M", n.box.String(exifbox.IfdRoot, exifbox.TagModel))
	assert.Equal(t, []byte("ASCII\x00\x00\x00Ilford Delta 100"),
		n.box.Bytes(exifbox.IfdExif, exifbox.TagUserComment))

	iso, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagISO)
	require.True(t, ok)
	assert.Equal(t, []uint16{100}, iso.Value)
	isoSpeed, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagISOSpeed)
	require.True(t, ok)
	assert.Equal(t, []uint32{100}, isoSpeed.Value)
	sensitivity, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagSensitivityType)
	require.True(t, ok)
	assert.Equal(t, []uint16{3}, sensitivity.Value)
}

func TestApplyRollModelOnlyCamera(t *testing.T) {
	n := New()
	roll := testRoll()
	roll.Camera = rolls.ParseCamera("Rolleiflex")
	require.NoError(t, n.ApplyRoll(roll))

	assert.Equal(t, "Rolleiflex", n.box.String(exifbox.IfdRoot, exifbox.TagCameraLabel))
	_, ok := n.box.Lookup(exifbox.IfdRoot, exifbox.TagMake)
	assert.False(t, ok)
	assert.Equal(t, "Rolleiflex", n.box.String(exifbox.IfdRoot, exifbox.TagModel))
}

func TestApplyFrame(t *testing.T) {
	n := New()
	require.NoError(t, n.ApplyFrame(testFrame()))

	assert.Equal(t, "2025:06:01 12:15:00",
		n.box.String(exifbox.IfdExif, exifbox.TagDateTimeOriginal))
	assert.Equal(t, "Carl Zeiss Planar 80mm ƒ/2.8",
		n.box.String(exifbox.IfdExif, exifbox.TagLensLabel))
	assert.Equal(t, "Carl", n.box.String(exifbox.IfdExif, exifbox.TagLensMake))
	assert.Equal(t, "Zeiss Planar 80mm ƒ/2.8",
		n.box.String(exifbox.IfdExif, exifbox.TagLensModel))

	focal, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagFocalLength)
	require.True(t, ok)
	assert.Equal(t, []exifbox.Rational{{Num: 80, Den: 1}}, focal.Value)
	equiv, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagFocalLength35mm)
	require.True(t, ok)
	assert.Equal(t, []uint16{44}, equiv.Value)

	exposure, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagExposureTime)
	require.True(t, ok)
	assert.Equal(t, []exifbox.Rational{{Num: 1, Den: 500}}, exposure.Value)
	speed, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagShutterSpeed)
	require.True(t, ok)
	assert.Equal(t, []exifbox.SignedRational{signedRat(photo.Log2Rat(big.NewRat(500, 1)))},
		speed.Value)

	fnumber, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagFNumber)
	require.True(t, ok)
	assert.Equal(t, []exifbox.Rational{{Num: 28, Den: 5}}, fnumber.Value)
	apex, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagApertureValue)
	require.True(t, ok)
	assert.Equal(t, []exifbox.Rational{unsignedRat(photo.Log2Rat(big.NewRat(784, 25)))},
		apex.Value)

	program, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagExposureProgram)
	require.True(t, ok)
	assert.Equal(t, []uint16{1}, program.Value)

	comp, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagExposureComp)
	require.True(t, ok)
	assert.Equal(t, []exifbox.SignedRational{{Num: -1, Den: 3}}, comp.Value)

	assert.Equal(t, "N", n.box.String(exifbox.IfdGPS, exifbox.TagGPSLatitudeRef))
	lat, ok := n.box.Lookup(exifbox.IfdGPS, exifbox.TagGPSLatitude)
	require.True(t, ok)
	latRats := lat.Value.([]exifbox.Rational)
	require.Len(t, latRats, 3)
	assert.Equal(t, exifbox.Rational{Num: 38, Den: 1}, latRats[0])
	assert.Equal(t, exifbox.Rational{Num: 53, Den: 1}, latRats[1])
	assert.InDelta(t, 22.92, float64(latRats[2].Num)/float64(latRats[2].Den), 0.001)
	assert.Equal(t, "W", n.box.String(exifbox.IfdGPS, exifbox.TagGPSLongitudeRef))

	created, ok := n.packet.Text(xmp.NSPhotoshop, "DateCreated")
	require.True(t, ok)
	assert.Equal(t, "2025-06-01T12:15:00+00:00", created)
}

func TestApplyFrameExposureVariants(t *testing.T) {
	av := photo.AperturePriority()
	tv := photo.ShutterPriority()
	manualShutter := photo.ManualShutter(big.NewRat(1, 125))
	manualAperture := photo.ManualAperture(decimal.NewFromInt(8))

	tests := []struct {
		name     string
		shutter  *photo.ShutterSpeed
		aperture *photo.Aperture
		want     uint16
	}{
		{"both auto", &av, &tv, 2},
		{"aperture priority", &av, &manualAperture, 3},
		{"shutter priority", &manualShutter, &tv, 4},
		{"full manual", &manualShutter, &manualAperture, 1},
		{"shutter only", &manualShutter, nil, 0},
		{"aperture only", nil, &manualAperture, 0},
		{"neither", nil, nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := New()
			frame := testFrame()
			frame.ShutterSpeed = tc.shutter
			frame.Aperture = tc.aperture
			require.NoError(t, n.ApplyFrame(frame))

			program, ok := n.box.Lookup(exifbox.IfdExif, exifbox.TagExposureProgram)
			require.True(t, ok)
			assert.Equal(t, []uint16{tc.want}, program.Value)
		})
	}
}

func TestApplyAuthor(t *testing.T) {
	n := New()
	author := &meta.Metadata{
		Author:  meta.Author{Name: "Simon Sigurdhsson", URL: "https://example.org/"},
		License: meta.Attribution,
	}
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, n.ApplyAuthor(author, date))

	assert.Equal(t, "Simon Sigurdhsson", n.box.String(exifbox.IfdRoot, exifbox.TagArtist))
	assert.Equal(t, "© Simon Sigurdhsson, 2025. Some rights reserved.",
		n.box.String(exifbox.IfdRoot, exifbox.TagCopyright))

	assert.Equal(t, []string{"Simon Sigurdhsson"}, n.packet.Array(xmp.NSDC, "creator"))
	assert.Equal(t, []string{"Simon Sigurdhsson"}, n.packet.Array(xmp.NSXMPRights, "Owner"))
	rights, ok := n.packet.LocalizedText(xmp.NSDC, "rights")
	require.True(t, ok)
	assert.Equal(t, "© Simon Sigurdhsson, 2025. Some rights reserved.", rights)
	position, ok := n.packet.Text(xmp.NSPhotoshop, "AuthorsPosition")
	require.True(t, ok)
	assert.Equal(t, "Photographer", position)

	marked, ok := n.packet.Bool(xmp.NSXMPRights, "Marked")
	require.True(t, ok)
	assert.True(t, marked)
	terms, ok := n.packet.LocalizedText(xmp.NSXMPRights, "UsageTerms")
	require.True(t, ok)
	assert.Contains(t, terms, "Creative Commons Attribution 4.0 International")
	license, ok := n.packet.Text(xmp.NSCC, "license")
	require.True(t, ok)
	assert.Equal(t, "https://creativecommons.org/licenses/by/4.0/", license)
	name, ok := n.packet.Text(xmp.NSCC, "attributionName")
	require.True(t, ok)
	assert.Equal(t, "Simon Sigurdhsson", name)
	url, ok := n.packet.Text(xmp.NSCC, "attributionURL")
	require.True(t, ok)
	assert.Equal(t, "https://example.org/", url)
}

func TestApplyAuthorIdempotent(t *testing.T) {
	n := New()
	// Simulate metadata left over from an earlier run with a different
	// configuration.
	n.packet.AppendArrayItem(xmp.NSDC, "creator", "Old Name")
	n.packet.AppendArrayItem(xmp.NSDC, "creator", "Older Name")
	n.packet.AppendArrayItem(xmp.NSXMPRights, "Owner", "Old Name")

	author := &meta.Metadata{Author: meta.Author{Name: "New Name"}}
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, n.ApplyAuthor(author, date))
	require.NoError(t, n.ApplyAuthor(author, date))

	assert.Equal(t, []string{"New Name"}, n.packet.Array(xmp.NSDC, "creator"))
	assert.Equal(t, []string{"New Name"}, n.packet.Array(xmp.NSXMPRights, "Owner"))
}

func TestApplyAuthorUnlicensed(t *testing.T) {
	n := New()
	author := &meta.Metadata{Author: meta.Author{Name: "Someone"}}
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, n.ApplyAuthor(author, date))

	assert.Equal(t, "© Someone, 2024. All rights reserved.",
		n.box.String(exifbox.IfdRoot, exifbox.TagCopyright))
	_, ok := n.packet.Bool(xmp.NSXMPRights, "Marked")
	assert.False(t, ok)
	_, ok = n.packet.LocalizedText(xmp.NSXMPRights, "UsageTerms")
	assert.False(t, ok)
	_, ok = n.packet.Text(xmp.NSCC, "license")
	assert.False(t, ok)
}

func TestApplyAuthorPublicDomain(t *testing.T) {
	n := New()
	author := &meta.Metadata{
		Author:  meta.Author{Name: "Someone"},
		License: meta.PublicDomain,
	}
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, n.ApplyAuthor(author, date))

	assert.Equal(t, "© Someone, 2024. No rights reserved.",
		n.box.String(exifbox.IfdRoot, exifbox.TagCopyright))
	marked, ok := n.packet.Bool(xmp.NSXMPRights, "Marked")
	require.True(t, ok)
	assert.False(t, marked)
	_, ok = n.packet.Text(xmp.NSCC, "attributionURL")
	assert.False(t, ok)
}

func TestApplyAuthorDateFallsBackToCaptureDate(t *testing.T) {
	n := New()
	require.NoError(t, n.ApplyFrame(testFrame()))
	author := &meta.Metadata{Author: meta.Author{Name: "Someone"}}
	require.NoError(t, n.ApplyAuthor(author, time.Time{}))

	assert.Equal(t, "© Someone, 2025. All rights reserved.",
		n.box.String(exifbox.IfdRoot, exifbox.TagCopyright))
}

func TestNegativeDate(t *testing.T) {
	n := New()
	assert.True(t, n.Date().IsZero())

	n.box.SetString(exifbox.IfdExif, exifbox.TagCreateDate, "2023:08:14 09:30:00")
	assert.Equal(t, time.Date(2023, 8, 14, 9, 30, 0, 0, time.UTC), n.Date())

	// DateTimeOriginal wins over CreateDate.
	n.box.SetString(exifbox.IfdExif, exifbox.TagDateTimeOriginal, "2023:08:15 10:00:00")
	assert.Equal(t, time.Date(2023, 8, 15, 10, 0, 0, 0, time.UTC), n.Date())
}

func TestEncodeComment(t *testing.T) {
	assert.Equal(t, []byte("ASCII\x00\x00\x00hello"),
		encodeComment("hello", binary.LittleEndian))

	le := append([]byte("UNICODE\x00"),
		0xFF, 0xFE, 0x68, 0x00, 0x59, 0x02, 0xC8, 0x02, 0x6C, 0x00, 0x59, 0x02, 0x8A, 0x02)
	assert.Equal(t, le, encodeComment("həˈləʊ", binary.LittleEndian))

	be := append([]byte("UNICODE\x00"),
		0xFE, 0xFF, 0x00, 0x68, 0x02, 0x59, 0x02, 0xC8, 0x00, 0x6C, 0x02, 0x59, 0x02, 0x8A)
	assert.Equal(t, be, encodeComment("həˈləʊ", binary.BigEndian))

	// Astral-plane characters cannot be UCS-2 encoded and fall back to
	// filtered ASCII.
	assert.Equal(t, []byte("ASCII\x00\x00\x00film "),
		encodeComment("film \U0001F39E", binary.LittleEndian))
}

func TestTagBatchTooManyImages(t *testing.T) {
	roll := testRoll()
	roll.Frames = []*rolls.Frame{testFrame(), nil, testFrame()}
	_, err := TagBatch(roll, []string{"a.jpg", "b.jpg", "c.jpg"}, nil, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 annotated frames for 3 images")
}

func TestTagBatchMissingFiles(t *testing.T) {
	roll := testRoll()
	roll.Frames = []*rolls.Frame{testFrame(), testFrame()}
	results, err := TagBatch(roll, []string{"missing-a.jpg", "missing-b.jpg"}, nil, time.Time{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "missing-a.jpg", results[0].Path)
	assert.Error(t, results[0].Err)
	assert.Error(t, results[1].Err)
}
