package negative

import (
	"encoding/binary"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skagerrak/filmtag/pkg/exifbox"
	"github.com/skagerrak/filmtag/pkg/meta"
	"github.com/skagerrak/filmtag/pkg/photo"
	"github.com/skagerrak/filmtag/pkg/rolls"
)

const exifTimeLayout = "2006:01:02 15:04:05"

func applyRollEXIF(b *exifbox.Box, roll *rolls.Roll) error {
	if roll.Camera != nil {
		b.SetString(exifbox.IfdRoot, exifbox.TagCameraLabel, roll.Camera.String())
		if roll.Camera.Make != "" {
			b.SetString(exifbox.IfdRoot, exifbox.TagMake, roll.Camera.Make)
		}
		if roll.Camera.Model != "" {
			b.SetString(exifbox.IfdRoot, exifbox.TagModel, roll.Camera.Model)
		}
	}

	if roll.Film != "" {
		b.SetUndefined(exifbox.IfdExif, exifbox.TagUserComment,
			encodeComment(roll.Film.String(), b.ByteOrder()))
	}

	iso := roll.Speed.ISO().IntPart()
	b.SetShorts(exifbox.IfdExif, exifbox.TagISO,
		uint16(min(max(iso, 0), math.MaxUint16)))
	b.SetLongs(exifbox.IfdExif, exifbox.TagISOSpeed,
		uint32(min(max(iso, 0), math.MaxUint32)))
	b.SetShorts(exifbox.IfdExif, exifbox.TagSensitivityType, 3) // "ISO speed"
	return nil
}

func applyFrameEXIF(b *exifbox.Box, frame *rolls.Frame) error {
	b.SetString(exifbox.IfdExif, exifbox.TagDateTimeOriginal,
		frame.DateTime.Format(exifTimeLayout))

	if frame.Lens != nil {
		b.SetString(exifbox.IfdExif, exifbox.TagLensLabel, frame.Lens.String())
		if frame.Lens.Make != "" {
			b.SetString(exifbox.IfdExif, exifbox.TagLensMake, frame.Lens.Make)
		}
		if frame.Lens.Model != "" {
			b.SetString(exifbox.IfdExif, exifbox.TagLensModel, frame.Lens.Model)
		}
	}

	if frame.FocalLength != nil {
		b.SetRationals(exifbox.IfdExif, exifbox.TagFocalLength,
			unsignedRat(photo.Rat(frame.FocalLength.Real)))
		if equiv := frame.FocalLength.Equiv; equiv != nil {
			rounded := equiv.RoundBank(0).IntPart()
			b.SetShorts(exifbox.IfdExif, exifbox.TagFocalLength35mm,
				uint16(min(max(rounded, 0), math.MaxUint16)))
		}
	}

	var shutterManual, apertureManual bool
	if frame.ShutterSpeed != nil {
		var seconds *big.Rat
		if seconds, shutterManual = frame.ShutterSpeed.Manual(); shutterManual {
			b.SetRationals(exifbox.IfdExif, exifbox.TagExposureTime, unsignedRat(seconds))
			// APEX value: log2(1/t)
			apex := photo.Log2Rat(new(big.Rat).Inv(seconds))
			b.SetSignedRationals(exifbox.IfdExif, exifbox.TagShutterSpeed, signedRat(apex))
		}
	}
	if frame.Aperture != nil {
		var fnumber decimal.Decimal
		if fnumber, apertureManual = frame.Aperture.Manual(); apertureManual {
			r := photo.Rat(fnumber)
			b.SetRationals(exifbox.IfdExif, exifbox.TagFNumber, unsignedRat(r))
			// APEX value: log2(N²)
			apex := photo.Log2Rat(new(big.Rat).Mul(r, r))
			b.SetRationals(exifbox.IfdExif, exifbox.TagApertureValue, unsignedRat(apex))
		}
	}
	b.SetShorts(exifbox.IfdExif, exifbox.TagExposureProgram,
		exposureProgram(frame.ShutterSpeed != nil, shutterManual, frame.Aperture != nil, apertureManual))

	if frame.Compensation != nil {
		b.SetSignedRationals(exifbox.IfdExif, exifbox.TagExposureComp,
			signedRat(frame.Compensation.EV()))
	}

	setLatitude(b, frame.Position.Lat)
	setLongitude(b, frame.Position.Lon)
	return nil
}

func applyAuthorEXIF(b *exifbox.Box, author *meta.Metadata, date time.Time) error {
	b.SetString(exifbox.IfdRoot, exifbox.TagArtist, author.Author.Name)
	b.SetString(exifbox.IfdRoot, exifbox.TagCopyright, author.Copyright(date))
	return nil
}

// exposureProgram classifies the (shutter, aperture) variant pair into
// the EXIF ExposureProgram values: 1 Manual, 2 Program AE, 3
// Aperture-priority AE, 4 Shutter-priority AE, 0 Not Defined.
func exposureProgram(haveShutter, shutterManual, haveAperture, apertureManual bool) uint16 {
	if !haveShutter || !haveAperture {
		return 0
	}
	switch {
	case !shutterManual && !apertureManual:
		return 2
	case !shutterManual && apertureManual:
		return 3
	case shutterManual && !apertureManual:
		return 4
	default:
		return 1
	}
}

func setLatitude(b *exifbox.Box, latitude float64) {
	d := photo.LatitudeDMS(latitude)
	b.SetRationals(exifbox.IfdGPS, exifbox.TagGPSLatitude,
		exifbox.Rational{Num: uint32(d.Degrees), Den: 1},
		exifbox.Rational{Num: uint32(d.Minutes), Den: 1},
		unsignedRat(photo.ApproxRat(d.Seconds)))
	b.SetString(exifbox.IfdGPS, exifbox.TagGPSLatitudeRef, d.Cardinal.Ref())
}

func setLongitude(b *exifbox.Box, longitude float64) {
	d := photo.LongitudeDMS(longitude)
	b.SetRationals(exifbox.IfdGPS, exifbox.TagGPSLongitude,
		exifbox.Rational{Num: uint32(d.Degrees), Den: 1},
		exifbox.Rational{Num: uint32(d.Minutes), Den: 1},
		unsignedRat(photo.ApproxRat(d.Seconds)))
	b.SetString(exifbox.IfdGPS, exifbox.TagGPSLongitudeRef, d.Cardinal.Ref())
}

func unsignedRat(r *big.Rat) exifbox.Rational {
	return exifbox.Rational{
		Num: clampU32(r.Num()),
		Den: clampU32(r.Denom()),
	}
}

func signedRat(r *big.Rat) exifbox.SignedRational {
	return exifbox.SignedRational{
		Num: clampI32(r.Num()),
		Den: clampI32(r.Denom()),
	}
}

func clampU32(v *big.Int) uint32 {
	if !v.IsInt64() {
		if v.Sign() < 0 {
			return 0
		}
		return math.MaxUint32
	}
	return uint32(min(max(v.Int64(), 0), math.MaxUint32))
}

func clampI32(v *big.Int) int32 {
	if !v.IsInt64() {
		if v.Sign() < 0 {
			return math.MinInt32
		}
		return math.MaxInt32
	}
	return int32(min(max(v.Int64(), math.MinInt32), math.MaxInt32))
}

// encodeComment encodes free text for the EXIF UserComment tag. ASCII
// text is stored with the ASCII charset marker; anything else is
// stored as UCS-2 with a byte order mark, in the container's byte
// order. Text with characters outside the BMP cannot be UCS-2 encoded
// and degrades to filtered ASCII.
func encodeComment(text string, order binary.ByteOrder) []byte {
	if !isASCII(text) {
		if units, ok := ucs2Units(text); ok {
			out := append([]byte(nil), "UNICODE\x00"...)
			var buf [2]byte
			for _, u := range append([]uint16{0xFEFF}, units...) {
				order.PutUint16(buf[:], u)
				out = append(out, buf[:]...)
			}
			return out
		}
	}
	out := append([]byte(nil), "ASCII\x00\x00\x00"...)
	for _, r := range text {
		if r < 0x80 {
			out = append(out, byte(r))
		}
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func ucs2Units(s string) ([]uint16, bool) {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			return nil, false
		}
		units = append(units, uint16(r))
	}
	return units, true
}
