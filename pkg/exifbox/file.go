package exifbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	exifv2 "github.com/dsoprea/go-exif/v2"
	exifcommonv2 "github.com/dsoprea/go-exif/v2/common"
	exif "github.com/dsoprea/go-exif/v3"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure"
	pngstructure "github.com/dsoprea/go-png-image-structure"
	tiffstructure "github.com/dsoprea/go-tiff-image-structure"
	riimage "github.com/dsoprea/go-utility/image"
	"k8s.io/klog/v2"

	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// EncodingError reports a value or file the underlying codec could not
// encode.
type EncodingError struct {
	Path string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.Path, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

type mediaParser interface {
	Parse(rs io.ReadSeeker, size int) (ec riimage.MediaContext, err error)
}

func parserFor(ext string) mediaParser {
	switch ext {
	case ".jpg", ".jpeg":
		return jpegstructure.NewJpegMediaParser()
	case ".png":
		return pngstructure.NewPngMediaParser()
	case ".tif", ".tiff":
		return tiffstructure.NewTiffMediaParser()
	}
	return nil
}

// Load reads the EXIF block of an image file into a Box. Formats with
// a structured parser (JPEG, PNG, TIFF) are parsed properly; anything
// else falls back to a brute-force EXIF scan. A file without EXIF data
// yields an empty container.
func Load(path string) (*Box, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	var data []byte
	if parser := parserFor(strings.ToLower(filepath.Ext(path))); parser != nil {
		if mc, err := parser.Parse(f, int(fi.Size())); err == nil {
			_, data, _ = mc.Exif()
		} else {
			klog.V(2).Infof("structured parse of %s failed: %v", path, err)
		}
	}
	if len(data) == 0 {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		data, err = exif.SearchAndExtractExifWithReader(f)
		if err != nil && !errors.Is(err, exif.ErrNoExif) {
			return nil, fmt.Errorf("scanning %s for EXIF data: %w", path, err)
		}
	}

	box := New()
	if len(data) == 0 {
		return box, nil
	}
	if eh, err := exif.ParseExifHeader(data); err == nil {
		box.byteOrder = eh.ByteOrder
	}
	entries, _, err := exif.GetFlatExifData(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decoding EXIF data of %s: %w", path, err)
	}
	for _, tag := range entries {
		switch v := tag.Value.(type) {
		case string:
			box.SetString(tag.IfdPath, tag.TagId, v)
		case []byte:
			box.SetUndefined(tag.IfdPath, tag.TagId, v)
		case []uint16:
			box.SetShorts(tag.IfdPath, tag.TagId, v...)
		case []uint32:
			box.SetLongs(tag.IfdPath, tag.TagId, v...)
		case []exifcommon.Rational:
			rats := make([]Rational, len(v))
			for i, r := range v {
				rats[i] = Rational{Num: r.Numerator, Den: r.Denominator}
			}
			box.SetRationals(tag.IfdPath, tag.TagId, rats...)
		case []exifcommon.SignedRational:
			rats := make([]SignedRational, len(v))
			for i, r := range v {
				rats[i] = SignedRational{Num: r.Numerator, Den: r.Denominator}
			}
			box.SetSignedRationals(tag.IfdPath, tag.TagId, rats...)
		default:
			klog.V(3).Infof("skipping tag 0x%04x in %s: unhandled type %s", tag.TagId, tag.IfdPath, tag.TagTypeName)
		}
	}
	klog.V(2).Infof("loaded %d EXIF tags from %s", box.Len(), path)
	return box, nil
}

// Save writes the container's tags back into the image file at path,
// replacing its EXIF block. Only JPEG files can be written; any other
// format yields an EncodingError.
func (b *Box) Save(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
	default:
		return &EncodingError{Path: path, Err: errors.New("only JPEG files can be written")}
	}

	jmp := jpegstructure.NewJpegMediaParser()
	mc, err := jmp.ParseFile(path)
	if err != nil {
		return &EncodingError{Path: path, Err: err}
	}
	sl := mc.(*jpegstructure.SegmentList)

	rootIb, err := sl.ConstructExifBuilder()
	if err != nil {
		im := exifcommonv2.NewIfdMappingWithStandard()
		ti := exifv2.NewTagIndex()
		rootIb = exifv2.NewIfdBuilder(im, ti, exifcommonv2.IfdPathStandard, b.byteOrder)
	}
	for _, entry := range b.Entries() {
		if err := setBuilderTag(rootIb, entry, b); err != nil {
			return &EncodingError{Path: path, Err: err}
		}
	}
	if err := sl.SetExif(rootIb); err != nil {
		return &EncodingError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if err := sl.Write(&buf); err != nil {
		return &EncodingError{Path: path, Err: err}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func setBuilderTag(rootIb *exifv2.IfdBuilder, entry *Entry, b *Box) error {
	ib, err := exifv2.GetOrCreateIbFromRootIb(rootIb, entry.IFD)
	if err != nil {
		return fmt.Errorf("resolving IFD %s: %w", entry.IFD, err)
	}

	// Undefined payloads bypass the value encoder and go in as-is.
	if raw, ok := entry.Value.([]byte); ok {
		bt := exifv2.NewBuilderTag(
			entry.IFD, entry.Tag, exifcommonv2.TypeUndefined,
			exifv2.NewIfdBuilderTagValueFromBytes(raw), b.byteOrder)
		return ib.Set(bt)
	}

	value := entry.Value
	switch v := value.(type) {
	case []Rational:
		rats := make([]exifcommonv2.Rational, len(v))
		for i, r := range v {
			rats[i] = exifcommonv2.Rational{Numerator: r.Num, Denominator: r.Den}
		}
		value = rats
	case []SignedRational:
		rats := make([]exifcommonv2.SignedRational, len(v))
		for i, r := range v {
			rats[i] = exifcommonv2.SignedRational{Numerator: r.Num, Denominator: r.Den}
		}
		value = rats
	}
	ve := exifcommonv2.NewValueEncoder(b.byteOrder)
	ed, err := ve.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding tag 0x%04x: %w", entry.Tag, err)
	}
	bt := exifv2.NewBuilderTag(
		entry.IFD, entry.Tag, ed.Type,
		exifv2.NewIfdBuilderTagValueFromBytes(ed.Encoded), b.byteOrder)
	return ib.Set(bt)
}
