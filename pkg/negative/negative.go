// Package negative models an on-disk image file ("negative") with its
// EXIF and XMP metadata, and applies film roll, frame, and author
// metadata to both representations.
package negative

import (
	"time"

	"k8s.io/klog/v2"

	"github.com/skagerrak/filmtag/pkg/exifbox"
	"github.com/skagerrak/filmtag/pkg/meta"
	"github.com/skagerrak/filmtag/pkg/rolls"
	"github.com/skagerrak/filmtag/pkg/xmp"
)

// Applier receives film roll, frame, and author metadata. Negative
// implements it by forwarding to the EXIF and XMP representations held
// in memory.
type Applier interface {
	ApplyRoll(roll *rolls.Roll) error
	ApplyFrame(frame *rolls.Frame) error

	// ApplyAuthor applies author and license metadata. The copyright
	// notice needs an associated date; a zero date falls back to the
	// negative's own capture date, or failing that the current time.
	ApplyAuthor(author *meta.Metadata, date time.Time) error
}

// Negative is an image file with associated EXIF and XMP metadata.
type Negative struct {
	box    *exifbox.Box
	packet *xmp.Packet
	path   string
	rollID string
}

// New returns an empty, path-less negative. Used by tests and as the
// base for images with no existing metadata.
func New() *Negative {
	return &Negative{
		box:    exifbox.New(),
		packet: xmp.New(),
	}
}

// FromFile opens an image file and extracts its EXIF and XMP metadata,
// if present. The XMP packet is read from the EXIF container rather
// than a sidecar, so legacy-tag reconciliation never happens.
func FromFile(path string) (*Negative, error) {
	box, err := exifbox.Load(path)
	if err != nil {
		return nil, err
	}
	packet := xmp.New()
	if raw := box.Bytes(exifbox.IfdRoot, exifbox.TagXMP); len(raw) > 0 {
		packet, err = xmp.Parse(raw)
		if err != nil {
			return nil, err
		}
	}
	return &Negative{box: box, packet: packet, path: path}, nil
}

// Path returns the file path of this negative. Empty for negatives
// created with New.
func (n *Negative) Path() string {
	return n.path
}

// Roll returns the roll ID applied to this negative, or "".
func (n *Negative) Roll() string {
	return n.rollID
}

// Date returns the capture time recorded in the negative's EXIF tags,
// preferring DateTimeOriginal over CreateDate. The zero time is
// returned when neither is present.
func (n *Negative) Date() time.Time {
	for _, tag := range []uint16{exifbox.TagDateTimeOriginal, exifbox.TagCreateDate} {
		if s := n.box.String(exifbox.IfdExif, tag); s != "" {
			if t, err := time.Parse(exifTimeLayout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// ApplyRoll applies roll metadata to both representations and records
// the roll ID for later lookup.
func (n *Negative) ApplyRoll(roll *rolls.Roll) error {
	if err := applyRollEXIF(n.box, roll); err != nil {
		return err
	}
	if err := applyRollXMP(n.packet, roll); err != nil {
		return err
	}
	n.rollID = roll.ID
	return nil
}

// ApplyFrame applies frame metadata to both representations.
func (n *Negative) ApplyFrame(frame *rolls.Frame) error {
	if err := applyFrameEXIF(n.box, frame); err != nil {
		return err
	}
	return applyFrameXMP(n.packet, frame)
}

// ApplyAuthor applies author and license metadata to both
// representations.
func (n *Negative) ApplyAuthor(author *meta.Metadata, date time.Time) error {
	if date.IsZero() {
		date = n.Date()
	}
	if date.IsZero() {
		date = time.Now()
	}
	if err := applyAuthorEXIF(n.box, author, date); err != nil {
		return err
	}
	return applyAuthorXMP(n.packet, author, date)
}

// Save embeds the XMP packet in the EXIF container and writes the
// metadata back to the source file.
func (n *Negative) Save() error {
	n.box.SetUndefined(exifbox.IfdRoot, exifbox.TagXMP, n.packet.Serialize())
	klog.V(1).Infof("writing %d EXIF tags to %s", n.box.Len(), n.path)
	return n.box.Save(n.path)
}
