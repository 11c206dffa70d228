package negative

import (
	"time"

	"github.com/skagerrak/filmtag/pkg/meta"
	"github.com/skagerrak/filmtag/pkg/rolls"
	"github.com/skagerrak/filmtag/pkg/xmp"
)

const xmpTimeLayout = "2006-01-02T15:04:05-07:00"

// applyRollXMP exists for symmetry with the EXIF side; none of the roll
// metadata has an XMP mapping.
func applyRollXMP(p *xmp.Packet, roll *rolls.Roll) error {
	return nil
}

func applyFrameXMP(p *xmp.Packet, frame *rolls.Frame) error {
	p.SetText(xmp.NSPhotoshop, "DateCreated", frame.DateTime.Format(xmpTimeLayout))
	return nil
}

func applyAuthorXMP(p *xmp.Packet, author *meta.Metadata, date time.Time) error {
	// Replace rather than append so reapplying metadata stays
	// idempotent.
	p.Delete(xmp.NSDC, "creator")
	p.AppendArrayItem(xmp.NSDC, "creator", author.Author.Name)
	p.Delete(xmp.NSXMPRights, "Owner")
	p.AppendArrayItem(xmp.NSXMPRights, "Owner", author.Author.Name)

	p.SetLocalizedText(xmp.NSDC, "rights", author.Copyright(date))
	p.SetText(xmp.NSPhotoshop, "AuthorsPosition", "Photographer")

	if author.License == "" {
		return nil
	}
	p.SetBool(xmp.NSXMPRights, "Marked", author.License != meta.PublicDomain)
	p.SetLocalizedText(xmp.NSXMPRights, "UsageTerms", author.UsageTerms())
	p.RegisterNamespace(xmp.NSCC, "cc")
	p.SetText(xmp.NSCC, "license", author.License.URL())
	p.SetText(xmp.NSCC, "attributionName", author.Author.Name)
	if author.Author.URL != "" {
		p.SetText(xmp.NSCC, "attributionURL", author.Author.URL)
	}
	return nil
}
