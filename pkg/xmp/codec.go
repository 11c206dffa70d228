package xmp

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const nsRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

func (p *Packet) prefixFor(ns string) string {
	if prefix, ok := p.prefixes[ns]; ok {
		return prefix
	}
	prefix := fmt.Sprintf("ns%d", len(p.prefixes)+1)
	p.RegisterNamespace(ns, prefix)
	return prefix
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s)) //nolint:errcheck // bytes.Buffer cannot fail
	return buf.String()
}

// Serialize renders the packet as a compact RDF/XML XMP packet.
func (p *Packet) Serialize() []byte {
	// Make sure every used namespace has a prefix before emitting the
	// xmlns declarations.
	for _, k := range p.order {
		p.prefixFor(k.ns)
	}

	var b strings.Builder
	b.WriteString("<?xpacket begin=\"\uFEFF\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>")
	b.WriteString(`<x:xmpmeta xmlns:x="adobe:ns:meta/">`)
	b.WriteString(`<rdf:RDF xmlns:rdf="` + nsRDF + `">`)
	b.WriteString(`<rdf:Description rdf:about=""`)
	for _, ns := range p.nsOrder {
		fmt.Fprintf(&b, ` xmlns:%s=%q`, p.prefixes[ns], ns)
	}
	b.WriteString(`>`)
	for _, k := range p.order {
		prop := p.props[k]
		qname := p.prefixes[k.ns] + ":" + k.name
		switch prop.kind {
		case kindText:
			fmt.Fprintf(&b, "<%s>%s</%s>", qname, escape(prop.text), qname)
		case kindBool:
			text := "False"
			if prop.truth {
				text = "True"
			}
			fmt.Fprintf(&b, "<%s>%s</%s>", qname, text, qname)
		case kindLocalized:
			fmt.Fprintf(&b, `<%s><rdf:Alt><rdf:li xml:lang="x-default">%s</rdf:li></rdf:Alt></%s>`,
				qname, escape(prop.text), qname)
		case kindArray:
			fmt.Fprintf(&b, "<%s><rdf:Seq>", qname)
			for _, item := range prop.items {
				fmt.Fprintf(&b, "<rdf:li>%s</rdf:li>", escape(item))
			}
			fmt.Fprintf(&b, "</rdf:Seq></%s>", qname)
		}
	}
	b.WriteString(`</rdf:Description></rdf:RDF></x:xmpmeta>`)
	b.WriteString(`<?xpacket end="w"?>`)
	return []byte(b.String())
}

// Parse decodes an RDF/XML XMP packet. Only the property shapes this
// package serializes are recognized: text, True/False booleans,
// single-alternative localized text, and flat arrays.
func Parse(data []byte) (*Packet, error) {
	p := New()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return p, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XMP packet: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Space != nsRDF || se.Name.Local != "Description" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Space == "xmlns" {
				p.RegisterNamespace(attr.Value, attr.Name.Local)
			}
		}
		if err := p.parseDescription(dec); err != nil {
			return nil, fmt.Errorf("parsing XMP packet: %w", err)
		}
	}
}

func (p *Packet) parseDescription(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			if err := p.parseProperty(dec, t); err != nil {
				return err
			}
		}
	}
}

func (p *Packet) parseProperty(dec *xml.Decoder, se xml.StartElement) error {
	structure := kindText
	var text strings.Builder
	var items []string
	var liText strings.Builder
	inLi := false
	depth := 0

	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == nsRDF {
				switch t.Name.Local {
				case "Seq", "Bag":
					structure = kindArray
				case "Alt":
					structure = kindLocalized
				case "li":
					inLi = true
					liText.Reset()
				}
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				p.finishProperty(se.Name.Space, se.Name.Local, structure, text.String(), items)
				return nil
			}
			if t.Name.Space == nsRDF && t.Name.Local == "li" {
				items = append(items, liText.String())
				inLi = false
			}
			depth--
		case xml.CharData:
			if inLi {
				liText.Write(t)
			} else {
				text.Write(t)
			}
		}
	}
}

func (p *Packet) finishProperty(ns, name string, structure kind, text string, items []string) {
	switch structure {
	case kindArray:
		p.set(ns, name, &property{kind: kindArray, items: items})
	case kindLocalized:
		var value string
		if len(items) > 0 {
			value = items[0]
		}
		p.SetLocalizedText(ns, name, value)
	default:
		// Booleans are indistinguishable from text on the wire; the
		// value stays text here and Bool reads the literals back.
		p.SetText(ns, name, strings.TrimSpace(text))
	}
}
