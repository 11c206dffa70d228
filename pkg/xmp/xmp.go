// Package xmp implements a minimal XMP property tree with an RDF/XML
// serialization, covering the property shapes needed for photographic
// metadata: plain text, booleans, x-default localized text, and
// ordered arrays.
package xmp

import (
	"slices"
)

// Namespaces used by the synthesis layer. Additional namespaces can be
// registered with RegisterNamespace.
const (
	NSDC        = "http://purl.org/dc/elements/1.1/"
	NSXMPRights = "http://ns.adobe.com/xap/1.0/rights/"
	NSPhotoshop = "http://ns.adobe.com/photoshop/1.0/"
	NSCC        = "http://creativecommons.org/ns#"
)

type kind int

const (
	kindText kind = iota
	kindBool
	kindLocalized
	kindArray
)

type propKey struct {
	ns   string
	name string
}

type property struct {
	kind  kind
	text  string
	truth bool
	items []string
}

// Packet is a mutable XMP property tree. Properties are identified by
// a (namespace URI, local name) pair.
type Packet struct {
	prefixes map[string]string
	nsOrder  []string
	props    map[propKey]*property
	order    []propKey
}

// New returns an empty packet with the dc, xmpRights, and photoshop
// namespaces registered.
func New() *Packet {
	p := &Packet{
		prefixes: make(map[string]string),
		props:    make(map[propKey]*property),
	}
	p.RegisterNamespace(NSDC, "dc")
	p.RegisterNamespace(NSXMPRights, "xmpRights")
	p.RegisterNamespace(NSPhotoshop, "photoshop")
	return p
}

// RegisterNamespace associates a serialization prefix with a namespace
// URI. Registering an already-known URI is a no-op.
func (p *Packet) RegisterNamespace(uri, prefix string) {
	if _, ok := p.prefixes[uri]; ok {
		return
	}
	p.prefixes[uri] = prefix
	p.nsOrder = append(p.nsOrder, uri)
}

func (p *Packet) set(ns, name string, prop *property) {
	k := propKey{ns: ns, name: name}
	if _, ok := p.props[k]; !ok {
		p.order = append(p.order, k)
	}
	p.props[k] = prop
}

// SetText sets a plain text property, replacing any previous value.
func (p *Packet) SetText(ns, name, value string) {
	p.set(ns, name, &property{kind: kindText, text: value})
}

// Text returns a plain text property value.
func (p *Packet) Text(ns, name string) (string, bool) {
	if prop, ok := p.props[propKey{ns: ns, name: name}]; ok && prop.kind == kindText {
		return prop.text, true
	}
	return "", false
}

// SetBool sets a boolean property.
func (p *Packet) SetBool(ns, name string, value bool) {
	p.set(ns, name, &property{kind: kindBool, truth: value})
}

// Bool returns a boolean property value. XMP booleans are plain
// "True"/"False" text on the wire, so a text property holding either
// literal reads back as a boolean too.
func (p *Packet) Bool(ns, name string) (bool, bool) {
	prop, ok := p.props[propKey{ns: ns, name: name}]
	if !ok {
		return false, false
	}
	switch {
	case prop.kind == kindBool:
		return prop.truth, true
	case prop.kind == kindText && prop.text == "True":
		return true, true
	case prop.kind == kindText && prop.text == "False":
		return false, true
	}
	return false, false
}

// SetLocalizedText sets a localized text property with a single
// x-default alternative, replacing any previous value.
func (p *Packet) SetLocalizedText(ns, name, value string) {
	p.set(ns, name, &property{kind: kindLocalized, text: value})
}

// LocalizedText returns the x-default alternative of a localized text
// property.
func (p *Packet) LocalizedText(ns, name string) (string, bool) {
	if prop, ok := p.props[propKey{ns: ns, name: name}]; ok && prop.kind == kindLocalized {
		return prop.text, true
	}
	return "", false
}

// AppendArrayItem appends one item to an ordered array property,
// creating the array if needed.
func (p *Packet) AppendArrayItem(ns, name, item string) {
	k := propKey{ns: ns, name: name}
	if prop, ok := p.props[k]; ok && prop.kind == kindArray {
		prop.items = append(prop.items, item)
		return
	}
	p.set(ns, name, &property{kind: kindArray, items: []string{item}})
}

// Array returns the items of an ordered array property, or nil.
func (p *Packet) Array(ns, name string) []string {
	if prop, ok := p.props[propKey{ns: ns, name: name}]; ok && prop.kind == kindArray {
		return slices.Clone(prop.items)
	}
	return nil
}

// Delete removes a property. Removing an unset property is a no-op.
func (p *Packet) Delete(ns, name string) {
	k := propKey{ns: ns, name: name}
	if _, ok := p.props[k]; !ok {
		return
	}
	delete(p.props, k)
	p.order = slices.DeleteFunc(p.order, func(o propKey) bool { return o == k })
}

// Len returns the number of set properties.
func (p *Packet) Len() int {
	return len(p.props)
}
