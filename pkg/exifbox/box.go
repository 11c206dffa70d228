// Package exifbox is a typed, in-memory EXIF tag container with
// file-backed load and save.
//
// The container holds tag values keyed by (IFD path, tag ID); nothing
// here touches the raw byte layout. Loading and saving delegate to the
// dsoprea EXIF and image-structure packages.
package exifbox

import (
	"cmp"
	"encoding/binary"
	"slices"
)

// Rational is an unsigned EXIF rational value.
type Rational struct {
	Num uint32
	Den uint32
}

// SignedRational is a signed EXIF rational value.
type SignedRational struct {
	Num int32
	Den int32
}

// Entry is one tag in the container. Value is one of: string,
// []uint16, []uint32, []Rational, []SignedRational, or []byte for
// undefined-type payloads.
type Entry struct {
	IFD   string
	Tag   uint16
	Value any
}

type key struct {
	ifd string
	tag uint16
}

// Box is an in-memory EXIF tag container. The zero value is not
// usable; construct with New or Load.
type Box struct {
	byteOrder binary.ByteOrder
	entries   map[key]*Entry
}

// New returns an empty container with little-endian byte order.
func New() *Box {
	return &Box{
		byteOrder: binary.LittleEndian,
		entries:   make(map[key]*Entry),
	}
}

// ByteOrder returns the byte order tag payloads are encoded with.
func (b *Box) ByteOrder() binary.ByteOrder {
	return b.byteOrder
}

func (b *Box) set(ifd string, tag uint16, value any) {
	b.entries[key{ifd: ifd, tag: tag}] = &Entry{IFD: ifd, Tag: tag, Value: value}
}

// SetString sets an ASCII tag.
func (b *Box) SetString(ifd string, tag uint16, value string) {
	b.set(ifd, tag, value)
}

// SetShorts sets an unsigned 16-bit integer tag.
func (b *Box) SetShorts(ifd string, tag uint16, value ...uint16) {
	b.set(ifd, tag, slices.Clone(value))
}

// SetLongs sets an unsigned 32-bit integer tag.
func (b *Box) SetLongs(ifd string, tag uint16, value ...uint32) {
	b.set(ifd, tag, slices.Clone(value))
}

// SetRationals sets an unsigned rational tag.
func (b *Box) SetRationals(ifd string, tag uint16, value ...Rational) {
	b.set(ifd, tag, slices.Clone(value))
}

// SetSignedRationals sets a signed rational tag.
func (b *Box) SetSignedRationals(ifd string, tag uint16, value ...SignedRational) {
	b.set(ifd, tag, slices.Clone(value))
}

// SetUndefined sets an undefined-type tag to a raw byte payload.
func (b *Box) SetUndefined(ifd string, tag uint16, value []byte) {
	b.set(ifd, tag, slices.Clone(value))
}

// Lookup returns the entry for a tag, if set.
func (b *Box) Lookup(ifd string, tag uint16) (*Entry, bool) {
	e, ok := b.entries[key{ifd: ifd, tag: tag}]
	return e, ok
}

// String returns the value of an ASCII tag, or "" if the tag is unset
// or not a string.
func (b *Box) String(ifd string, tag uint16) string {
	if e, ok := b.Lookup(ifd, tag); ok {
		if s, ok := e.Value.(string); ok {
			return s
		}
	}
	return ""
}

// Bytes returns the payload of an undefined-type tag, or nil.
func (b *Box) Bytes(ifd string, tag uint16) []byte {
	if e, ok := b.Lookup(ifd, tag); ok {
		if raw, ok := e.Value.([]byte); ok {
			return raw
		}
	}
	return nil
}

// Delete removes a tag. Removing an unset tag is a no-op.
func (b *Box) Delete(ifd string, tag uint16) {
	delete(b.entries, key{ifd: ifd, tag: tag})
}

// Len returns the number of set tags.
func (b *Box) Len() int {
	return len(b.entries)
}

// Entries returns all set tags, ordered by IFD path and tag ID.
func (b *Box) Entries() []*Entry {
	out := make([]*Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *Entry) int {
		if c := cmp.Compare(a.IFD, b.IFD); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out
}
