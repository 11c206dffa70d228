package rolls

import "fmt"

// SyntaxError wraps a structural parse failure in the source bytes. No
// partial structure can be trusted after one, so the whole source is
// abandoned.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// MissingDataError reports a required field that is structurally absent
// from an otherwise well-formed record.
type MissingDataError struct {
	Field string
}

func (e *MissingDataError) Error() string {
	return "missing data: " + e.Field
}

// InvalidDataError reports a field that is present but fails a domain
// constraint, such as a film speed with no DIN mapping.
type InvalidDataError struct {
	Field string
}

func (e *InvalidDataError) Error() string {
	return "invalid data: " + e.Field
}

// UnsupportedFormatError reports a source format hint this package does
// not recognize.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported format: " + e.Name
}
