package normalize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedDocument is matched by every *MalformedDocumentError.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrDateParse is matched by every *DateParseError.
	ErrDateParse = errors.New("date parse error")
)

// MalformedDocumentError reports a source document that does not have the
// expected shape: a missing required field, an unexpected type at a known
// path, or an ambiguous flattened key.
type MalformedDocumentError struct {
	Kind   string // "match", "competition"
	Index  int    // position in the input set, -1 when unknown
	ID     any    // document id when it could be read
	Path   string // dotted path of the offending field
	Reason string
}

func malformed(path, format string, args ...any) *MalformedDocumentError {
	return &MalformedDocumentError{Index: -1, Path: path, Reason: fmt.Sprintf(format, args...)}
}

func (e *MalformedDocumentError) Error() string {
	var b strings.Builder
	b.WriteString("malformed ")
	if e.Kind != "" {
		b.WriteString(e.Kind)
		b.WriteByte(' ')
	}
	b.WriteString("document")
	if e.Index >= 0 {
		fmt.Fprintf(&b, " #%d", e.Index)
	}
	if e.ID != nil {
		fmt.Fprintf(&b, " (id=%v)", e.ID)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *MalformedDocumentError) Unwrap() error { return ErrMalformedDocument }

// DateParseError reports a date or datetime field that does not match its
// literal layout.
type DateParseError struct {
	Kind   string // "match", "competition"
	Index  int    // position in the input set, -1 when unknown
	ID     any    // document id when it could be read
	Path   string
	Value  string
	Layout string
	Err    error
}

func dateError(path, value, layout string, err error) *DateParseError {
	return &DateParseError{Index: -1, Path: path, Value: value, Layout: layout, Err: err}
}

func (e *DateParseError) Error() string {
	msg := fmt.Sprintf("parse %s=%q with layout %q: %v", e.Path, e.Value, e.Layout, e.Err)
	at := e.Kind
	if e.Index >= 0 {
		at += fmt.Sprintf(" document #%d", e.Index)
	}
	if e.ID != nil {
		at += fmt.Sprintf(" (id=%v)", e.ID)
	}
	if at = strings.TrimSpace(at); at == "" {
		return msg
	}
	return at + ": " + msg
}

func (e *DateParseError) Unwrap() []error { return []error{ErrDateParse, e.Err} }

// atDocument stamps document coordinates onto a malformed-document or
// date-parse error. Coordinates already set are kept.
func atDocument(err error, kind string, index int, id any) error {
	var m *MalformedDocumentError
	if errors.As(err, &m) {
		m.Kind, m.Index = kind, index
		if m.ID == nil {
			m.ID = id
		}
		return err
	}
	var d *DateParseError
	if errors.As(err, &d) {
		d.Kind = kind
		if index >= 0 {
			d.Index = index
		}
		if d.ID == nil {
			d.ID = id
		}
	}
	return err
}
