// Package glacierr classifies the error kinds described in spec §7 so
// callers can decide policy (skip-and-log vs. roll back vs. fatal exit)
// without string-matching error text.
package glacierr

import "errors"

// Kind is one of the §7 error kinds.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindFormatInvalid
	KindPermissionDenied
	KindConfigMalformed
	KindStoreIntegrity
	KindResourceExhausted
	KindChildSpawn
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindFormatInvalid:
		return "format invalid"
	case KindPermissionDenied:
		return "permission denied"
	case KindConfigMalformed:
		return "config malformed"
	case KindStoreIntegrity:
		return "store integrity"
	case KindResourceExhausted:
		return "resource exhausted"
	case KindChildSpawn:
		return "child spawn failed"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a §7 classification.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "probe.MP3.ReadInfo"
	Path string // file/resource path, if relevant
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
