package namespace

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a namespace failure.
type Kind string

const (
	KindNotFound               Kind = "NotFound"
	KindDuplicateName          Kind = "DuplicateName"
	KindInvalidName            Kind = "InvalidName"
	KindInvalidOperationOnRoot Kind = "InvalidOperationOnRoot"
	KindNotAFolder             Kind = "NotAFolder"
	KindNotAFile               Kind = "NotAFile"
	KindInvalidDestination     Kind = "InvalidDestination"
	KindIOFailure              Kind = "IOFailure"
)

var (
	// Sentinels, compare with errors.Is.
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrDuplicateName          = &Error{Kind: KindDuplicateName}
	ErrInvalidName            = &Error{Kind: KindInvalidName}
	ErrInvalidOperationOnRoot = &Error{Kind: KindInvalidOperationOnRoot}
	ErrNotAFolder             = &Error{Kind: KindNotAFolder}
	ErrNotAFile               = &Error{Kind: KindNotAFile}
	ErrInvalidDestination     = &Error{Kind: KindInvalidDestination}
	ErrIOFailure              = &Error{Kind: KindIOFailure}
)

// Error is returned by every resolver and mutator operation.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func newError(kind Kind, op, path string) *Error {
	return &Error{Kind: kind, Op: op, Path: path}
}

func ioError(op, path string, err error) *Error {
	return &Error{Kind: KindIOFailure, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Op)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. Op and Path of
// the target are only compared when set.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind &&
		(t.Op == "" || t.Op == e.Op) &&
		(t.Path == "" || t.Path == e.Path)
}

// KindOf returns the kind carried by err, or an empty kind if err does not
// come from this package.
func KindOf(err error) Kind {
	var nsErr *Error
	if errors.As(err, &nsErr) {
		return nsErr.Kind
	}
	return ""
}
