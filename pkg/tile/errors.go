package tile

import (
	"errors"
	"fmt"
)

// Error kinds
const (
	KindUnsupportedSourceImage Kind = iota + 1
	KindImageProcessing
	KindIO
	KindPlanning
)

// Kind classifies a tiling failure
type Kind int

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrUnsupportedSourceImage = errors.New("unsupported source image")
	ErrImageProcessing        = errors.New("image processing error")
	ErrIO                     = errors.New("io error")
	ErrPlanning               = errors.New("planning error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnsupportedSourceImage:
		return ErrUnsupportedSourceImage
	case KindImageProcessing:
		return ErrImageProcessing
	case KindIO:
		return ErrIO
	case KindPlanning:
		return ErrPlanning
	}
	return nil
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown error"
}

// Error represents a failure of one step of a pyramid run
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's kind
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Errorf builds an *Error of the given kind with a formatted cause
func Errorf(kind Kind, op, path string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind to err. A nil err stays nil and an err that already
// carries a kind is returned unchanged.
func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the kind carried by err, or 0 if it has none
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
