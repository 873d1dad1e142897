package polyjson

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// Resolution errors
	ErrUnsupportedType = errors.New("no codec available for type")
	ErrTypeResolution  = errors.New("type name cannot be resolved")

	// Stream errors
	ErrSyntax = errors.New("malformed JSON")
	ErrWrite  = errors.New("write failed")

	// Fatal errors
	ErrInternal = errors.New("internal invariant violated")

	// Registration errors
	ErrNilType             = errors.New("nil type provided")
	ErrNilCodec            = errors.New("nil codec provided")
	ErrEmptyName           = errors.New("empty type name provided")
	ErrConflictingTypeName = errors.New("conflicting type name registration")
)

func NewUnsupportedTypeError(t reflect.Type) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func NewTypeResolutionError(name string) error {
	return fmt.Errorf("%w: %q is not registered in this process", ErrTypeResolution, name)
}

// NewSyntaxError reports a malformed token stream or envelope. Stream
// I/O faults during decode are deliberately folded into this same kind
// at the decode boundary.
func NewSyntaxError(cause error) error {
	return fmt.Errorf("%w: %v", ErrSyntax, cause)
}

func NewWriteError(cause error) error {
	return fmt.Errorf("%w: %v", ErrWrite, cause)
}

// NewInternalError wraps an invariant violation, preserving the
// original cause for diagnostics instead of swallowing it.
func NewInternalError(cause any) error {
	return fmt.Errorf("%w: %v", ErrInternal, cause)
}

// IsUnsupportedTypeError returns true if no codec could be resolved for
// the requested type.
func IsUnsupportedTypeError(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}

// IsTypeResolutionError returns true if an envelope named a type that
// is not loadable in this process.
func IsTypeResolutionError(err error) bool {
	return errors.Is(err, ErrTypeResolution)
}

// IsSyntaxError returns true for malformed input, malformed envelopes,
// and stream faults encountered while decoding.
func IsSyntaxError(err error) bool {
	return errors.Is(err, ErrSyntax)
}

// IsWriteError returns true for stream write failures during encode.
func IsWriteError(err error) bool {
	return errors.Is(err, ErrWrite)
}

// IsInternalError returns true for assertion-style faults that indicate
// a bug in the engine rather than bad input.
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal)
}

// IsRegistrationError returns true if a codec or type name registration
// was rejected.
func IsRegistrationError(err error) bool {
	return errors.Is(err, ErrNilType) ||
		errors.Is(err, ErrNilCodec) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrConflictingTypeName)
}

var (
	errTopLevelShape = errors.New("top-level value is not an envelope object")
	errMissingType   = errors.New("envelope has no type member")
	errMissingData   = errors.New("envelope has no data member")
)

func errUnrepresentable(v any) error {
	return fmt.Errorf("value of type %T cannot be represented as a JSON document", v)
}
