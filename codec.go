package polyjson

import (
	"reflect"

	"github.com/hengadev/polyjson/stream"
)

// Codec converts values of one type to and from the token stream.
// A codec resolved for a type is deterministic and side-effect free:
// repeated invocations against equivalent streams produce equivalent
// results regardless of later registry activity.
type Codec interface {
	Encode(w *stream.Writer, v reflect.Value) error
	Decode(r stream.Reader) (reflect.Value, error)
}

// Factory produces a Codec for a type or declines. Declining is
// reported as (nil, nil); a non-nil error aborts resolution.
//
// A factory may resolve codecs for nested types through res, including
// the type it is currently building for. Such re-entrant lookups are
// answered with a placeholder that defers to the finished codec, so
// self-referential and mutually recursive types resolve without
// deadlock.
type Factory interface {
	Create(res *Resolution, t reflect.Type) (Codec, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(res *Resolution, t reflect.Type) (Codec, error)

func (f FactoryFunc) Create(res *Resolution, t reflect.Type) (Codec, error) {
	return f(res, t)
}

// futureCodec is the forward-declared placeholder handed out when a
// type's resolution re-enters itself. The delegate is installed once
// the outer resolution completes; using the placeholder before then is
// an engine bug, not a caller error.
type futureCodec struct {
	delegate Codec
}

func (f *futureCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if f.delegate == nil {
		return NewInternalError("codec placeholder used before resolution finished")
	}
	return f.delegate.Encode(w, v)
}

func (f *futureCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if f.delegate == nil {
		return reflect.Value{}, NewInternalError("codec placeholder used before resolution finished")
	}
	return f.delegate.Decode(r)
}

// isReflective reports whether c is the generic structural codec rather
// than an explicit user registration. The runtime-type wrapper uses
// this to tell user intent apart from the default layout.
func isReflective(c Codec) bool {
	_, ok := c.(*reflectiveCodec)
	return ok
}
