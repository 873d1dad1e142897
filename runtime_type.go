package polyjson

import (
	"reflect"

	"github.com/hengadev/polyjson/stream"
)

// runtimeTypeCodec wraps the declared-type codec of an interface-typed
// position (struct field, slice element, map value). At encode time it
// consults the value's run-time type and picks the codec to use:
//
//  1. a non-generic codec registered for the run-time type, if one
//     exists — the user customized that exact type;
//  2. else the declared-type codec, if it is itself a custom
//     registration — the user's choice for the base type wins over an
//     unregistered subtype;
//  3. else the structural codec resolved for the run-time type.
//
// In envelope mode this wrapper also emits the {type,data} wrapper
// around the chosen codec's output, exactly once per logical value, so
// every element of a collection or map carries its own envelope.
type runtimeTypeCodec struct {
	engine   *Engine
	declared reflect.Type
	delegate Codec
}

// wrapRuntime applies the runtime-type wrapper where the declared type
// leaves the concrete type open. Concrete declared types need neither
// runtime dispatch nor an envelope.
func wrapRuntime(e *Engine, declared reflect.Type, delegate Codec) Codec {
	if declared.Kind() != reflect.Interface {
		return delegate
	}
	return &runtimeTypeCodec{engine: e, declared: declared, delegate: delegate}
}

// isCustom reports whether c reflects explicit user intent rather than
// one of the engine's generic structural codecs.
func isCustom(c Codec) bool {
	if isReflective(c) {
		return false
	}
	if _, ok := c.(*anyCodec); ok {
		return false
	}
	if _, ok := c.(*runtimeTypeCodec); ok {
		return false
	}
	return true
}

func (c *runtimeTypeCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return w.NullValue()
		}
		v = v.Elem()
	}
	rt := v.Type()

	chosen := c.delegate
	if rt != c.declared {
		runtimeCodec, err := c.engine.CodecFor(rt)
		if err != nil {
			return err
		}
		switch {
		case isCustom(runtimeCodec):
			chosen = runtimeCodec
		case isCustom(c.delegate):
			chosen = c.delegate
		default:
			chosen = runtimeCodec
		}
	}

	if !c.engine.cfg.Envelope {
		return chosen.Encode(w, v)
	}
	name, err := c.engine.names.nameFor(rt)
	if err != nil {
		return err
	}
	return writeEnvelope(c.engine, w, name, func() error {
		return chosen.Encode(w, v)
	})
}

func (c *runtimeTypeCodec) Decode(r stream.Reader) (reflect.Value, error) {
	return c.delegate.Decode(r)
}
