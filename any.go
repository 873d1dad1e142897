package polyjson

import (
	"fmt"
	"reflect"

	"github.com/hengadev/polyjson/internal/tree"
	"github.com/hengadev/polyjson/stream"
)

// anyCodec handles interface-typed targets. Encoding dispatches on the
// value's run-time type. Decoding is where type self-discovery happens:
// objects are buffered and sniffed for the {type,data} envelope so the
// concrete type can be recovered before structural decoding starts.
type anyCodec struct {
	engine *Engine
	iface  reflect.Type
}

func (c *anyCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return w.NullValue()
		}
		v = v.Elem()
	}
	delegate, err := c.engine.CodecFor(v.Type())
	if err != nil {
		return err
	}
	return delegate.Encode(w, v)
}

func (c *anyCodec) Decode(r stream.Reader) (reflect.Value, error) {
	k, err := r.Peek()
	if err != nil {
		return reflect.Value{}, err
	}
	switch k {
	case stream.Null:
		return reflect.Zero(c.iface), r.NextNull()
	case stream.String:
		s, err := r.NextString()
		if err != nil {
			return reflect.Value{}, err
		}
		return c.conformTo(reflect.ValueOf(s))
	case stream.Bool:
		b, err := r.NextBool()
		if err != nil {
			return reflect.Value{}, err
		}
		return c.conformTo(reflect.ValueOf(b))
	case stream.Number:
		n, err := r.NextNumber()
		if err != nil {
			return reflect.Value{}, err
		}
		if c.engine.cfg.UseNumber {
			return c.conformTo(reflect.ValueOf(n))
		}
		f, err := n.Float64()
		if err != nil {
			return reflect.Value{}, err
		}
		return c.conformTo(reflect.ValueOf(f))
	case stream.BeginArray:
		if err := r.BeginArray(); err != nil {
			return reflect.Value{}, err
		}
		out := []any{}
		for {
			k, err := r.Peek()
			if err != nil {
				return reflect.Value{}, err
			}
			if k == stream.EndArray {
				break
			}
			ev, err := c.element().Decode(r)
			if err != nil {
				return reflect.Value{}, err
			}
			out = append(out, ifaceOf(ev))
		}
		if err := r.EndArray(); err != nil {
			return reflect.Value{}, err
		}
		return c.conformTo(reflect.ValueOf(out))
	case stream.BeginObject:
		buffered, err := tree.Parse(r)
		if err != nil {
			return reflect.Value{}, err
		}
		return c.decodeObject(buffered.(tree.Object))
	}
	return reflect.Value{}, fmt.Errorf("unexpected %s", k)
}

// element returns the codec used for nested values, always the plain
// any dispatcher regardless of the declared interface.
func (c *anyCodec) element() *anyCodec {
	if c.iface == anyType {
		return c
	}
	return &anyCodec{engine: c.engine, iface: anyType}
}

func (c *anyCodec) decodeObject(o tree.Object) (reflect.Value, error) {
	cfg := c.engine.cfg
	if name, data, ok := envelopeOf(o, cfg); ok {
		t, err := c.engine.names.typeFor(name)
		if err != nil {
			return reflect.Value{}, err
		}
		delegate, err := c.engine.CodecFor(t)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := delegate.Decode(tree.NewReader(data))
		if err != nil {
			return reflect.Value{}, err
		}
		return c.conformTo(v)
	}
	if c.iface.NumMethod() > 0 {
		return reflect.Value{}, NewSyntaxError(
			fmt.Errorf("object without a %s/%s envelope cannot decode into %s", cfg.TypeField, cfg.DataField, c.iface))
	}
	out := make(map[string]any, len(o.Members))
	for _, m := range o.Members {
		ev, err := c.element().Decode(tree.NewReader(m.Value))
		if err != nil {
			return reflect.Value{}, err
		}
		out[m.Name] = ifaceOf(ev)
	}
	return reflect.ValueOf(out), nil
}

// conformTo checks a decoded concrete value against the declared
// interface. The empty interface accepts anything; narrower interfaces
// reject values that do not implement them.
func (c *anyCodec) conformTo(v reflect.Value) (reflect.Value, error) {
	if c.iface.NumMethod() == 0 {
		return v, nil
	}
	if !v.IsValid() {
		return reflect.Zero(c.iface), nil
	}
	if !v.Type().AssignableTo(c.iface) {
		return reflect.Value{}, NewSyntaxError(
			fmt.Errorf("decoded %s does not implement %s", v.Type(), c.iface))
	}
	return v, nil
}

func ifaceOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}
