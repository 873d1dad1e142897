package polyjson

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hengadev/polyjson/stream"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	uuidType   = reflect.TypeOf(uuid.UUID{})
	numberType = reflect.TypeOf(json.Number(""))
)

// consumeNull reports whether the next value is a JSON null and eats it
// if so. Primitive codecs map null to the type's zero value.
func consumeNull(r stream.Reader) (bool, error) {
	k, err := r.Peek()
	if err != nil {
		return false, err
	}
	if k != stream.Null {
		return false, nil
	}
	return true, r.NextNull()
}

type stringCodec struct{ t reflect.Type }

func (c stringCodec) Encode(w *stream.Writer, v reflect.Value) error {
	return w.StringValue(v.String())
}

func (c stringCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	s, err := r.NextString()
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(s).Convert(c.t), nil
}

type boolCodec struct{ t reflect.Type }

func (c boolCodec) Encode(w *stream.Writer, v reflect.Value) error {
	return w.BoolValue(v.Bool())
}

func (c boolCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	b, err := r.NextBool()
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(b).Convert(c.t), nil
}

type intCodec struct{ t reflect.Type }

func (c intCodec) Encode(w *stream.Writer, v reflect.Value) error {
	return w.Int64Value(v.Int())
}

func (c intCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	n, err := r.NextNumber()
	if err != nil {
		return reflect.Value{}, err
	}
	i, err := n.Int64()
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(c.t).Elem()
	if out.OverflowInt(i) {
		return reflect.Value{}, NewSyntaxError(fmt.Errorf("number %d overflows %s", i, c.t))
	}
	out.SetInt(i)
	return out, nil
}

type uintCodec struct{ t reflect.Type }

func (c uintCodec) Encode(w *stream.Writer, v reflect.Value) error {
	return w.Uint64Value(v.Uint())
}

func (c uintCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	n, err := r.NextNumber()
	if err != nil {
		return reflect.Value{}, err
	}
	u, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(c.t).Elem()
	if out.OverflowUint(u) {
		return reflect.Value{}, NewSyntaxError(fmt.Errorf("number %d overflows %s", u, c.t))
	}
	out.SetUint(u)
	return out, nil
}

type floatCodec struct{ t reflect.Type }

func (c floatCodec) Encode(w *stream.Writer, v reflect.Value) error {
	return w.Float64Value(v.Float())
}

func (c floatCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	n, err := r.NextNumber()
	if err != nil {
		return reflect.Value{}, err
	}
	f, err := n.Float64()
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(c.t).Elem()
	out.SetFloat(f)
	return out, nil
}

type numberCodec struct{}

func (numberCodec) Encode(w *stream.Writer, v reflect.Value) error {
	return w.NumberValue(json.Number(v.String()))
}

func (numberCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(numberType), err
	}
	n, err := r.NextNumber()
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(n), nil
}

// bytesCodec writes byte slices as base64 strings, the wire form the
// rest of the ecosystem expects for binary payloads.
type bytesCodec struct{ t reflect.Type }

func (c bytesCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.NullValue()
	}
	return w.StringValue(base64.StdEncoding.EncodeToString(v.Bytes()))
}

func (c bytesCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	s, err := r.NextString()
	if err != nil {
		return reflect.Value{}, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(c.t).Elem()
	out.SetBytes(b)
	return out, nil
}

type timeCodec struct{}

func (timeCodec) Encode(w *stream.Writer, v reflect.Value) error {
	return w.StringValue(v.Interface().(time.Time).Format(time.RFC3339Nano))
}

func (timeCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(timeType), err
	}
	s, err := r.NextString()
	if err != nil {
		return reflect.Value{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(ts), nil
}

type uuidCodec struct{}

func (uuidCodec) Encode(w *stream.Writer, v reflect.Value) error {
	return w.StringValue(v.Interface().(uuid.UUID).String())
}

func (uuidCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(uuidType), err
	}
	s, err := r.NextString()
	if err != nil {
		return reflect.Value{}, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(id), nil
}

// pointerCodec maps JSON null to a nil pointer and otherwise delegates
// to the element codec.
type pointerCodec struct {
	t    reflect.Type
	elem Codec
}

func (c *pointerCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.NullValue()
	}
	return c.elem.Encode(w, v.Elem())
}

func (c *pointerCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	ev, err := c.elem.Decode(r)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(c.t.Elem())
	set, err := conform(ev, c.t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	out.Elem().Set(set)
	return out, nil
}
