package polyjson

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/hengadev/polyjson/stream"
)

// conform adapts a decoded value to the target type: nil-interface
// results become the target's zero value, assignable values pass
// through, convertible values are converted.
func conform(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}
	if v.Type() == t || v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), t)
}

type sliceCodec struct {
	t    reflect.Type
	elem Codec
}

func (c *sliceCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return w.NullValue()
	}
	if err := w.BeginArray(); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := c.elem.Encode(w, v.Index(i)); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func (c *sliceCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	if err := r.BeginArray(); err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeSlice(c.t, 0, 8)
	for {
		k, err := r.Peek()
		if err != nil {
			return reflect.Value{}, err
		}
		if k == stream.EndArray {
			break
		}
		ev, err := c.elem.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}
		set, err := conform(ev, c.t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, set)
	}
	return out, r.EndArray()
}

type arrayCodec struct {
	t    reflect.Type
	elem Codec
}

func (c *arrayCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if err := w.BeginArray(); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := c.elem.Encode(w, v.Index(i)); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func (c *arrayCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	if err := r.BeginArray(); err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(c.t).Elem()
	i := 0
	for {
		k, err := r.Peek()
		if err != nil {
			return reflect.Value{}, err
		}
		if k == stream.EndArray {
			break
		}
		ev, err := c.elem.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}
		if i < c.t.Len() {
			set, err := conform(ev, c.t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(set)
		}
		i++
	}
	return out, r.EndArray()
}

// mapCodec handles maps with string or integer keys. Keys are written
// in sorted order so output is deterministic.
type mapCodec struct {
	t    reflect.Type
	elem Codec
}

func (c *mapCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.NullValue()
	}
	if err := w.BeginObject(); err != nil {
		return err
	}
	keys := v.MapKeys()
	names := make([]string, len(keys))
	byName := make(map[string]reflect.Value, len(keys))
	for i, k := range keys {
		n, err := encodeMapKey(k)
		if err != nil {
			return err
		}
		names[i] = n
		byName[n] = k
	}
	sort.Strings(names)
	for _, n := range names {
		if err := w.Name(n); err != nil {
			return err
		}
		if err := c.elem.Encode(w, v.MapIndex(byName[n])); err != nil {
			return err
		}
	}
	return w.EndObject()
}

func (c *mapCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	if err := r.BeginObject(); err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeMap(c.t)
	for {
		k, err := r.Peek()
		if err != nil {
			return reflect.Value{}, err
		}
		if k == stream.EndObject {
			break
		}
		name, err := r.NextName()
		if err != nil {
			return reflect.Value{}, err
		}
		key, err := decodeMapKey(name, c.t.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		ev, err := c.elem.Decode(r)
		if err != nil {
			return reflect.Value{}, err
		}
		set, err := conform(ev, c.t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(key, set)
	}
	return out, r.EndObject()
}

func encodeMapKey(k reflect.Value) (string, error) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", NewUnsupportedTypeError(k.Type())
}

func decodeMapKey(name string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(name).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.SetInt(i)
		return out, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.SetUint(u)
		return out, nil
	}
	return reflect.Value{}, NewUnsupportedTypeError(t)
}
