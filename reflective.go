package polyjson

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hengadev/errsx"

	"github.com/hengadev/polyjson/stream"
)

// structField is one participating field of a reflective codec.
type structField struct {
	name      string
	index     int
	typ       reflect.Type
	codec     Codec
	omitEmpty bool
}

// reflectiveCodec is the fallback structural codec for struct types:
// exported fields participate under their json-tag name, interface
// typed fields go through the runtime-type wrapper.
type reflectiveCodec struct {
	t      reflect.Type
	fields []structField
	byName map[string]int
}

func newReflectiveCodec(res *Resolution, t reflect.Type) (*reflectiveCodec, error) {
	c := &reflectiveCodec{t: t, byName: make(map[string]int)}
	var errs errsx.Map
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		name, omitEmpty, skip := parseJSONTag(f)
		if skip {
			continue
		}
		fc, err := res.CodecFor(f.Type)
		if err != nil {
			errs.Set(f.Name, err)
			continue
		}
		c.byName[name] = len(c.fields)
		c.fields = append(c.fields, structField{
			name:      name,
			index:     i,
			typ:       f.Type,
			codec:     wrapRuntime(res.engine, f.Type, fc),
			omitEmpty: omitEmpty,
		})
	}
	if !errs.IsEmpty() {
		return nil, fmt.Errorf("struct %s: %w", t, errs.AsError())
	}
	return c, nil
}

func parseJSONTag(f reflect.StructField) (name string, omitEmpty, skip bool) {
	name = f.Name
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (c *reflectiveCodec) Encode(w *stream.Writer, v reflect.Value) error {
	if err := w.BeginObject(); err != nil {
		return err
	}
	for _, f := range c.fields {
		fv := v.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := w.Name(f.name); err != nil {
			return err
		}
		if err := f.codec.Encode(w, fv); err != nil {
			return err
		}
	}
	return w.EndObject()
}

func (c *reflectiveCodec) Decode(r stream.Reader) (reflect.Value, error) {
	if null, err := consumeNull(r); null || err != nil {
		return reflect.Zero(c.t), err
	}
	if err := r.BeginObject(); err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(c.t).Elem()
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
		idx, ok := c.byName[name]
		if !ok {
			// Unknown members are tolerated, not rejected.
			if err := r.SkipValue(); err != nil {
				return reflect.Value{}, err
			}
			continue
		}
		f := c.fields[idx]
		ev, err := f.codec.Decode(r)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", f.name, err)
		}
		set, err := conform(ev, f.typ)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", f.name, err)
		}
		out.Field(f.index).Set(set)
	}
	return out, r.EndObject()
}
