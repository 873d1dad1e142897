package polyjson

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/MichaelAJay/go-logger"

	"github.com/hengadev/polyjson/internal/tree"
	"github.com/hengadev/polyjson/stream"
)

// ToJSON encodes v into its JSON representation. In envelope mode
// (the default) the document is wrapped as {"type": ..., "data": ...}
// so it can later be decoded without the caller naming the type.
func (e *Engine) ToJSON(v any) (string, error) {
	var sb strings.Builder
	if err := e.ToJSONWriter(v, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ToJSONWriter encodes v onto out.
func (e *Engine) ToJSONWriter(v any, out io.Writer) error {
	return e.Encode(stream.NewWriter(out), v)
}

// ToJSONType encodes v through the codec resolved for the declared
// type t instead of v's run-time type. With an interface t the value
// goes through runtime-type selection, so custom registrations for the
// interface apply.
func (e *Engine) ToJSONType(v any, t reflect.Type, out io.Writer) (err error) {
	if t == nil {
		return ErrNilType
	}
	w := stream.NewWriter(out)
	w.SetLenient(true)
	w.SetHTMLSafe(e.cfg.HTMLSafe)
	w.SetSerializeNulls(e.cfg.SerializeNulls)
	defer func() {
		if p := recover(); p != nil {
			err = NewInternalError(p)
		}
	}()

	if v == nil {
		if err := w.NullValue(); err != nil {
			return NewWriteError(err)
		}
		return nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return NewUnsupportedTypeError(rv.Type())
	}
	codec, err := e.CodecFor(t)
	if err != nil {
		return err
	}

	switch {
	case t.Kind() == reflect.Interface:
		// The runtime-type wrapper picks the codec and, in envelope
		// mode, writes the wrapper itself.
		iv := reflect.New(t).Elem()
		iv.Set(rv)
		err = wrapRuntime(e, t, codec).Encode(w, iv)
	case e.cfg.Envelope:
		err = e.encodeEnveloped(w, rv, codec)
	default:
		err = codec.Encode(w, rv)
	}
	if werr := w.Err(); werr != nil {
		return NewWriteError(werr)
	}
	return err
}

// Encode writes v through w. The writer's lenient, HTML-safe and
// null-serialization flags are saved, forced to the engine's
// configuration for the duration of the call, and restored afterward
// whether or not the encode succeeds.
func (e *Engine) Encode(w *stream.Writer, v any) (err error) {
	oldLenient := w.Lenient()
	oldHTMLSafe := w.HTMLSafe()
	oldSerializeNulls := w.SerializeNulls()
	w.SetLenient(true)
	w.SetHTMLSafe(e.cfg.HTMLSafe)
	w.SetSerializeNulls(e.cfg.SerializeNulls)
	defer func() {
		w.SetLenient(oldLenient)
		w.SetHTMLSafe(oldHTMLSafe)
		w.SetSerializeNulls(oldSerializeNulls)
		if p := recover(); p != nil {
			err = NewInternalError(p)
		}
	}()

	if v == nil {
		if err := w.NullValue(); err != nil {
			return NewWriteError(err)
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	codec, err := e.CodecFor(rv.Type())
	if err != nil {
		return err
	}

	if e.cfg.Envelope {
		err = e.encodeEnveloped(w, rv, codec)
	} else {
		err = codec.Encode(w, rv)
	}
	if werr := w.Err(); werr != nil {
		return NewWriteError(werr)
	}
	return err
}

func (e *Engine) encodeEnveloped(w *stream.Writer, rv reflect.Value, codec Codec) error {
	name, err := e.names.nameFor(rv.Type())
	if err != nil {
		return err
	}
	return writeEnvelope(e, w, name, func() error {
		return codec.Encode(w, rv)
	})
}

// FromJSON decodes a JSON document whose concrete type is discovered
// from its {type,data} envelope. An empty document yields (nil, nil).
func (e *Engine) FromJSON(data string) (any, error) {
	return e.Decode(e.reader([]byte(data)))
}

// FromJSONReader decodes one enveloped document from rd.
func (e *Engine) FromJSONReader(rd io.Reader) (any, error) {
	if e.cfg.Lenient {
		data, err := io.ReadAll(rd)
		if err != nil {
			return nil, NewSyntaxError(err)
		}
		return e.Decode(stream.NewLenientDecoder(data))
	}
	return e.Decode(stream.NewDecoder(rd))
}

// FromJSONValue decodes an already-parsed document: maps, slices and
// scalars of the kind encoding/json produces. Member order is
// irrelevant, which makes this the natural entry point for envelopes
// assembled programmatically.
func (e *Engine) FromJSONValue(doc any) (any, error) {
	v, err := toTree(doc)
	if err != nil {
		return nil, NewSyntaxError(err)
	}
	return e.Decode(tree.NewReader(v))
}

// FromJSONAs decodes a plain (non-enveloped) document into type t.
func (e *Engine) FromJSONAs(data string, t reflect.Type) (any, error) {
	return e.DecodeAs(e.reader([]byte(data)), t)
}

// DecodeAs decodes one plain (non-enveloped) value of type t from r.
func (e *Engine) DecodeAs(r stream.Reader, t reflect.Type) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = NewInternalError(p)
		}
	}()
	k, err := r.Peek()
	if err != nil {
		return nil, NewSyntaxError(err)
	}
	if k == stream.EOF {
		return nil, nil
	}
	codec, err := e.CodecFor(t)
	if err != nil {
		return nil, err
	}
	v, err := codec.Decode(r)
	if err != nil {
		return nil, e.foldDecodeError(err)
	}
	return ifaceOf(v), nil
}

// Decode reads one enveloped document from r: the value is buffered,
// the type member is read first to discover the concrete type, then
// the data member is decoded through the resolved codec from the
// buffered form. Members other than data are tolerated and skipped in
// any order.
func (e *Engine) Decode(r stream.Reader) (result any, err error) {
	oldLenient := r.Lenient()
	r.SetLenient(true)
	defer func() {
		r.SetLenient(oldLenient)
		if p := recover(); p != nil {
			err = NewInternalError(p)
		}
	}()

	k, err := r.Peek()
	if err != nil {
		return nil, NewSyntaxError(err)
	}
	if k == stream.EOF {
		// Empty documents decode to an absent value, not an error.
		return nil, nil
	}

	root, err := tree.Parse(r)
	if err != nil {
		return nil, NewSyntaxError(err)
	}
	obj, ok := root.(tree.Object)
	if !ok {
		return nil, NewSyntaxError(errTopLevelShape)
	}
	tv, ok := obj.Get(e.cfg.TypeField)
	if !ok {
		return nil, NewSyntaxError(errMissingType)
	}
	name, ok := tv.(tree.String)
	if !ok {
		return nil, NewSyntaxError(errMissingType)
	}
	t, err := e.names.typeFor(string(name))
	if err != nil {
		return nil, err
	}
	if e.log != nil {
		e.log.Debug("envelope type resolved",
			logger.Field{Key: "name", Value: string(name)},
			logger.Field{Key: "type", Value: t.String()})
	}
	codec, err := e.CodecFor(t)
	if err != nil {
		return nil, err
	}

	tr := tree.NewReader(root)
	if err := tr.BeginObject(); err != nil {
		return nil, NewSyntaxError(err)
	}
	var decoded reflect.Value
	seenData := false
	for {
		k, err := tr.Peek()
		if err != nil {
			return nil, NewSyntaxError(err)
		}
		if k == stream.EndObject {
			break
		}
		member, err := tr.NextName()
		if err != nil {
			return nil, NewSyntaxError(err)
		}
		if member == e.cfg.DataField && !seenData {
			decoded, err = codec.Decode(tr)
			if err != nil {
				return nil, e.foldDecodeError(err)
			}
			seenData = true
			continue
		}
		if err := tr.SkipValue(); err != nil {
			return nil, NewSyntaxError(err)
		}
	}
	if err := tr.EndObject(); err != nil {
		return nil, NewSyntaxError(err)
	}
	if !seenData {
		return nil, NewSyntaxError(errMissingData)
	}
	return ifaceOf(decoded), nil
}

// foldDecodeError narrows decode-side failures: everything that is not
// already part of the error taxonomy is reported as a syntax error,
// including stream faults. Resolution errors keep their kind so an
// unresolvable nested type name is distinguishable.
func (e *Engine) foldDecodeError(err error) error {
	if IsSyntaxError(err) || IsTypeResolutionError(err) ||
		IsUnsupportedTypeError(err) || IsInternalError(err) {
		return err
	}
	return NewSyntaxError(err)
}

func (e *Engine) reader(data []byte) stream.Reader {
	if e.cfg.Lenient {
		return stream.NewLenientDecoder(data)
	}
	return stream.NewDecoder(bytes.NewReader(data))
}

// toTree converts a generic document into the buffered form.
func toTree(v any) (tree.Value, error) {
	switch x := v.(type) {
	case nil:
		return tree.Null{}, nil
	case bool:
		return tree.Bool(x), nil
	case string:
		return tree.String(x), nil
	case float64:
		return tree.Number(strconv.FormatFloat(x, 'g', -1, 64)), nil
	case int:
		return tree.Number(strconv.Itoa(x)), nil
	case int64:
		return tree.Number(strconv.FormatInt(x, 10)), nil
	case json.Number:
		return tree.Number(x), nil
	case []any:
		a := make(tree.Array, 0, len(x))
		for _, el := range x {
			tv, err := toTree(el)
			if err != nil {
				return nil, err
			}
			a = append(a, tv)
		}
		return a, nil
	case map[string]any:
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)
		var o tree.Object
		for _, name := range names {
			tv, err := toTree(x[name])
			if err != nil {
				return nil, err
			}
			o.Members = append(o.Members, tree.Member{Name: name, Value: tv})
		}
		return o, nil
	}
	return nil, errUnrepresentable(v)
}
