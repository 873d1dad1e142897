package tree

import (
	"encoding/json"
	"fmt"

	"github.com/hengadev/polyjson/stream"
)

// reader replays a buffered Value through the stream.Reader contract.
type reader struct {
	stack   []frame
	lenient bool
}

// frame tracks the replay position inside one composite value. For
// objects, idx counts half-steps: even offsets are member names, odd
// offsets member values.
type frame struct {
	value Value
	idx   int
}

// NewReader returns a token source positioned at the start of v.
func NewReader(v Value) stream.Reader {
	return &reader{stack: []frame{{value: v}}}
}

func (r *reader) SetLenient(lenient bool) { r.lenient = lenient }
func (r *reader) Lenient() bool           { return r.lenient }

// peekValue reports the pending token's value and replay position
// without consuming it. Composite frames yield synthetic end markers.
func (r *reader) peekValue() (Value, position) {
	if len(r.stack) == 0 {
		return nil, kindEOF
	}
	f := &r.stack[len(r.stack)-1]
	switch v := f.value.(type) {
	case Array:
		if f.idx >= len(v) {
			return nil, kindEndArray
		}
		return v[f.idx], kindValue
	case Object:
		if f.idx >= 2*len(v.Members) {
			return nil, kindEndObject
		}
		m := v.Members[f.idx/2]
		if f.idx%2 == 0 {
			return String(m.Name), kindName
		}
		return m.Value, kindValue
	default:
		if f.idx > 0 {
			return nil, kindEOF
		}
		return f.value, kindValue
	}
}

// position distinguishes replay positions before token classification.
type position int

const (
	kindValue position = iota
	kindName
	kindEndArray
	kindEndObject
	kindEOF
)

func (r *reader) Peek() (stream.Kind, error) {
	v, pos := r.peekValue()
	switch pos {
	case kindEOF:
		return stream.EOF, nil
	case kindEndArray:
		return stream.EndArray, nil
	case kindEndObject:
		return stream.EndObject, nil
	case kindName:
		return stream.Name, nil
	}
	switch v.(type) {
	case Null:
		return stream.Null, nil
	case Bool:
		return stream.Bool, nil
	case Number:
		return stream.Number, nil
	case String:
		return stream.String, nil
	case Array:
		return stream.BeginArray, nil
	case Object:
		return stream.BeginObject, nil
	}
	return stream.Invalid, fmt.Errorf("unknown buffered value %T", v)
}

// advance moves past the token just consumed.
func (r *reader) advance() {
	f := &r.stack[len(r.stack)-1]
	f.idx++
}

// takeValue consumes the next scalar value token.
func (r *reader) takeValue() (Value, error) {
	v, pos := r.peekValue()
	if pos != kindValue {
		return nil, fmt.Errorf("expected value but was %v", pos)
	}
	r.advance()
	return v, nil
}

func (r *reader) BeginObject() error {
	v, pos := r.peekValue()
	o, ok := v.(Object)
	if pos != kindValue || !ok {
		return fmt.Errorf("expected begin-object")
	}
	r.advance()
	r.stack = append(r.stack, frame{value: o})
	return nil
}

func (r *reader) EndObject() error {
	_, pos := r.peekValue()
	if pos != kindEndObject {
		return fmt.Errorf("expected end-object")
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

func (r *reader) BeginArray() error {
	v, pos := r.peekValue()
	a, ok := v.(Array)
	if pos != kindValue || !ok {
		return fmt.Errorf("expected begin-array")
	}
	r.advance()
	r.stack = append(r.stack, frame{value: a})
	return nil
}

func (r *reader) EndArray() error {
	_, pos := r.peekValue()
	if pos != kindEndArray {
		return fmt.Errorf("expected end-array")
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

func (r *reader) NextName() (string, error) {
	v, pos := r.peekValue()
	if pos != kindName {
		return "", fmt.Errorf("expected name")
	}
	r.advance()
	return string(v.(String)), nil
}

func (r *reader) NextString() (string, error) {
	v, err := r.takeValue()
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case String:
		return string(s), nil
	case Number:
		if r.lenient {
			return string(s), nil
		}
	case Bool:
		if r.lenient {
			return fmt.Sprintf("%v", bool(s)), nil
		}
	}
	return "", fmt.Errorf("expected string but was %T", v)
}

func (r *reader) NextBool() (bool, error) {
	v, err := r.takeValue()
	if err != nil {
		return false, err
	}
	b, ok := v.(Bool)
	if !ok {
		return false, fmt.Errorf("expected bool but was %T", v)
	}
	return bool(b), nil
}

func (r *reader) NextNumber() (json.Number, error) {
	v, err := r.takeValue()
	if err != nil {
		return "", err
	}
	switch n := v.(type) {
	case Number:
		return json.Number(n), nil
	case String:
		if r.lenient {
			return json.Number(n), nil
		}
	}
	return "", fmt.Errorf("expected number but was %T", v)
}

func (r *reader) NextNull() error {
	v, err := r.takeValue()
	if err != nil {
		return err
	}
	if _, ok := v.(Null); !ok {
		return fmt.Errorf("expected null but was %T", v)
	}
	return nil
}

func (r *reader) SkipValue() error {
	_, pos := r.peekValue()
	switch pos {
	case kindName:
		r.advance()
		return r.SkipValue()
	case kindValue:
		r.advance()
		return nil
	default:
		return fmt.Errorf("cannot skip at %v", pos)
	}
}
