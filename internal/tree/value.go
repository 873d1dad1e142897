// Package tree holds an in-memory form of a JSON value together with a
// replayable token source over it. Decoding an envelope needs random
// access: the concrete type name must be read before the structural
// decoder consumes the value, and the token stream itself is forward
// only. Buffering the value here turns that into a two-phase decode.
package tree

import (
	"encoding/json"
	"fmt"

	"github.com/hengadev/polyjson/stream"
)

// Value is one buffered JSON value.
type Value interface {
	isValue()
}

type Null struct{}

type Bool bool

type Number json.Number

type String string

type Array []Value

// Object preserves wire order of its members.
type Object struct {
	Members []Member
}

type Member struct {
	Name  string
	Value Value
}

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Get returns the first member with the given name.
func (o Object) Get(name string) (Value, bool) {
	for _, m := range o.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Parse buffers the next complete value from r.
func Parse(r stream.Reader) (Value, error) {
	k, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch k {
	case stream.Null:
		return Null{}, r.NextNull()
	case stream.Bool:
		b, err := r.NextBool()
		return Bool(b), err
	case stream.Number:
		n, err := r.NextNumber()
		return Number(n), err
	case stream.String:
		s, err := r.NextString()
		return String(s), err
	case stream.BeginArray:
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		var a Array
		for {
			k, err := r.Peek()
			if err != nil {
				return nil, err
			}
			if k == stream.EndArray {
				return a, r.EndArray()
			}
			v, err := Parse(r)
			if err != nil {
				return nil, err
			}
			a = append(a, v)
		}
	case stream.BeginObject:
		if err := r.BeginObject(); err != nil {
			return nil, err
		}
		var o Object
		for {
			k, err := r.Peek()
			if err != nil {
				return nil, err
			}
			if k == stream.EndObject {
				return o, r.EndObject()
			}
			name, err := r.NextName()
			if err != nil {
				return nil, err
			}
			v, err := Parse(r)
			if err != nil {
				return nil, err
			}
			o.Members = append(o.Members, Member{Name: name, Value: v})
		}
	case stream.EOF:
		return nil, fmt.Errorf("unexpected end of input")
	default:
		return nil, fmt.Errorf("unexpected %s", k)
	}
}
