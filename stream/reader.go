package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

// Reader is the token-level contract the codec layer consumes. Two
// implementations exist: Decoder (over an io.Reader) and the tree
// replay reader in internal/tree.
type Reader interface {
	// Peek reports the kind of the next token without consuming it.
	// A clean end of input is reported as EOF with a nil error.
	Peek() (Kind, error)

	BeginObject() error
	EndObject() error
	BeginArray() error
	EndArray() error

	// NextName consumes and returns the next object member name.
	NextName() (string, error)

	NextString() (string, error)
	NextBool() (bool, error)
	NextNumber() (json.Number, error)
	NextNull() error

	// SkipValue consumes and discards the next complete value.
	SkipValue() error

	SetLenient(bool)
	Lenient() bool
}

type scope int

const (
	scopeArray scope = iota
	scopeObject
)

// Decoder reads JSON tokens from an io.Reader. It is built on
// encoding/json's tokenizer with a one-token lookahead buffer and a
// scope stack so object member names can be told apart from string
// values.
type Decoder struct {
	dec     *json.Decoder
	stack   []scope
	name    bool // next string token in an object scope is a member name
	peeked  bool
	kind    Kind
	tok     json.Token
	lenient bool
}

// NewDecoder returns a Decoder reading strict JSON from r.
func NewDecoder(r io.Reader) *Decoder {
	d := json.NewDecoder(r)
	d.UseNumber()
	return &Decoder{dec: d}
}

// NewLenientDecoder normalizes data before tokenizing: // and /* */
// comments are stripped and trailing commas removed, so configuration
// style documents parse like plain JSON.
func NewLenientDecoder(data []byte) *Decoder {
	d := NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	d.lenient = true
	return d
}

func (d *Decoder) SetLenient(lenient bool) { d.lenient = lenient }
func (d *Decoder) Lenient() bool           { return d.lenient }

func (d *Decoder) fill() error {
	if d.peeked {
		return nil
	}
	tok, err := d.dec.Token()
	if err == io.EOF {
		d.peeked = true
		d.kind = EOF
		d.tok = nil
		return nil
	}
	if err != nil {
		return err
	}
	d.peeked = true
	d.tok = tok
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			d.kind = BeginObject
		case '}':
			d.kind = EndObject
		case '[':
			d.kind = BeginArray
		case ']':
			d.kind = EndArray
		}
	case string:
		if d.inObject() && d.name {
			d.kind = Name
		} else {
			d.kind = String
		}
	case json.Number:
		d.kind = Number
	case bool:
		d.kind = Bool
	case nil:
		d.kind = Null
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

func (d *Decoder) inObject() bool {
	return len(d.stack) > 0 && d.stack[len(d.stack)-1] == scopeObject
}

// valueDone marks the end of a complete value so the next string token
// inside an object is classified as a member name again.
func (d *Decoder) valueDone() {
	if d.inObject() {
		d.name = true
	}
}

func (d *Decoder) Peek() (Kind, error) {
	if err := d.fill(); err != nil {
		return Invalid, err
	}
	return d.kind, nil
}

func (d *Decoder) expect(want Kind) error {
	if err := d.fill(); err != nil {
		return err
	}
	if d.kind != want {
		return fmt.Errorf("expected %s but was %s", want, d.kind)
	}
	d.peeked = false
	return nil
}

func (d *Decoder) BeginObject() error {
	if err := d.expect(BeginObject); err != nil {
		return err
	}
	d.stack = append(d.stack, scopeObject)
	d.name = true
	return nil
}

func (d *Decoder) EndObject() error {
	if err := d.expect(EndObject); err != nil {
		return err
	}
	d.stack = d.stack[:len(d.stack)-1]
	d.valueDone()
	return nil
}

func (d *Decoder) BeginArray() error {
	if err := d.expect(BeginArray); err != nil {
		return err
	}
	d.stack = append(d.stack, scopeArray)
	return nil
}

func (d *Decoder) EndArray() error {
	if err := d.expect(EndArray); err != nil {
		return err
	}
	d.stack = d.stack[:len(d.stack)-1]
	d.valueDone()
	return nil
}

func (d *Decoder) NextName() (string, error) {
	if err := d.expect(Name); err != nil {
		return "", err
	}
	d.name = false
	return d.tok.(string), nil
}

func (d *Decoder) NextString() (string, error) {
	if err := d.fill(); err != nil {
		return "", err
	}
	// Lenient readers coerce scalar tokens to their string form, the
	// way a forgiving JSON reader reads numbers as strings.
	if d.lenient && (d.kind == Number || d.kind == Bool) {
		d.peeked = false
		d.valueDone()
		return fmt.Sprintf("%v", d.tok), nil
	}
	if err := d.expect(String); err != nil {
		return "", err
	}
	d.valueDone()
	return d.tok.(string), nil
}

func (d *Decoder) NextBool() (bool, error) {
	if err := d.expect(Bool); err != nil {
		return false, err
	}
	d.valueDone()
	return d.tok.(bool), nil
}

func (d *Decoder) NextNumber() (json.Number, error) {
	if err := d.fill(); err != nil {
		return "", err
	}
	if d.lenient && d.kind == String {
		d.peeked = false
		d.valueDone()
		return json.Number(d.tok.(string)), nil
	}
	if err := d.expect(Number); err != nil {
		return "", err
	}
	d.valueDone()
	return d.tok.(json.Number), nil
}

func (d *Decoder) NextNull() error {
	if err := d.expect(Null); err != nil {
		return err
	}
	d.valueDone()
	return nil
}

func (d *Decoder) SkipValue() error {
	return skipValue(d)
}

// skipValue discards one complete value through the Reader contract so
// both stream and tree readers share the implementation.
func skipValue(r Reader) error {
	k, err := r.Peek()
	if err != nil {
		return err
	}
	switch k {
	case Null:
		return r.NextNull()
	case String:
		_, err := r.NextString()
		return err
	case Number:
		_, err := r.NextNumber()
		return err
	case Bool:
		_, err := r.NextBool()
		return err
	case BeginArray:
		if err := r.BeginArray(); err != nil {
			return err
		}
		for {
			k, err := r.Peek()
			if err != nil {
				return err
			}
			if k == EndArray {
				return r.EndArray()
			}
			if err := skipValue(r); err != nil {
				return err
			}
		}
	case BeginObject:
		if err := r.BeginObject(); err != nil {
			return err
		}
		for {
			k, err := r.Peek()
			if err != nil {
				return err
			}
			if k == EndObject {
				return r.EndObject()
			}
			if _, err := r.NextName(); err != nil {
				return err
			}
			if err := skipValue(r); err != nil {
				return err
			}
		}
	case EOF:
		return errors.New("unexpected end of input")
	default:
		return fmt.Errorf("cannot skip %s", k)
	}
}
