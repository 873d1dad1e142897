package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Writer emits JSON tokens to an io.Writer. The three mode flags
// (lenient, htmlSafe, serializeNulls) have get/set semantics so a
// caller can save them, force a mode for the duration of one encode
// call, and restore them afterward.
type Writer struct {
	out   io.Writer
	stack []scope
	// first reports whether the current scope has seen a value yet,
	// one entry per open scope plus the top level.
	first []bool
	// pending holds a member name that has been issued but whose value
	// has not been written yet. With serializeNulls off, a null value
	// discards the pending name instead of writing the pair.
	pending *string

	lenient        bool
	htmlSafe       bool
	serializeNulls bool

	err error
}

// NewWriter returns a Writer emitting compact JSON to out. Nulls are
// serialized by default; HTML-safe escaping is off by default.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out, first: []bool{true}, serializeNulls: true}
}

func (w *Writer) SetLenient(lenient bool)    { w.lenient = lenient }
func (w *Writer) Lenient() bool              { return w.lenient }
func (w *Writer) SetHTMLSafe(htmlSafe bool)  { w.htmlSafe = htmlSafe }
func (w *Writer) HTMLSafe() bool             { return w.htmlSafe }
func (w *Writer) SetSerializeNulls(on bool)  { w.serializeNulls = on }
func (w *Writer) SerializeNulls() bool       { return w.serializeNulls }

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

// Err returns the first write fault encountered, if any.
func (w *Writer) Err() error { return w.err }

// beforeValue emits any pending member name and the separator the
// current scope requires.
func (w *Writer) beforeValue() {
	if w.pending != nil {
		if !w.first[len(w.first)-1] {
			w.write(",")
		}
		w.first[len(w.first)-1] = false
		w.writeQuoted(*w.pending)
		w.write(":")
		w.pending = nil
		return
	}
	if !w.first[len(w.first)-1] {
		w.write(",")
	}
	w.first[len(w.first)-1] = false
}

func (w *Writer) open(s scope, bracket string) error {
	w.beforeValue()
	w.stack = append(w.stack, s)
	w.first = append(w.first, true)
	w.write(bracket)
	return w.err
}

func (w *Writer) close(s scope, bracket string) error {
	if len(w.stack) == 0 || w.stack[len(w.stack)-1] != s {
		return fmt.Errorf("nesting problem: close %s", bracket)
	}
	if w.pending != nil {
		return fmt.Errorf("dangling name %q", *w.pending)
	}
	w.stack = w.stack[:len(w.stack)-1]
	w.first = w.first[:len(w.first)-1]
	w.write(bracket)
	return w.err
}

func (w *Writer) BeginObject() error { return w.open(scopeObject, "{") }
func (w *Writer) EndObject() error   { return w.close(scopeObject, "}") }
func (w *Writer) BeginArray() error  { return w.open(scopeArray, "[") }
func (w *Writer) EndArray() error    { return w.close(scopeArray, "]") }

// Name issues a member name. The name is held until the value arrives
// so that suppressed nulls drop the whole pair.
func (w *Writer) Name(name string) error {
	if len(w.stack) == 0 || w.stack[len(w.stack)-1] != scopeObject {
		return fmt.Errorf("name %q outside object", name)
	}
	if w.pending != nil {
		return fmt.Errorf("dangling name %q", *w.pending)
	}
	w.pending = &name
	return w.err
}

func (w *Writer) StringValue(s string) error {
	w.beforeValue()
	w.writeQuoted(s)
	return w.err
}

func (w *Writer) BoolValue(b bool) error {
	w.beforeValue()
	w.write(strconv.FormatBool(b))
	return w.err
}

func (w *Writer) NumberValue(n json.Number) error {
	w.beforeValue()
	w.write(n.String())
	return w.err
}

func (w *Writer) Int64Value(i int64) error {
	w.beforeValue()
	w.write(strconv.FormatInt(i, 10))
	return w.err
}

func (w *Writer) Uint64Value(u uint64) error {
	w.beforeValue()
	w.write(strconv.FormatUint(u, 10))
	return w.err
}

func (w *Writer) Float64Value(f float64) error {
	if !w.lenient && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return fmt.Errorf("numeric value %v is not valid JSON", f)
	}
	w.beforeValue()
	w.write(strconv.FormatFloat(f, 'g', -1, 64))
	return w.err
}

// NullValue writes a JSON null. When null serialization is off and a
// member name is pending, both the name and the value are dropped.
func (w *Writer) NullValue() error {
	if w.pending != nil && !w.serializeNulls {
		w.pending = nil
		return w.err
	}
	w.beforeValue()
	w.write("null")
	return w.err
}

// htmlEscapes mirrors the replacement set HTML-safe JSON writers use
// so output can be embedded in script contexts.
var htmlEscapes = map[byte]string{
	'<':  `\u003c`,
	'>':  `\u003e`,
	'&':  `\u0026`,
	'=':  `\u003d`,
	'\'': `\u0027`,
}

func (w *Writer) writeQuoted(s string) {
	if w.err != nil {
		return
	}
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c == '\t':
			buf = append(buf, '\\', 't')
		case c == '\b':
			buf = append(buf, '\\', 'b')
		case c == '\f':
			buf = append(buf, '\\', 'f')
		case c < 0x20:
			buf = append(buf, []byte(fmt.Sprintf(`\u%04x`, c))...)
		default:
			if esc, ok := htmlEscapes[c]; ok && w.htmlSafe {
				buf = append(buf, []byte(esc)...)
			} else {
				buf = append(buf, c)
			}
		}
	}
	buf = append(buf, '"')
	_, w.err = w.out.Write(buf)
}
