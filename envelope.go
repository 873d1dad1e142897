package polyjson

import (
	"github.com/hengadev/polyjson/internal/tree"
	"github.com/hengadev/polyjson/stream"
)

// writeEnvelope emits {type: name, data: <payload>} using the engine's
// configured member names.
func writeEnvelope(e *Engine, w *stream.Writer, name string, payload func() error) error {
	if err := w.BeginObject(); err != nil {
		return err
	}
	if err := w.Name(e.cfg.TypeField); err != nil {
		return err
	}
	if err := w.StringValue(name); err != nil {
		return err
	}
	if err := w.Name(e.cfg.DataField); err != nil {
		return err
	}
	if err := payload(); err != nil {
		return err
	}
	return w.EndObject()
}

// envelopeOf recognizes the two-member {type,data} wrapper in either
// member order. A map that happens to carry exactly these two members
// is read as an envelope; that ambiguity is inherited from the wire
// format itself.
func envelopeOf(o tree.Object, cfg Config) (name string, data tree.Value, ok bool) {
	if len(o.Members) != 2 {
		return "", nil, false
	}
	tv, ok1 := o.Get(cfg.TypeField)
	dv, ok2 := o.Get(cfg.DataField)
	if !ok1 || !ok2 {
		return "", nil, false
	}
	s, isString := tv.(tree.String)
	if !isString {
		return "", nil, false
	}
	return string(s), dv, true
}
