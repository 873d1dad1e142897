package polyjson

import (
	"github.com/MichaelAJay/go-logger"
)

// Option configures an Engine during construction.
type Option func(e *Engine) error

// WithConfig replaces the engine configuration wholesale.
func WithConfig(cfg Config) Option {
	return func(e *Engine) error {
		e.cfg = cfg
		return nil
	}
}

// WithLenient tolerates comments and trailing commas on decode.
func WithLenient(lenient bool) Option {
	return func(e *Engine) error {
		e.cfg.Lenient = lenient
		return nil
	}
}

// WithHTMLSafe controls HTML-safe string escaping on encode.
func WithHTMLSafe(htmlSafe bool) Option {
	return func(e *Engine) error {
		e.cfg.HTMLSafe = htmlSafe
		return nil
	}
}

// WithSerializeNulls keeps null-valued object members in the output.
func WithSerializeNulls(on bool) Option {
	return func(e *Engine) error {
		e.cfg.SerializeNulls = on
		return nil
	}
}

// WithUseNumber decodes untyped numbers as json.Number.
func WithUseNumber(on bool) Option {
	return func(e *Engine) error {
		e.cfg.UseNumber = on
		return nil
	}
}

// WithoutEnvelope disables the {type,data} wrapper. Decoding then
// requires the caller to supply the target type via DecodeAs.
func WithoutEnvelope() Option {
	return func(e *Engine) error {
		e.cfg.Envelope = false
		return nil
	}
}

// WithLogger attaches a logger for codec-resolution diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) error {
		e.log = log
		return nil
	}
}
