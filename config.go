package polyjson

import (
	"fmt"

	"github.com/hengadev/errsx"
)

// Config holds the stream and envelope settings of an Engine.
//
// This struct contains only data, no behavior. Configuration can be
// loaded from any source (environment variables, files, code) and
// passed to New via WithConfig.
type Config struct {
	// Lenient tolerates non-standard input: // and /* */ comments and
	// trailing commas are accepted when decoding.
	Lenient bool `yaml:"lenient"`

	// HTMLSafe escapes <, >, &, = and ' in encoded strings so output
	// can be embedded in HTML and script contexts.
	HTMLSafe bool `yaml:"html_safe"`

	// SerializeNulls keeps object members whose value is null. When
	// off, the member is omitted entirely.
	SerializeNulls bool `yaml:"serialize_nulls"`

	// UseNumber decodes numbers in untyped positions as json.Number
	// instead of float64.
	UseNumber bool `yaml:"use_number"`

	// Envelope wraps every encoded document and every interface-typed
	// value in a {type,data} object carrying the concrete type name,
	// enabling type self-discovery on decode.
	Envelope bool `yaml:"envelope"`

	// TypeField and DataField name the two envelope members.
	TypeField string `yaml:"type_field"`
	DataField string `yaml:"data_field"`
}

// DefaultConfig returns the default engine settings: strict reading,
// HTML-safe output, nulls omitted, envelope mode on.
func DefaultConfig() Config {
	return Config{
		HTMLSafe:  true,
		Envelope:  true,
		TypeField: DefaultTypeField,
		DataField: DefaultDataField,
	}
}

// Validate checks the configuration for inconsistencies.
func (c Config) Validate() error {
	var errs errsx.Map
	if c.TypeField == "" {
		errs.Set("typeField", fmt.Errorf("envelope type field must not be empty"))
	}
	if c.DataField == "" {
		errs.Set("dataField", fmt.Errorf("envelope data field must not be empty"))
	}
	if c.TypeField != "" && c.TypeField == c.DataField {
		errs.Set("dataField", fmt.Errorf("envelope members must have distinct names, both are %q", c.TypeField))
	}
	return errs.AsError()
}
