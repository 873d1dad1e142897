// Package stream is the token-level JSON layer codecs are built on:
// a pull Reader and a push Writer over single JSON tokens. Custom
// Codec and Factory implementations consume these types directly.
package stream

// Kind identifies the kind of the next token in a JSON stream.
type Kind int

const (
	Invalid Kind = iota
	BeginObject
	EndObject
	BeginArray
	EndArray
	Name
	String
	Number
	Bool
	Null
	EOF
)

var kindNames = map[Kind]string{
	Invalid:     "invalid",
	BeginObject: "begin-object",
	EndObject:   "end-object",
	BeginArray:  "begin-array",
	EndArray:    "end-array",
	Name:        "name",
	String:      "string",
	Number:      "number",
	Bool:        "bool",
	Null:        "null",
	EOF:         "end-of-input",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
