package polyjson

// Default envelope member names.
const (
	DefaultTypeField = "type"
	DefaultDataField = "data"
)

// Environment variable names read by LoadConfigFromEnvironment.
const (
	EnvLenient        = "POLYJSON_LENIENT"
	EnvHTMLSafe       = "POLYJSON_HTML_SAFE"
	EnvSerializeNulls = "POLYJSON_SERIALIZE_NULLS"
	EnvUseNumber      = "POLYJSON_USE_NUMBER"
	EnvEnvelope       = "POLYJSON_ENVELOPE"
	EnvTypeField      = "POLYJSON_TYPE_FIELD"
	EnvDataField      = "POLYJSON_DATA_FIELD"
)
