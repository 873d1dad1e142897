package stream

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDecoder(s string) *Decoder {
	return NewDecoder(strings.NewReader(s))
}

func TestDecoderTokenSequence(t *testing.T) {
	d := newDecoder(`{"name":"Ada","age":36,"tags":["x","y"],"active":true,"note":null}`)

	require.NoError(t, d.BeginObject())

	name, err := d.NextName()
	require.NoError(t, err)
	assert.Equal(t, "name", name)
	s, err := d.NextString()
	require.NoError(t, err)
	assert.Equal(t, "Ada", s)

	name, err = d.NextName()
	require.NoError(t, err)
	assert.Equal(t, "age", name)
	n, err := d.NextNumber()
	require.NoError(t, err)
	assert.Equal(t, json.Number("36"), n)

	name, err = d.NextName()
	require.NoError(t, err)
	assert.Equal(t, "tags", name)
	require.NoError(t, d.BeginArray())
	for _, want := range []string{"x", "y"} {
		s, err := d.NextString()
		require.NoError(t, err)
		assert.Equal(t, want, s)
	}
	require.NoError(t, d.EndArray())

	name, err = d.NextName()
	require.NoError(t, err)
	assert.Equal(t, "active", name)
	b, err := d.NextBool()
	require.NoError(t, err)
	assert.True(t, b)

	name, err = d.NextName()
	require.NoError(t, err)
	assert.Equal(t, "note", name)
	require.NoError(t, d.NextNull())

	require.NoError(t, d.EndObject())

	k, err := d.Peek()
	require.NoError(t, err)
	assert.Equal(t, EOF, k)
}

func TestDecoderPeekClassification(t *testing.T) {
	tests := []struct {
		doc  string
		want Kind
	}{
		{`"s"`, String},
		{`12.5`, Number},
		{`true`, Bool},
		{`null`, Null},
		{`[]`, BeginArray},
		{`{}`, BeginObject},
		{``, EOF},
		{`   `, EOF},
	}
	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			k, err := newDecoder(tt.doc).Peek()
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestDecoderNamesVersusStrings(t *testing.T) {
	d := newDecoder(`{"outer":{"inner":["a"]},"next":1}`)

	require.NoError(t, d.BeginObject())
	k, err := d.Peek()
	require.NoError(t, err)
	assert.Equal(t, Name, k)

	_, err = d.NextName()
	require.NoError(t, err)
	require.NoError(t, d.BeginObject())
	_, err = d.NextName()
	require.NoError(t, err)
	require.NoError(t, d.BeginArray())

	// Inside an array a string token is a value, not a name.
	k, err = d.Peek()
	require.NoError(t, err)
	assert.Equal(t, String, k)
	_, err = d.NextString()
	require.NoError(t, err)
	require.NoError(t, d.EndArray())
	require.NoError(t, d.EndObject())

	// Back in the outer object the next string token is a name again.
	k, err = d.Peek()
	require.NoError(t, err)
	assert.Equal(t, Name, k)
}

func TestDecoderTypeMismatch(t *testing.T) {
	d := newDecoder(`"text"`)
	_, err := d.NextNumber()
	assert.Error(t, err)

	d = newDecoder(`42`)
	_, err = d.NextString()
	assert.Error(t, err)

	d = newDecoder(`[1]`)
	assert.Error(t, d.BeginObject())
}

func TestDecoderMalformedInput(t *testing.T) {
	d := newDecoder(`{"a":`)
	require.NoError(t, d.BeginObject())
	_, err := d.NextName()
	require.NoError(t, err)
	_, err = d.Peek()
	assert.Error(t, err)
}

func TestDecoderSkipValue(t *testing.T) {
	d := newDecoder(`{"skip":{"deep":[1,{"x":null}]},"keep":"v"}`)

	require.NoError(t, d.BeginObject())
	_, err := d.NextName()
	require.NoError(t, err)
	require.NoError(t, d.SkipValue())

	name, err := d.NextName()
	require.NoError(t, err)
	assert.Equal(t, "keep", name)
	s, err := d.NextString()
	require.NoError(t, err)
	assert.Equal(t, "v", s)
	require.NoError(t, d.EndObject())
}

func TestLenientDecoder(t *testing.T) {
	t.Run("comments and trailing commas", func(t *testing.T) {
		d := NewLenientDecoder([]byte(`{
			// a comment
			"a": 1, /* block */
			"b": [2, 3,],
		}`))
		require.NoError(t, d.BeginObject())
		name, err := d.NextName()
		require.NoError(t, err)
		assert.Equal(t, "a", name)
		n, err := d.NextNumber()
		require.NoError(t, err)
		assert.Equal(t, json.Number("1"), n)
	})
	t.Run("number as string", func(t *testing.T) {
		d := NewLenientDecoder([]byte(`12`))
		s, err := d.NextString()
		require.NoError(t, err)
		assert.Equal(t, "12", s)
	})
	t.Run("string as number", func(t *testing.T) {
		d := NewLenientDecoder([]byte(`"12"`))
		n, err := d.NextNumber()
		require.NoError(t, err)
		assert.Equal(t, json.Number("12"), n)
	})
	t.Run("strict rejects coercion", func(t *testing.T) {
		d := newDecoder(`12`)
		_, err := d.NextString()
		assert.Error(t, err)
	})
}
