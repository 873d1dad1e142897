package stream

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterObject(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)

	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("name"))
	require.NoError(t, w.StringValue("Ada"))
	require.NoError(t, w.Name("age"))
	require.NoError(t, w.Int64Value(36))
	require.NoError(t, w.Name("pi"))
	require.NoError(t, w.Float64Value(3.5))
	require.NoError(t, w.Name("big"))
	require.NoError(t, w.Uint64Value(18446744073709551615))
	require.NoError(t, w.Name("raw"))
	require.NoError(t, w.NumberValue(json.Number("1e2")))
	require.NoError(t, w.Name("ok"))
	require.NoError(t, w.BoolValue(true))
	require.NoError(t, w.EndObject())

	assert.Equal(t,
		`{"name":"Ada","age":36,"pi":3.5,"big":18446744073709551615,"raw":1e2,"ok":true}`,
		sb.String())
}

func TestWriterNestedArrays(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)

	require.NoError(t, w.BeginArray())
	require.NoError(t, w.Int64Value(1))
	require.NoError(t, w.BeginArray())
	require.NoError(t, w.StringValue("x"))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.NullValue())
	require.NoError(t, w.EndArray())

	assert.Equal(t, `[1,["x"],null]`, sb.String())
}

func TestWriterNullHandling(t *testing.T) {
	t.Run("serialized by default", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		require.NoError(t, w.BeginObject())
		require.NoError(t, w.Name("a"))
		require.NoError(t, w.NullValue())
		require.NoError(t, w.EndObject())
		assert.Equal(t, `{"a":null}`, sb.String())
	})
	t.Run("pair dropped when disabled", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		w.SetSerializeNulls(false)
		require.NoError(t, w.BeginObject())
		require.NoError(t, w.Name("a"))
		require.NoError(t, w.NullValue())
		require.NoError(t, w.Name("b"))
		require.NoError(t, w.Int64Value(1))
		require.NoError(t, w.EndObject())
		assert.Equal(t, `{"b":1}`, sb.String())
	})
	t.Run("array nulls always written", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		w.SetSerializeNulls(false)
		require.NoError(t, w.BeginArray())
		require.NoError(t, w.NullValue())
		require.NoError(t, w.EndArray())
		assert.Equal(t, `[null]`, sb.String())
	})
}

func TestWriterEscaping(t *testing.T) {
	t.Run("control characters", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		require.NoError(t, w.StringValue("a\"b\\c\nd\te"))
		assert.Equal(t, `"a\"b\\c\nd\te"`, sb.String())
	})
	t.Run("html safe", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		w.SetHTMLSafe(true)
		require.NoError(t, w.StringValue(`<a href='x'>&=</a>`))
		out := sb.String()
		assert.NotContains(t, out, "<")
		assert.NotContains(t, out, "&")
		assert.Contains(t, out, `\u003c`)
		assert.Contains(t, out, `\u0026`)
		assert.Contains(t, out, `\u003d`)
		assert.Contains(t, out, `\u0027`)
	})
	t.Run("html characters kept when off", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		require.NoError(t, w.StringValue("<&>"))
		assert.Equal(t, `"<&>"`, sb.String())
	})
}

func TestWriterNonFiniteNumbers(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	assert.Error(t, w.Float64Value(math.NaN()))
	assert.Error(t, w.Float64Value(math.Inf(1)))

	w.SetLenient(true)
	assert.NoError(t, w.Float64Value(math.NaN()))
}

func TestWriterNestingErrors(t *testing.T) {
	t.Run("mismatched close", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		require.NoError(t, w.BeginObject())
		assert.Error(t, w.EndArray())
	})
	t.Run("name outside object", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		assert.Error(t, w.Name("x"))
	})
	t.Run("dangling name", func(t *testing.T) {
		var sb strings.Builder
		w := NewWriter(&sb)
		require.NoError(t, w.BeginObject())
		require.NoError(t, w.Name("x"))
		assert.Error(t, w.EndObject())
	})
}
