package polyjson

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameForBuiltins(t *testing.T) {
	r := newNameRegistry()

	cases := map[string]reflect.Type{
		"string":    reflect.TypeOf(""),
		"int":       reflect.TypeOf(0),
		"float64":   reflect.TypeOf(0.0),
		"bool":      reflect.TypeOf(false),
		"any":       anyType,
		"time.Time": reflect.TypeOf(time.Time{}),
		"uuid.UUID": reflect.TypeOf(uuid.UUID{}),
	}
	for want, typ := range cases {
		t.Run(want, func(t *testing.T) {
			name, err := r.nameFor(typ)
			require.NoError(t, err)
			assert.Equal(t, want, name)
		})
	}
}

func TestNameForCompound(t *testing.T) {
	r := newNameRegistry()

	cases := map[string]reflect.Type{
		"[]string":       reflect.TypeOf([]string(nil)),
		"*int":           reflect.TypeOf((*int)(nil)),
		"[3]bool":        reflect.TypeOf([3]bool{}),
		"map[string]any": reflect.TypeOf(map[string]any(nil)),
		"map[int][]uint": reflect.TypeOf(map[int][]uint(nil)),
	}
	for want, typ := range cases {
		t.Run(want, func(t *testing.T) {
			name, err := r.nameFor(typ)
			require.NoError(t, err)
			assert.Equal(t, want, name)
		})
	}
}

func TestNameForDerived(t *testing.T) {
	r := newNameRegistry()

	name, err := r.nameFor(reflect.TypeOf(address{}))
	require.NoError(t, err)
	assert.Equal(t, "polyjson.address", name)

	// Derived names self-register so the round trip resolves.
	back, err := r.typeFor(name)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(address{}), back)
}

func TestTypeForCompound(t *testing.T) {
	r := newNameRegistry()

	cases := map[string]reflect.Type{
		"[]string":           reflect.TypeOf([]string(nil)),
		"*float64":           reflect.TypeOf((*float64)(nil)),
		"[4]int":             reflect.TypeOf([4]int{}),
		"map[string]any":     reflect.TypeOf(map[string]any(nil)),
		"map[string][]int64": reflect.TypeOf(map[string][]int64(nil)),
		" string ":           reflect.TypeOf(""),
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			typ, err := r.typeFor(name)
			require.NoError(t, err)
			assert.Equal(t, want, typ)
		})
	}
}

func TestTypeForUnknown(t *testing.T) {
	r := newNameRegistry()

	for _, name := range []string{"", "ghost.Type", "map[string", "[x]int", "[]ghost.Type"} {
		t.Run(name, func(t *testing.T) {
			_, err := r.typeFor(name)
			require.Error(t, err)
			assert.True(t, IsTypeResolutionError(err), err)
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	r := newNameRegistry()
	require.NoError(t, r.register("thing", reflect.TypeOf(address{})))

	t.Run("idempotent for same pair", func(t *testing.T) {
		assert.NoError(t, r.register("thing", reflect.TypeOf(address{})))
	})
	t.Run("name cannot rebind", func(t *testing.T) {
		err := r.register("thing", reflect.TypeOf(person{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflictingTypeName)
	})
	t.Run("type cannot rebind", func(t *testing.T) {
		err := r.register("otherThing", reflect.TypeOf(address{}))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflictingTypeName)
	})
}

func TestRegisteredNameUsedOnEncode(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.RegisterTypeName("Address", address{}))

	out, err := e.ToJSON(address{Street: "s", City: "c"})
	require.NoError(t, err)
	assert.Contains(t, out, `"type":"Address"`)

	back, err := e.FromJSON(out)
	require.NoError(t, err)
	assert.Equal(t, address{Street: "s", City: "c"}, back)
}
