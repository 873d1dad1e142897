package polyjson

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	Label string `json:"label"`
	Next  *node  `json:"next"`
}

type markerCodecA struct{ stringCodec }

type markerCodecB struct{ stringCodec }

func TestCodecForCachesResolution(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.CodecFor(reflect.TypeOf(person{}))
	require.NoError(t, err)
	second, err := e.CodecFor(reflect.TypeOf(person{}))
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestFactoryPrecedence(t *testing.T) {
	e := newTestEngine(t)
	target := reflect.TypeOf("")

	a := markerCodecA{stringCodec{t: target}}
	b := markerCodecB{stringCodec{t: target}}
	require.NoError(t, e.RegisterFactory(FactoryFunc(func(res *Resolution, tt reflect.Type) (Codec, error) {
		if tt != target {
			return nil, nil
		}
		return a, nil
	})))
	require.NoError(t, e.RegisterFactory(FactoryFunc(func(res *Resolution, tt reflect.Type) (Codec, error) {
		if tt != target {
			return nil, nil
		}
		return b, nil
	})))

	c, err := e.CodecFor(target)
	require.NoError(t, err)
	assert.IsType(t, markerCodecA{}, c)
}

func TestRegisterCodecExactMatch(t *testing.T) {
	e := newTestEngine(t)
	target := reflect.TypeOf("")
	custom := markerCodecA{stringCodec{t: target}}
	require.NoError(t, e.RegisterCodec(target, custom))

	t.Run("match", func(t *testing.T) {
		c, err := e.CodecFor(target)
		require.NoError(t, err)
		assert.IsType(t, markerCodecA{}, c)
	})
	t.Run("other types fall through", func(t *testing.T) {
		c, err := e.CodecFor(reflect.TypeOf(0))
		require.NoError(t, err)
		assert.IsType(t, intCodec{}, c)
	})
}

func TestRegistrationRejectsNil(t *testing.T) {
	e := newTestEngine(t)

	assert.ErrorIs(t, e.RegisterFactory(nil), ErrNilCodec)
	assert.ErrorIs(t, e.RegisterCodec(nil, markerCodecA{}), ErrNilType)
	assert.ErrorIs(t, e.RegisterCodec(reflect.TypeOf(""), nil), ErrNilCodec)
	assert.ErrorIs(t, e.RegisterTypeName("x", nil), ErrNilType)
	assert.ErrorIs(t, e.RegisterTypeName("", address{}), ErrEmptyName)
}

func TestUnsupportedType(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ToJSON(make(chan int))
	require.Error(t, err)
	assert.True(t, IsUnsupportedTypeError(err), err)
}

func TestRecursiveType(t *testing.T) {
	e := newTestEngine(t)

	in := node{Label: "a", Next: &node{Label: "b", Next: &node{Label: "c"}}}
	out, err := e.ToJSON(in)
	require.NoError(t, err)

	back, err := e.FromJSON(out)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestMutuallyRecursiveTypes(t *testing.T) {
	type leaf struct {
		Parent *node  `json:"parent"`
		Name   string `json:"name"`
	}
	e := newTestEngine(t)

	in := leaf{Name: "l", Parent: &node{Label: "root"}}
	assert.Equal(t, in, roundTrip(t, e, in))
}

func TestConcurrentResolution(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	codecs := make([]Codec, 16)
	for i := range codecs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := e.CodecFor(reflect.TypeOf(person{}))
			assert.NoError(t, err)
			codecs[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range codecs[1:] {
		assert.Same(t, codecs[0], c)
	}
}

func TestConcurrentRoundTrips(t *testing.T) {
	e := newTestEngine(t)
	in := person{Name: "Ada", Age: 36, Tags: []string{"x"}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				out, err := e.ToJSON(in)
				if !assert.NoError(t, err) {
					return
				}
				back, err := e.FromJSON(out)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, in, back)
			}
		}()
	}
	wg.Wait()
}

func TestLateRegistrationDoesNotChangeCachedCodec(t *testing.T) {
	e := newTestEngine(t)
	target := reflect.TypeOf(person{})

	before, err := e.CodecFor(target)
	require.NoError(t, err)
	require.NoError(t, e.RegisterCodec(target, markerCodecA{}))

	after, err := e.CodecFor(target)
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestConcurrentRecursiveResolution(t *testing.T) {
	in := node{Label: "a", Next: &node{Label: "b"}}

	// Fresh engine per round so every round races the first resolution.
	for i := 0; i < 50; i++ {
		e := newTestEngine(t)
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, err := e.ToJSON(in)
				if !assert.NoError(t, err) {
					return
				}
				back, err := e.FromJSON(out)
				if assert.NoError(t, err) {
					assert.Equal(t, in, back)
				}
			}()
		}
		wg.Wait()
	}
}
