package polyjson

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/MichaelAJay/go-logger"
)

// Engine owns the codec registry, the resolved-codec cache, and the
// type name registry used by the envelope. It is safe for concurrent
// use; a single Engine is meant to be shared across goroutines.
type Engine struct {
	cfg   Config
	log   logger.Logger
	names *nameRegistry

	// mu guards the user factory list. The list is append-only and
	// registration order defines precedence: the first factory that
	// does not decline wins.
	mu       sync.Mutex
	user     []Factory
	builtins []Factory

	// cache maps reflect.Type to the resolved Codec. Concurrent
	// resolves for the same uncached type may compute independently;
	// the first install wins and all callers observe it.
	cache sync.Map
}

// New constructs an Engine. The default configuration omits null
// members, escapes HTML characters, reads strictly, and wraps every
// document in a {type,data} envelope.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:   DefaultConfig(),
		names: newNameRegistry(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine configuration: %w", err)
	}
	e.builtins = builtinFactories()
	return e, nil
}

// RegisterFactory appends f to the factory list. Factories registered
// earlier take precedence over later ones and over the built-ins.
// Registration does not invalidate already-cached codecs.
func (e *Engine) RegisterFactory(f Factory) error {
	if f == nil {
		return ErrNilCodec
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.user = append(e.user, f)
	return nil
}

// RegisterCodec installs c as the codec for exactly type t. The codec
// counts as a custom registration for runtime-type precedence.
func (e *Engine) RegisterCodec(t reflect.Type, c Codec) error {
	if t == nil {
		return ErrNilType
	}
	if c == nil {
		return ErrNilCodec
	}
	return e.RegisterFactory(FactoryFunc(func(res *Resolution, candidate reflect.Type) (Codec, error) {
		if candidate != t {
			return nil, nil
		}
		return c, nil
	}))
}

// RegisterTypeName binds a wire name to the type of prototype for the
// envelope's type field. Registration is idempotent for the same pair
// and rejects rebinding a name to a different type.
func (e *Engine) RegisterTypeName(name string, prototype any) error {
	if prototype == nil {
		return ErrNilType
	}
	return e.names.register(name, reflect.TypeOf(prototype))
}

func (e *Engine) factories() []Factory {
	e.mu.Lock()
	defer e.mu.Unlock()
	all := make([]Factory, 0, len(e.user)+len(e.builtins))
	all = append(all, e.user...)
	all = append(all, e.builtins...)
	return all
}

// CodecFor resolves the codec for t, walking the factory list in
// registration order and memoizing the first match.
func (e *Engine) CodecFor(t reflect.Type) (Codec, error) {
	res := &Resolution{engine: e, active: make(map[reflect.Type]*futureCodec)}
	return res.CodecFor(t)
}

// Resolution is one codec-resolution call in progress. It carries the
// placeholders for types whose resolution is currently on the stack so
// recursive lookups terminate.
type Resolution struct {
	engine *Engine
	active map[reflect.Type]*futureCodec
}

// CodecFor resolves the codec for t within this resolution.
func (res *Resolution) CodecFor(t reflect.Type) (Codec, error) {
	if t == nil {
		return nil, ErrNilType
	}
	e := res.engine
	if c, ok := e.cache.Load(t); ok {
		return c.(Codec), nil
	}
	if f, ok := res.active[t]; ok {
		return f, nil
	}

	future := &futureCodec{}
	res.active[t] = future
	defer delete(res.active, t)

	for _, f := range e.factories() {
		c, err := f.Create(res, t)
		if err != nil {
			return nil, fmt.Errorf("create codec for %s: %w", t, err)
		}
		if c == nil {
			continue
		}
		// The placeholder must be complete before the codec becomes
		// visible to other goroutines through the cache. A concurrent
		// resolve may install its own codec first; both are
		// behaviorally equivalent, and every caller observes a fully
		// constructed one.
		future.delegate = c
		installed, _ := e.cache.LoadOrStore(t, c)
		if e.log != nil {
			e.log.Debug("codec resolved",
				logger.Field{Key: "type", Value: t.String()})
		}
		return installed.(Codec), nil
	}
	return nil, NewUnsupportedTypeError(t)
}

// Engine returns the engine this resolution operates on.
func (res *Resolution) Engine() *Engine { return res.engine }
