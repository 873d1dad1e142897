package polyjson

import (
	"encoding/json"
	"fmt"
	"path"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// builtinNames maps wire names to types that are always resolvable,
// without registration. Compound names (*T, []T, [N]T, map[K]V) are
// handled structurally on top of these.
var builtinNames = map[string]reflect.Type{
	"any":         anyType,
	"string":      reflect.TypeOf(""),
	"bool":        reflect.TypeOf(false),
	"int":         reflect.TypeOf(int(0)),
	"int8":        reflect.TypeOf(int8(0)),
	"int16":       reflect.TypeOf(int16(0)),
	"int32":       reflect.TypeOf(int32(0)),
	"int64":       reflect.TypeOf(int64(0)),
	"uint":        reflect.TypeOf(uint(0)),
	"uint8":       reflect.TypeOf(uint8(0)),
	"uint16":      reflect.TypeOf(uint16(0)),
	"uint32":      reflect.TypeOf(uint32(0)),
	"uint64":      reflect.TypeOf(uint64(0)),
	"float32":     reflect.TypeOf(float32(0)),
	"float64":     reflect.TypeOf(float64(0)),
	"time.Time":   reflect.TypeOf(time.Time{}),
	"uuid.UUID":   reflect.TypeOf(uuid.UUID{}),
	"json.Number": reflect.TypeOf(json.Number("")),
}

// nameRegistry is the bidirectional mapping between named Go types and
// the wire names the envelope carries. Reads dominate, so lookups go
// through sync.Map; the mutex serializes the write path to keep the
// two directions consistent.
type nameRegistry struct {
	mu     sync.Mutex
	byName sync.Map // string -> reflect.Type
	byType sync.Map // reflect.Type -> string
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{}
}

// register binds name to t. Idempotent for the same pair; rebinding
// either side to a different partner is a conflict.
func (r *nameRegistry) register(name string, t reflect.Type) error {
	if name == "" {
		return ErrEmptyName
	}
	if t == nil {
		return ErrNilType
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byName.Load(name); ok {
		if old.(reflect.Type) == t {
			return nil
		}
		return fmt.Errorf("%w: %q already names %s", ErrConflictingTypeName, name, old.(reflect.Type))
	}
	if old, ok := r.byType.Load(t); ok && old.(string) != name {
		return fmt.Errorf("%w: %s is already named %q", ErrConflictingTypeName, t, old.(string))
	}
	r.byName.Store(name, t)
	r.byType.Store(t, name)
	return nil
}

// nameFor derives the wire name for t, auto-registering named types on
// first use so a value encoded in this process can always be decoded
// back in it.
func (r *nameRegistry) nameFor(t reflect.Type) (string, error) {
	switch t.Kind() {
	case reflect.Pointer:
		elem, err := r.nameFor(t.Elem())
		if err != nil {
			return "", err
		}
		return "*" + elem, nil
	case reflect.Slice:
		elem, err := r.nameFor(t.Elem())
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	case reflect.Array:
		elem, err := r.nameFor(t.Elem())
		if err != nil {
			return "", err
		}
		return "[" + strconv.Itoa(t.Len()) + "]" + elem, nil
	case reflect.Map:
		key, err := r.nameFor(t.Key())
		if err != nil {
			return "", err
		}
		elem, err := r.nameFor(t.Elem())
		if err != nil {
			return "", err
		}
		return "map[" + key + "]" + elem, nil
	case reflect.Interface:
		if t == anyType {
			return "any", nil
		}
	}

	if t.PkgPath() == "" {
		// Unnamed builtin scalar: reflect's own spelling matches the
		// builtin table ("string", "int64", ...).
		if _, ok := builtinNames[t.String()]; ok {
			return t.String(), nil
		}
		return "", NewUnsupportedTypeError(t)
	}
	if name, ok := r.byType.Load(t); ok {
		return name.(string), nil
	}

	derived := path.Base(t.PkgPath()) + "." + t.Name()
	if err := r.register(derived, t); err == nil {
		return derived, nil
	}
	// The short form is taken by a different type from another package;
	// fall back to the fully qualified spelling.
	full := t.PkgPath() + "." + t.Name()
	if err := r.register(full, t); err != nil {
		return "", err
	}
	return full, nil
}

// typeFor resolves a wire name back to a type. Unknown names fail with
// a resolution error, never a silent default.
func (r *nameRegistry) typeFor(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, NewTypeResolutionError(name)
	case strings.HasPrefix(name, "*"):
		elem, err := r.typeFor(name[1:])
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil
	case strings.HasPrefix(name, "[]"):
		elem, err := r.typeFor(name[2:])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case strings.HasPrefix(name, "map["):
		keyName, elemName, ok := splitMapName(name)
		if !ok {
			return nil, NewTypeResolutionError(name)
		}
		key, err := r.typeFor(keyName)
		if err != nil {
			return nil, err
		}
		elem, err := r.typeFor(elemName)
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(key, elem), nil
	case strings.HasPrefix(name, "["):
		closing := strings.IndexByte(name, ']')
		if closing < 0 {
			return nil, NewTypeResolutionError(name)
		}
		n, err := strconv.Atoi(name[1:closing])
		if err != nil || n < 0 {
			return nil, NewTypeResolutionError(name)
		}
		elem, err := r.typeFor(name[closing+1:])
		if err != nil {
			return nil, err
		}
		return reflect.ArrayOf(n, elem), nil
	}
	if t, ok := builtinNames[name]; ok {
		return t, nil
	}
	if t, ok := r.byName.Load(name); ok {
		return t.(reflect.Type), nil
	}
	return nil, NewTypeResolutionError(name)
}

// splitMapName splits "map[K]V" into K and V, tolerating nested
// brackets in the key spelling.
func splitMapName(name string) (key, elem string, ok bool) {
	rest := name[len("map["):]
	depth := 1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return rest[:i], rest[i+1:], true
			}
		}
	}
	return "", "", false
}
