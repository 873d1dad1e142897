package polyjson

import (
	"reflect"
)

// builtinFactories returns the engine's default factory chain. User
// factories run before these, so any built-in choice can be overridden
// by registration order.
func builtinFactories() []Factory {
	return []Factory{
		FactoryFunc(scalarFactory),
		FactoryFunc(interfaceFactory),
		FactoryFunc(pointerFactory),
		FactoryFunc(collectionFactory),
		FactoryFunc(mapFactory),
		FactoryFunc(structFactory),
	}
}

func scalarFactory(res *Resolution, t reflect.Type) (Codec, error) {
	switch t {
	case timeType:
		return timeCodec{}, nil
	case uuidType:
		return uuidCodec{}, nil
	case numberType:
		return numberCodec{}, nil
	}
	switch t.Kind() {
	case reflect.String:
		return stringCodec{t: t}, nil
	case reflect.Bool:
		return boolCodec{t: t}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intCodec{t: t}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintCodec{t: t}, nil
	case reflect.Float32, reflect.Float64:
		return floatCodec{t: t}, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesCodec{t: t}, nil
		}
	}
	return nil, nil
}

func interfaceFactory(res *Resolution, t reflect.Type) (Codec, error) {
	if t.Kind() != reflect.Interface {
		return nil, nil
	}
	return &anyCodec{engine: res.engine, iface: t}, nil
}

func pointerFactory(res *Resolution, t reflect.Type) (Codec, error) {
	if t.Kind() != reflect.Pointer {
		return nil, nil
	}
	elem, err := res.CodecFor(t.Elem())
	if err != nil {
		return nil, err
	}
	return &pointerCodec{t: t, elem: elem}, nil
}

func collectionFactory(res *Resolution, t reflect.Type) (Codec, error) {
	if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
		return nil, nil
	}
	elem, err := res.CodecFor(t.Elem())
	if err != nil {
		return nil, err
	}
	wrapped := wrapRuntime(res.engine, t.Elem(), elem)
	if t.Kind() == reflect.Array {
		return &arrayCodec{t: t, elem: wrapped}, nil
	}
	return &sliceCodec{t: t, elem: wrapped}, nil
}

func mapFactory(res *Resolution, t reflect.Type) (Codec, error) {
	if t.Kind() != reflect.Map {
		return nil, nil
	}
	switch t.Key().Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return nil, nil
	}
	elem, err := res.CodecFor(t.Elem())
	if err != nil {
		return nil, err
	}
	return &mapCodec{t: t, elem: wrapRuntime(res.engine, t.Elem(), elem)}, nil
}

func structFactory(res *Resolution, t reflect.Type) (Codec, error) {
	if t.Kind() != reflect.Struct {
		return nil, nil
	}
	c, err := newReflectiveCodec(res, t)
	if err != nil {
		return nil, err
	}
	return c, nil
}
