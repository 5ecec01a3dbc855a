package form

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrUnknownField is returned when a path does not resolve to a value.
	ErrUnknownField = errors.New("unknown field")
	// ErrTypeMismatch is returned when a value cannot be stored in a field.
	ErrTypeMismatch = errors.New("type mismatch")
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// producer builds the value to store once the target field type is known.
type producer func(t reflect.Type) (reflect.Value, error)

func lookup(v reflect.Value, p Path) (reflect.Value, error) {
	for i, seg := range p {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, p[:i+1])
			}
			v = v.Elem()
		}
		next, err := child(v, seg)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %s", err, p[:i+1])
		}
		if !next.IsValid() {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, p[:i+1])
		}
		v = next
	}
	return v, nil
}

func child(v reflect.Value, seg Segment) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Struct:
		if seg.isIndex {
			return reflect.Value{}, ErrUnknownField
		}
		f, ok := structField(v, seg.Key)
		if !ok {
			return reflect.Value{}, ErrUnknownField
		}
		return f, nil
	case reflect.Slice, reflect.Array:
		if !seg.isIndex {
			return reflect.Value{}, ErrUnknownField
		}
		if seg.Index < 0 || seg.Index >= v.Len() {
			return reflect.Value{}, ErrUnknownField
		}
		return v.Index(seg.Index), nil
	case reflect.Map:
		k, err := mapKey(v.Type(), seg)
		if err != nil {
			return reflect.Value{}, err
		}
		return v.MapIndex(k), nil
	}
	return reflect.Value{}, ErrUnknownField
}

func assign(v reflect.Value, p Path, produce producer) error {
	if len(p) == 0 {
		nv, err := produce(v.Type())
		if err != nil {
			return err
		}
		v.Set(nv)
		return nil
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}

	seg := p[0]
	switch v.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array:
		next, err := child(v, seg)
		if err != nil {
			return err
		}
		return assign(next, p[1:], produce)

	case reflect.Map:
		k, err := mapKey(v.Type(), seg)
		if err != nil {
			return err
		}
		elem := reflect.New(v.Type().Elem()).Elem()
		if cur := v.MapIndex(k); cur.IsValid() {
			elem.Set(cur)
		} else if len(p) > 1 {
			return ErrUnknownField
		}
		if err := assign(elem, p[1:], produce); err != nil {
			return err
		}
		if v.IsNil() {
			v.Set(reflect.MakeMap(v.Type()))
		}
		v.SetMapIndex(k, elem)
		return nil

	case reflect.Interface:
		if v.IsNil() {
			return ErrUnknownField
		}
		inner := reflect.New(v.Elem().Type()).Elem()
		inner.Set(v.Elem())
		if err := assign(inner, p, produce); err != nil {
			return err
		}
		v.Set(inner)
		return nil
	}
	return ErrUnknownField
}

func mapKey(t reflect.Type, seg Segment) (reflect.Value, error) {
	if t.Key().Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("%w: map key %s", ErrTypeMismatch, t.Key())
	}
	return reflect.ValueOf(seg.key()).Convert(t.Key()), nil
}

// structField resolves a field by its `form` tag, then its `json` tag, then
// its Go name. Unexported fields are never addressable.
func structField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.IsExported() && fieldName(sf) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func fieldName(sf reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		if name, _, _ := strings.Cut(sf.Tag.Get(tag), ","); name != "" && name != "-" {
			return name
		}
	}
	return sf.Name
}

// topLevelKeys lists the names of the top-level fields of a value shape.
func topLevelKeys(v reflect.Value) []string {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	var keys []string
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if sf := t.Field(i); sf.IsExported() {
				keys = append(keys, fieldName(sf))
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
	}
	return keys
}

// fromValue stores x as-is when assignable, converts between numeric kinds,
// and parses strings into non-string fields.
func fromValue(x any) producer {
	return func(t reflect.Type) (reflect.Value, error) {
		if x == nil {
			return reflect.Zero(t), nil
		}
		rv := reflect.ValueOf(x)
		if rv.Type().AssignableTo(t) {
			return rv, nil
		}
		if sameFamily(rv.Kind(), t.Kind()) && rv.Type().ConvertibleTo(t) {
			return rv.Convert(t), nil
		}
		if s, ok := x.(string); ok {
			return fromString(s)(t)
		}
		return reflect.Value{}, fmt.Errorf("%w: cannot store %T in %s", ErrTypeMismatch, x, t)
	}
}

// fromString parses raw input text into the field's type.
func fromString(raw string) producer {
	return func(t reflect.Type) (reflect.Value, error) {
		if reflect.PointerTo(t).Implements(textUnmarshalerType) {
			nv := reflect.New(t)
			if raw != "" {
				if err := nv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
					return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
				}
			}
			return nv.Elem(), nil
		}

		switch t.Kind() {
		case reflect.String:
			return reflect.ValueOf(raw).Convert(t), nil
		case reflect.Interface:
			if reflect.TypeOf(raw).AssignableTo(t) {
				return reflect.ValueOf(raw).Convert(t), nil
			}
		case reflect.Pointer:
			if raw == "" {
				return reflect.Zero(t), nil
			}
			inner, err := fromString(raw)(t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			ptr := reflect.New(t.Elem())
			ptr.Elem().Set(inner)
			return ptr, nil
		}

		nv := reflect.New(t).Elem()
		if raw == "" {
			return nv, nil
		}
		var err error
		switch t.Kind() {
		case reflect.Bool:
			var b bool
			b, err = strconv.ParseBool(raw)
			nv.SetBool(b)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			var n int64
			n, err = strconv.ParseInt(raw, 10, t.Bits())
			nv.SetInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			var n uint64
			n, err = strconv.ParseUint(raw, 10, t.Bits())
			nv.SetUint(n)
		case reflect.Float32, reflect.Float64:
			var n float64
			n, err = strconv.ParseFloat(raw, t.Bits())
			nv.SetFloat(n)
		default:
			return reflect.Value{}, fmt.Errorf("%w: cannot parse text into %s", ErrTypeMismatch, t)
		}
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		return nv, nil
	}
}

func sameFamily(a, b reflect.Kind) bool {
	return a == b || (numeric(a) && numeric(b))
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
