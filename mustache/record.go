package mustache

import (
	"reflect"
	"strings"
)

// Record is a context scope with named properties.
//
// Maps with string keys and structs are adapted to Record automatically;
// implement Record directly to expose computed properties.
type Record interface {
	Lookup(name string) (any, bool)
}

// Storer is implemented by records that accept writes. Interpolation
// lambdas memoize their output into a Storer owner.
type Storer interface {
	Store(name string, value any)
}

// Map is a mutable [Record] backed by a map. Plain map[string]any data is
// wrapped as a Map, so lambda memoization writes into the caller's map.
type Map map[string]any

// Lookup implements [Record].
func (m Map) Lookup(name string) (any, bool) {
	v, ok := m[name]

	return v, ok
}

// Store implements [Storer].
func (m Map) Store(name string, value any) { m[name] = value }

// asRecord adapts raw to a Record if it is a map with string-compatible
// keys, a struct, or a pointer to either.
func asRecord(raw any) (Record, bool) {
	switch r := raw.(type) {
	case Record:
		return r, true

	case map[string]any:
		return Map(r), true
	}

	rv := reflect.ValueOf(raw)
	ptr := reflect.Value{}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		if rv.Kind() == reflect.Pointer {
			ptr = rv
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		switch rv.Type().Key().Kind() {
		case reflect.String, reflect.Interface:
			return mapRecord{rv}, true
		}

	case reflect.Struct:
		return structRecord{val: rv, ptr: ptr}, true
	}

	return nil, false
}

// mapRecord is a read-only view of a reflected map.
type mapRecord struct{ rv reflect.Value }

func (m mapRecord) Lookup(name string) (any, bool) {
	key := reflect.ValueOf(name)
	if kt := m.rv.Type().Key(); kt.Kind() == reflect.String {
		key = key.Convert(kt)
	}

	v := m.rv.MapIndex(key)
	if !v.IsValid() {
		return nil, false
	}

	return v.Interface(), true
}

// structRecord exposes exported fields and methods of a struct.
// A field tagged `mustache:"name"` is found by that name.
type structRecord struct {
	val reflect.Value
	ptr reflect.Value
}

func (s structRecord) Lookup(name string) (any, bool) {
	t := s.val.Type()

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag, _, _ := strings.Cut(f.Tag.Get("mustache"), ",")
		if tag == "-" {
			continue
		}

		if tag == name || (tag == "" && f.Name == name) {
			return s.val.Field(i).Interface(), true
		}
	}

	if s.ptr.IsValid() {
		if m := s.ptr.MethodByName(name); m.IsValid() {
			return m.Interface(), true
		}
	}

	if m := s.val.MethodByName(name); m.IsValid() {
		return m.Interface(), true
	}

	return nil, false
}
