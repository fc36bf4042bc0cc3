package loggical

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	redactionMarker = "***"
	circularMarker  = "[Circular Reference]"
)

// sensitiveKeyNames are matched against object keys case-insensitively:
// exact match, substring-contains, underscore-suffix, or dash-suffix.
// Richer pattern sets (credit cards, JWTs, custom regexes) belong in a
// RedactionStrategy, not here.
var sensitiveKeyNames = []string{
	"password", "passwd", "pwd",
	"token", "secret", "key",
	"auth", "apikey", "credential",
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeyNames {
		if k == s || strings.Contains(k, s) ||
			strings.HasSuffix(k, "_"+s) || strings.HasSuffix(k, "-"+s) {
			return true
		}
	}
	return false
}

// RedactionStrategy is the injectable replacement for the built-in rules.
type RedactionStrategy interface {
	Redact(v any) any
}

// RedactionFunc adapts a function to RedactionStrategy.
type RedactionFunc func(any) any

func (f RedactionFunc) Redact(v any) any { return f(v) }

// defaultRedaction applies the built-in key heuristics.
type defaultRedaction struct{}

func (defaultRedaction) Redact(v any) any { return Redact(v, true) }

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Redact walks a value graph and masks values under sensitive-looking keys.
// Disabled or non-object input is returned unchanged. Error values are
// returned as the same reference, never recursed into, so diagnostic detail
// survives. A revisited reference renders as "[Circular Reference]".
func Redact(v any, enabled bool) any {
	if !enabled || v == nil {
		return v
	}
	if _, ok := v.(error); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return redactValue(rv, map[uintptr]struct{}{})
	}
	return v
}

func redactValue(rv reflect.Value, seen map[uintptr]struct{}) any {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Invalid {
		return nil
	}
	if rv.Type().Implements(errorType) {
		return rv.Interface()
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		id := rv.Pointer()
		if _, ok := seen[id]; ok {
			return circularMarker
		}
		seen[id] = struct{}{}
		return redactValue(rv.Elem(), seen)

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		id := rv.Pointer()
		if _, ok := seen[id]; ok {
			return circularMarker
		}
		seen[id] = struct{}{}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			if isSensitiveKey(key) {
				out[key] = redactionMarker
				continue
			}
			out[key] = redactChild(iter.Value(), seen)
		}
		return out

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		id := rv.Pointer()
		if _, ok := seen[id]; ok {
			return circularMarker
		}
		seen[id] = struct{}{}
		return redactSequence(rv, seen)

	case reflect.Array:
		return redactSequence(rv, seen)

	case reflect.Struct:
		t := rv.Type()
		out := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if isSensitiveKey(f.Name) {
				out[f.Name] = redactionMarker
				continue
			}
			out[f.Name] = redactChild(rv.Field(i), seen)
		}
		return out
	}

	if rv.CanInterface() {
		return rv.Interface()
	}
	return nil
}

// redactSequence maps elements in order, preserving length.
func redactSequence(rv reflect.Value, seen map[uintptr]struct{}) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = redactChild(rv.Index(i), seen)
	}
	return out
}

// redactChild recurses into object-shaped values and passes everything else
// through unchanged.
func redactChild(rv reflect.Value, seen map[uintptr]struct{}) any {
	v := rv
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return redactValue(v, seen)
	case reflect.Invalid:
		return nil
	}
	if v.CanInterface() {
		return v.Interface()
	}
	return nil
}
