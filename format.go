package loggical

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// maxRenderDepth bounds structural rendering; anything deeper renders as a
// placeholder rather than recursing forever.
const maxRenderDepth = 8

// Truncate shortens s to max characters, replacing the excess with a
// 3-character ellipsis so the result is at most max long. Strings at or
// under max are returned unchanged. A cut point landing inside a
// multi-byte rune backs up to the rune's start so the output stays valid
// UTF-8. For max below the ellipsis length the cut point wraps from the
// end of the string, which can produce output longer than requested; that
// behavior is documented and kept.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	end := max - 3
	if end < 0 {
		end += len(s)
		if end < 0 {
			end = 0
		}
	}
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + "..."
}

// PadNumber zero-pads n to the given width, never truncating to fit. The
// sign leads and counts toward the width: PadNumber(-5, 3) is "-05".
func PadNumber(n, width int) string {
	if n < 0 {
		w := width - 1
		if w < 0 {
			w = 0
		}
		return "-" + zeroPad(strconv.Itoa(-n), w)
	}
	return zeroPad(strconv.Itoa(n), width)
}

func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// formatTimestamp renders the timestamp block body: HH:MM:SS.mmm when
// short, a full UTC ISO form otherwise.
func formatTimestamp(t time.Time, short bool) string {
	if short {
		return PadNumber(t.Hour(), 2) + ":" +
			PadNumber(t.Minute(), 2) + ":" +
			PadNumber(t.Second(), 2) + "." +
			PadNumber(t.Nanosecond()/1e6, 3)
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// formatLine assembles one complete log line: timestamp block, level
// indicator, prefix block, then each rendered message. Pieces are joined by
// a single space; ShowSeparators switches the message joins to " | ".
func formatLine(cfg Config, level Level, at time.Time, prefixes []string, msgs []any) string {
	c := colorizer{mode: cfg.ColorLevel}

	var b strings.Builder
	if cfg.Timestamped {
		b.WriteString(c.dim("[" + formatTimestamp(at, cfg.ShortTimestamp) + "]"))
	}

	var indicator string
	if cfg.UseSymbols {
		indicator = level.Symbol()
	} else if cfg.CompactObjects {
		indicator = c.level(level, level.Compact())
	} else {
		indicator = c.level(level, level.String())
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(indicator)

	if len(prefixes) > 0 {
		b.WriteByte(' ')
		b.WriteString(c.level(level, "["+strings.Join(prefixes, ":")+"]"))
	}

	sep := " "
	if cfg.ShowSeparators {
		sep = " | "
	}
	for _, m := range msgs {
		b.WriteString(sep)
		b.WriteString(c.enhance(formatMessage(m, cfg, 0)))
	}

	line := b.String()
	if cfg.SpaceMessages {
		line += "\n"
	}
	return line
}

// formatMessage renders one message value. Strings are truncated to
// MaxValueLength; errors get dedicated rendering; objects render compact or
// multi-line per configuration; everything else uses its default textual
// representation. An indent left-pads the result.
func formatMessage(v any, cfg Config, indent int) string {
	pad := strings.Repeat(" ", indent)
	switch t := v.(type) {
	case nil:
		return pad + "null"
	case string:
		return pad + Truncate(t, cfg.MaxValueLength)
	case error:
		return pad + renderError(t, cfg, indent)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return pad + "null"
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		if cfg.CompactObjects {
			return pad + renderCompact(rv, cfg, 0)
		}
		return pad + renderPretty(rv, cfg, indent, 0)
	}
	return pad + fmt.Sprint(v)
}

// renderCompact produces the single-line object form:
// { key: value, k2: "str" }. Keys are rendered in sorted order so identical
// input always yields identical output.
func renderCompact(rv reflect.Value, cfg Config, depth int) string {
	if depth > maxRenderDepth {
		return "..."
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		pairs := objectPairs(rv)
		if len(pairs) == 0 {
			return "{}"
		}
		parts := make([]string, len(pairs))
		for i, p := range pairs {
			parts[i] = p.key + ": " + renderScalarOrCompact(p.value, cfg, depth+1)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case reflect.Struct:
		pairs := structPairs(rv)
		if len(pairs) == 0 {
			return "{}"
		}
		parts := make([]string, len(pairs))
		for i, p := range pairs {
			parts[i] = p.key + ": " + renderScalarOrCompact(p.value, cfg, depth+1)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = renderScalarOrCompact(rv.Index(i), cfg, depth+1)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return renderScalar(rv, cfg)
}

// renderPretty produces the multi-line structural form with 2-space
// indentation per nesting level.
func renderPretty(rv reflect.Value, cfg Config, indent, depth int) string {
	if depth > maxRenderDepth {
		return "..."
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}
	pad := strings.Repeat(" ", indent)
	inner := strings.Repeat(" ", indent+2)

	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		var pairs []renderPair
		if rv.Kind() == reflect.Map {
			pairs = objectPairs(rv)
		} else {
			pairs = structPairs(rv)
		}
		if len(pairs) == 0 {
			return "{}"
		}
		var b strings.Builder
		b.WriteString("{")
		for _, p := range pairs {
			b.WriteString("\n" + inner + p.key + ": ")
			b.WriteString(renderChildPretty(p.value, cfg, indent+2, depth+1))
		}
		b.WriteString("\n" + pad + "}")
		return b.String()
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return "[]"
		}
		var b strings.Builder
		b.WriteString("[")
		for i := 0; i < rv.Len(); i++ {
			b.WriteString("\n" + inner)
			b.WriteString(renderChildPretty(rv.Index(i), cfg, indent+2, depth+1))
		}
		b.WriteString("\n" + pad + "]")
		return b.String()
	}
	return renderScalar(rv, cfg)
}

type renderPair struct {
	key   string
	value reflect.Value
}

func objectPairs(rv reflect.Value) []renderPair {
	keys := make([]string, 0, rv.Len())
	byKey := make(map[string]reflect.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := fmt.Sprint(iter.Key().Interface())
		keys = append(keys, k)
		byKey[k] = iter.Value()
	}
	sort.Strings(keys)
	pairs := make([]renderPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, renderPair{key: k, value: byKey[k]})
	}
	return pairs
}

func structPairs(rv reflect.Value) []renderPair {
	t := rv.Type()
	pairs := make([]renderPair, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		pairs = append(pairs, renderPair{key: f.Name, value: rv.Field(i)})
	}
	return pairs
}

func renderScalarOrCompact(rv reflect.Value, cfg Config, depth int) string {
	v := rv
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "null"
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return renderCompact(v, cfg, depth)
	}
	return renderScalar(v, cfg)
}

func renderChildPretty(rv reflect.Value, cfg Config, indent, depth int) string {
	v := rv
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "null"
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return renderPretty(v, cfg, indent, depth)
	}
	return renderScalar(v, cfg)
}

func renderScalar(rv reflect.Value, cfg Config) string {
	if !rv.IsValid() || !rv.CanInterface() {
		return "null"
	}
	v := rv.Interface()
	switch t := v.(type) {
	case string:
		return strconv.Quote(Truncate(t, cfg.MaxValueLength))
	case error:
		return t.Error()
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return t.String()
	}
	return fmt.Sprint(v)
}

// renderError renders an error with its type, message, cause chain, and
// stack when available. Errors never render as an empty structural dump.
func renderError(err error, cfg Config, indent int) string {
	name := fmt.Sprintf("%T", err)
	if cfg.CompactObjects {
		s := name + ": " + err.Error()
		if cause := errors.Unwrap(err); cause != nil {
			s += " (cause: " + renderError(cause, cfg, 0) + ")"
		}
		return s
	}

	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	b.WriteString(name + ": " + err.Error())
	for _, p := range errorProperties(err) {
		b.WriteString("\n" + pad + "  " + p.key + ": " + renderScalarOrCompact(p.value, cfg, 0))
	}
	if st, ok := err.(StackTracer); ok {
		filtered := FilterStackTrace(st.StackTrace())
		if filtered.Filtered != "" {
			for _, line := range strings.Split(filtered.Filtered, "\n") {
				b.WriteString("\n" + pad + "  " + line)
			}
		}
	}
	if cause := errors.Unwrap(err); cause != nil {
		b.WriteString("\n" + pad + "  cause: " + renderError(cause, cfg, indent+2))
	}
	return b.String()
}

// errorProperties lists an error's exported struct fields beyond the
// standard ones, so custom diagnostic detail attached to the instance
// survives into the output.
func errorProperties(err error) []renderPair {
	rv := reflect.ValueOf(err)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	t := rv.Type()
	var pairs []renderPair
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		// The wrapped error renders as the cause chain, not a property.
		if f.Type.Implements(errorType) {
			continue
		}
		pairs = append(pairs, renderPair{key: f.Name, value: rv.Field(i)})
	}
	return pairs
}
