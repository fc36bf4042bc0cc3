package loggical

import (
	"os"
	"strings"
)

// EnvSource is a key/value lookup for environment-derived configuration.
// The process environment is the default; anything with the same shape
// (flag sets, query parameters) can stand in.
type EnvSource func(key string) (string, bool)

// envBinding declares one recognized key and how its raw value lands in an
// Options field. apply reports whether the value parsed; on false the field
// stays absent so a lower-precedence source can fill it.
type envBinding struct {
	key   string
	apply func(raw string, o *Options) bool
}

var envBindings = []envBinding{
	{"LOGGICAL_LEVEL", func(raw string, o *Options) bool {
		lv, ok := ParseLevel(raw)
		if ok {
			o.MinLevel = &lv
		}
		return ok
	}},
	{"LOGGICAL_FORMAT", func(raw string, o *Options) bool {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "compact":
			o.CompactObjects = Ptr(true)
		case "pretty":
			o.CompactObjects = Ptr(false)
		default:
			return false
		}
		return true
	}},
	{"LOGGICAL_COLORS", func(raw string, o *Options) bool {
		cl, ok := ParseColorLevel(strings.TrimSpace(raw))
		if ok {
			o.ColorLevel = &cl
		}
		return ok
	}},
	{"LOGGICAL_TIMESTAMPS", func(raw string, o *Options) bool {
		b, ok := parseEnvBool(raw)
		if ok {
			o.Timestamped = &b
		}
		return ok
	}},
	{"LOGGICAL_REDACTION", func(raw string, o *Options) bool {
		b, ok := parseEnvBool(raw)
		if ok {
			o.Redaction = &b
		}
		return ok
	}},
	{"LOGGICAL_FATAL_EXIT", func(raw string, o *Options) bool {
		b, ok := parseEnvBool(raw)
		if ok {
			o.FatalExitsProcess = &b
		}
		return ok
	}},
}

// OptionsFromEnv reads the LOGGICAL_* keys from the process environment.
// Invalid values are omitted, not errors.
func OptionsFromEnv() Options { return OptionsFromEnvSource(os.LookupEnv) }

// OptionsFromEnvSource reads the recognized keys from an arbitrary source.
func OptionsFromEnvSource(src EnvSource) Options {
	var o Options
	for _, b := range envBindings {
		if raw, ok := src(b.key); ok {
			b.apply(raw, &o)
		}
	}
	return o
}

// parseEnvBool accepts true/false/1/0/yes/no/on/off, case-insensitively,
// with surrounding whitespace trimmed.
func parseEnvBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

// developmentMode reports whether a development-mode signal is present.
// It feeds the minLevel fallback chain only.
func developmentMode() bool {
	v, ok := os.LookupEnv("LOGGICAL_ENV")
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "development", "dev":
		return true
	}
	return false
}
