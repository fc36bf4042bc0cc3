package loggical

// Options is the caller-facing configuration value object. Pointer fields
// distinguish "explicitly set" from "absent": absent fields fall through to
// lower-precedence sources when merged.
type Options struct {
	// Preset names a bundle of formatting defaults layered beneath the
	// explicit fields. An unknown preset name falls through silently.
	Preset string

	// Prefix is copied into the logger at creation and never mutated.
	Prefix []string

	MinLevel          *Level
	ColorLevel        *ColorLevel
	Timestamped       *bool
	ShortTimestamp    *bool
	CompactObjects    *bool
	MaxValueLength    *int
	UseSymbols        *bool
	ShowSeparators    *bool
	SpaceMessages     *bool
	Redaction         *bool
	FatalExitsProcess *bool

	// Namespace tags every entry and, when a resolver is configured,
	// participates in level gating.
	Namespace string

	// Context is a key/value map attached to every entry's metadata.
	Context map[string]any

	// Transports receive every formatted line. Ownership stays with the
	// caller; the logger holds a non-owning reference for dispatch and
	// calls Close on teardown.
	Transports []Transport

	// Extension points. Each replaces one behavior without reaching into
	// logger internals.
	Redactor   RedactionStrategy
	Transform  MessageTransform
	Namespaces NamespaceResolver

	Metrics      MetricsCollector
	ErrorHandler ErrorHandler
}

// Config is the fully resolved configuration held by a Logger. Immutable
// after construction; derived loggers get a fresh copy.
type Config struct {
	MinLevel          Level
	ColorLevel        ColorLevel
	Timestamped       bool
	ShortTimestamp    bool
	CompactObjects    bool
	MaxValueLength    int
	UseSymbols        bool
	ShowSeparators    bool
	SpaceMessages     bool
	Redaction         bool
	FatalExitsProcess bool
	Prefix            []string
	Namespace         string
}

// MessageTransform rewrites the message list before rendering. Supplied
// through Options, never by patching logger internals.
type MessageTransform func(level Level, messages []any) []any

// Ptr is a convenience for filling Options pointer fields inline.
func Ptr[T any](v T) *T { return &v }

// presets are named bundles of formatting defaults. The preset's fields form
// the base; the caller's explicit fields win.
var presets = map[string]Options{
	"minimal": {
		Timestamped:    Ptr(false),
		UseSymbols:     Ptr(false),
		ShowSeparators: Ptr(false),
	},
	"compact": {
		CompactObjects: Ptr(true),
		ShortTimestamp: Ptr(true),
		UseSymbols:     Ptr(false),
	},
	"verbose": {
		Timestamped:    Ptr(true),
		ShortTimestamp: Ptr(false),
		CompactObjects: Ptr(false),
		ShowSeparators: Ptr(true),
	},
}

// overlay writes src's present fields over dst. Pointer fields transfer only
// when set; reference fields only when non-empty.
func overlay(dst *Options, src Options) {
	if src.MinLevel != nil {
		dst.MinLevel = src.MinLevel
	}
	if src.ColorLevel != nil {
		dst.ColorLevel = src.ColorLevel
	}
	if src.Timestamped != nil {
		dst.Timestamped = src.Timestamped
	}
	if src.ShortTimestamp != nil {
		dst.ShortTimestamp = src.ShortTimestamp
	}
	if src.CompactObjects != nil {
		dst.CompactObjects = src.CompactObjects
	}
	if src.MaxValueLength != nil {
		dst.MaxValueLength = src.MaxValueLength
	}
	if src.UseSymbols != nil {
		dst.UseSymbols = src.UseSymbols
	}
	if src.ShowSeparators != nil {
		dst.ShowSeparators = src.ShowSeparators
	}
	if src.SpaceMessages != nil {
		dst.SpaceMessages = src.SpaceMessages
	}
	if src.Redaction != nil {
		dst.Redaction = src.Redaction
	}
	if src.FatalExitsProcess != nil {
		dst.FatalExitsProcess = src.FatalExitsProcess
	}
	if len(src.Prefix) > 0 {
		dst.Prefix = src.Prefix
	}
	if src.Namespace != "" {
		dst.Namespace = src.Namespace
	}
	if src.Context != nil {
		dst.Context = src.Context
	}
	if len(src.Transports) > 0 {
		dst.Transports = src.Transports
	}
	if src.Redactor != nil {
		dst.Redactor = src.Redactor
	}
	if src.Transform != nil {
		dst.Transform = src.Transform
	}
	if src.Namespaces != nil {
		dst.Namespaces = src.Namespaces
	}
	if src.Metrics != nil {
		dst.Metrics = src.Metrics
	}
	if src.ErrorHandler != nil {
		dst.ErrorHandler = src.ErrorHandler
	}
}
