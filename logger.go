package loggical

import (
	"errors"
	"io"
	"os"

	"github.com/trickstertwo/xclock"
)

// Logger is the orchestrating entry point: it holds the resolved
// configuration and fans formatted lines out to its transports. The
// transport set is fixed at construction; derived loggers share it.
type Logger struct {
	cfg        Config
	transports []Transport
	context    map[string]any

	redactor   RedactionStrategy
	transform  MessageTransform
	namespaces NamespaceResolver
	metrics    MetricsCollector
	onError    ErrorHandler

	exit func(int)
}

// New builds a Logger from the given options, merged with the environment
// and runtime defaults (programmatic > environment > defaults). With no
// transports configured, a console transport is used.
func New(opts Options) *Logger {
	l := &Logger{
		cfg:        processOptions(opts, runtimeDefaults()),
		transports: append([]Transport(nil), opts.Transports...),
		context:    copyContext(opts.Context),
		redactor:   opts.Redactor,
		transform:  opts.Transform,
		namespaces: opts.Namespaces,
		metrics:    opts.Metrics,
		onError:    opts.ErrorHandler,
		exit:       os.Exit,
	}
	if len(l.transports) == 0 {
		l.transports = []Transport{NewConsoleTransport(ConsoleOptions{})}
	}
	if l.redactor == nil {
		l.redactor = defaultRedaction{}
	}
	if l.metrics == nil {
		l.metrics = NoopMetricsCollector{}
	}
	if l.onError == nil {
		l.onError = defaultErrorHandler
	}
	return l
}

// Level entry points.

func (l *Logger) Debug(msgs ...any)     { l.log(LevelDebug, msgs) }
func (l *Logger) Info(msgs ...any)      { l.log(LevelInfo, msgs) }
func (l *Logger) Warn(msgs ...any)      { l.log(LevelWarn, msgs) }
func (l *Logger) Error(msgs ...any)     { l.log(LevelError, msgs) }
func (l *Logger) Highlight(msgs ...any) { l.log(LevelHighlight, msgs) }
func (l *Logger) Fatal(msgs ...any)     { l.log(LevelFatal, msgs) }

// Enabled reports whether a call at the given level would reach any
// transport's gate. Use to skip building expensive messages.
func (l *Logger) Enabled(level Level) bool {
	min := l.cfg.MinLevel
	if l.cfg.Namespace != "" && l.namespaces != nil {
		if m, ok := l.namespaces.MinLevelFor(l.cfg.Namespace); ok {
			min = m
		}
	}
	return level.Enabled(min)
}

func (l *Logger) log(level Level, msgs []any) {
	if !l.Enabled(level) {
		return
	}
	// Single authoritative timestamp from xclock.
	at := xclock.Now()

	var stack *FilteredStackTrace
	if level.errorTier() {
		stack = CaptureFilteredStackTrace()
	}

	md := &Metadata{
		Level:     level,
		At:        at,
		Namespace: l.cfg.Namespace,
		Context:   l.context,
		Prefixes:  l.cfg.Prefix,
		Stack:     stack,
	}

	if l.transform != nil {
		msgs = l.transform(level, msgs)
	}
	if l.cfg.Redaction {
		redacted := make([]any, len(msgs))
		for i, m := range msgs {
			redacted[i] = l.redactor.Redact(m)
		}
		msgs = redacted
	}

	line := formatLine(l.cfg, level, at, l.cfg.Prefix, msgs)

	// Registration order, each transport isolated from the others.
	for _, t := range l.transports {
		safeWrite(t, line, md, l.onError, l.metrics)
	}
	l.metrics.LoggedMessage(level, len(line))

	if level == LevelFatal && l.cfg.FatalExitsProcess {
		l.exit(1)
	}
}

// WithPrefix returns a new logger whose prefix list gains name. The parent
// is never mutated.
func (l *Logger) WithPrefix(name string) *Logger {
	child := l.clone()
	child.cfg.Prefix = append(append([]string(nil), l.cfg.Prefix...), name)
	return child
}

// WithContext returns a new logger with one context entry added.
func (l *Logger) WithContext(key string, value any) *Logger {
	child := l.clone()
	child.context[key] = value
	return child
}

// WithContextMap returns a new logger with all entries of m added.
func (l *Logger) WithContextMap(m map[string]any) *Logger {
	child := l.clone()
	for k, v := range m {
		child.context[k] = v
	}
	return child
}

// WithNamespace returns a new logger tagged with the namespace.
func (l *Logger) WithNamespace(namespace string) *Logger {
	child := l.clone()
	child.cfg.Namespace = namespace
	return child
}

// WithOptions returns a new logger with the given overrides layered onto
// the current configuration: per-call customization without mutating the
// original.
func (l *Logger) WithOptions(opts Options) *Logger {
	child := l.clone()
	child.cfg = overrideConfig(l.cfg, opts)
	if len(opts.Transports) > 0 {
		child.transports = append([]Transport(nil), opts.Transports...)
	}
	if opts.Context != nil {
		for k, v := range opts.Context {
			child.context[k] = v
		}
	}
	if opts.Redactor != nil {
		child.redactor = opts.Redactor
	}
	if opts.Transform != nil {
		child.transform = opts.Transform
	}
	if opts.Namespaces != nil {
		child.namespaces = opts.Namespaces
	}
	if opts.Metrics != nil {
		child.metrics = opts.Metrics
	}
	if opts.ErrorHandler != nil {
		child.onError = opts.ErrorHandler
	}
	return child
}

// Options returns a read-only snapshot of the resolved configuration.
func (l *Logger) Options() Config {
	out := l.cfg
	out.Prefix = append([]string(nil), l.cfg.Prefix...)
	return out
}

// Close closes every transport that supports closing. The logger holds
// non-owning references, so this is the only lifecycle action it takes.
func (l *Logger) Close() error {
	var errs []error
	for _, t := range l.transports {
		if c, ok := t.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (l *Logger) clone() *Logger {
	child := *l
	child.cfg.Prefix = append([]string(nil), l.cfg.Prefix...)
	child.context = copyContext(l.context)
	return &child
}

func copyContext(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
