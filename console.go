package loggical

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// ConsoleOptions configures a ConsoleTransport.
type ConsoleOptions struct {
	TransportOptions

	// Out receives everything below the error tier. Defaults to stdout.
	Out io.Writer
	// ErrOut receives error-tier lines. Defaults to stderr.
	ErrOut io.Writer
	// LevelWriters overrides the destination for individual levels.
	LevelWriters map[Level]io.Writer
}

// ConsoleTransport writes formatted lines to standard streams, routing by
// level. Error-tier lines additionally get the filtered stack trace as a
// separate write.
type ConsoleTransport struct {
	TransportOptions

	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	overrides map[Level]io.Writer

	writes atomic.Uint64
	errs   atomic.Uint64
}

// NewConsoleTransport builds a console transport. Zero options give a
// stdout/stderr transport with no extra gating.
func NewConsoleTransport(opts ConsoleOptions) *ConsoleTransport {
	t := &ConsoleTransport{
		TransportOptions: opts.TransportOptions,
		out:              opts.Out,
		errOut:           opts.ErrOut,
		overrides:        opts.LevelWriters,
	}
	if t.out == nil {
		t.out = os.Stdout
	}
	if t.errOut == nil {
		t.errOut = os.Stderr
	}
	return t
}

func (t *ConsoleTransport) writerFor(level Level) io.Writer {
	if w, ok := t.overrides[level]; ok {
		return w
	}
	if level.errorTier() {
		return t.errOut
	}
	return t.out
}

// Write emits the line, then for error-tier levels the filtered stack
// trace: the one already captured in metadata, or a fresh capture as a
// last resort.
func (t *ConsoleTransport) Write(message string, md *Metadata) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.writerFor(md.Level)
	if _, err := io.WriteString(w, message+"\n"); err != nil {
		t.errs.Add(1)
		return err
	}
	t.writes.Add(1)

	if md.Level.errorTier() {
		st := md.Stack
		if st == nil {
			st = CaptureFilteredStackTrace()
		}
		if st.Filtered != "" {
			if _, err := io.WriteString(w, st.Filtered+"\n"); err != nil {
				t.errs.Add(1)
				return err
			}
		}
	}
	return nil
}

// Configure replaces the transport's gating options.
func (t *ConsoleTransport) Configure(opts TransportOptions) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.TransportOptions = opts
}

func (t *ConsoleTransport) Name() string { return "console" }

func (t *ConsoleTransport) Status() TransportStatus {
	return TransportStatus{
		Name:   "console",
		Writes: t.writes.Load(),
		Errors: t.errs.Load(),
	}
}
