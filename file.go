package loggical

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileTransportOptions configures a FileTransport.
type FileTransportOptions struct {
	TransportOptions

	// Truncate replaces the file's contents instead of appending. Fixed at
	// construction.
	Truncate bool

	// EOL terminates every written line. Defaults to "\n".
	EOL string
}

// FileTransport appends formatted lines to a file. Each write is an
// independent synchronous append. Parent directories are created lazily on
// the first write. No rotation, no header, no index.
type FileTransport struct {
	TransportOptions

	path     string
	truncate bool
	eol      string

	mu     sync.Mutex
	f      *os.File
	closed bool
	writes uint64
	errs   uint64
}

// NewFileTransport builds a file transport for the given path.
// Misconfiguration is surfaced here, not deferred to the first write.
func NewFileTransport(path string, opts FileTransportOptions) (*FileTransport, error) {
	if path == "" {
		return nil, errors.New("loggical: file transport requires a path")
	}
	eol := opts.EOL
	if eol == "" {
		eol = "\n"
	}
	return &FileTransport{
		TransportOptions: opts.TransportOptions,
		path:             path,
		truncate:         opts.Truncate,
		eol:              eol,
	}, nil
}

func (t *FileTransport) ensureOpen() error {
	if t.f != nil {
		return nil
	}
	if dir := filepath.Dir(t.path); dir != "." && dir != string(filepath.Separator) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	flags := os.O_CREATE | os.O_WRONLY
	if t.truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(t.path, flags, 0o644)
	if err != nil {
		return err
	}
	t.f = f
	return nil
}

// Write appends one line plus the configured end-of-line sequence.
func (t *FileTransport) Write(message string, md *Metadata) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.New("loggical: file transport closed")
	}
	if err := t.ensureOpen(); err != nil {
		t.errs++
		return err
	}
	if _, err := t.f.WriteString(message + t.eol); err != nil {
		t.errs++
		return err
	}
	t.writes++
	return nil
}

// Configure replaces the transport's gating options.
func (t *FileTransport) Configure(opts TransportOptions) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.TransportOptions = opts
}

// Close closes the underlying file. The transport cannot be reopened.
func (t *FileTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}

func (t *FileTransport) Name() string { return "file" }

func (t *FileTransport) Status() TransportStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TransportStatus{
		Name:   "file",
		Writes: t.writes,
		Errors: t.errs,
		Closed: t.closed,
	}
}

// Path returns the destination path the transport was constructed with.
func (t *FileTransport) Path() string { return t.path }
