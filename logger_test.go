package loggical

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/trickstertwo/xclock"
)

// stubTransport records every delivered line with its metadata.
type stubTransport struct {
	lines []string
	mds   []*Metadata
	err   error
}

func (s *stubTransport) Write(message string, md *Metadata) error {
	if s.err != nil {
		return s.err
	}
	s.lines = append(s.lines, message)
	s.mds = append(s.mds, md)
	return nil
}

func plainOptions(transports ...Transport) Options {
	return Options{
		MinLevel:    Ptr(LevelDebug),
		ColorLevel:  Ptr(ColorNone),
		Timestamped: Ptr(false),
		Transports:  transports,
	}
}

func TestLoggerLevelGating(t *testing.T) {
	stub := &stubTransport{}
	opts := plainOptions(stub)
	opts.MinLevel = Ptr(LevelWarn)
	l := New(opts)

	l.Info("invisible")
	if len(stub.lines) != 0 {
		t.Fatalf("info below the minimum must not dispatch, got %v", stub.lines)
	}

	l.Warn("x")
	if len(stub.lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(stub.lines))
	}
	if !strings.Contains(stub.lines[0], "x") {
		t.Fatalf("line missing message: %q", stub.lines[0])
	}
	if stub.mds[0].Level != LevelWarn {
		t.Fatalf("metadata level: %v", stub.mds[0].Level)
	}
	if !l.Enabled(LevelError) || l.Enabled(LevelDebug) {
		t.Fatal("Enabled must reflect the configured minimum")
	}
}

func TestLoggerFrozenTimestamp(t *testing.T) {
	old := xclock.Default()
	defer xclock.SetDefault(old)
	ft := time.Date(2025, 6, 15, 10, 30, 45, 123e6, time.UTC)
	xclock.SetDefault(xclock.NewFrozen(ft))

	stub := &stubTransport{}
	l := New(Options{
		MinLevel:       Ptr(LevelDebug),
		ColorLevel:     Ptr(ColorNone),
		Timestamped:    Ptr(true),
		ShortTimestamp: Ptr(false),
		Transports:     []Transport{stub},
	})
	l.Info("tick")

	if len(stub.lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(stub.lines))
	}
	if !strings.HasPrefix(stub.lines[0], "[2025-06-15T10:30:45.123Z]") {
		t.Fatalf("timestamp: %q", stub.lines[0])
	}
	if !stub.mds[0].At.Equal(ft) {
		t.Fatalf("metadata timestamp: %v", stub.mds[0].At)
	}
}

func TestTransportFailureDoesNotBlockOthers(t *testing.T) {
	failing := &stubTransport{err: errors.New("down")}
	healthy := &stubTransport{}

	var diagnostics []error
	opts := plainOptions(failing, healthy)
	opts.ErrorHandler = func(err error) { diagnostics = append(diagnostics, err) }
	l := New(opts)

	l.Info("through")

	if len(healthy.lines) != 1 {
		t.Fatalf("healthy transport must still receive the line, got %d", len(healthy.lines))
	}
	if len(diagnostics) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(diagnostics))
	}
	if !strings.Contains(diagnostics[0].Error(), "down") {
		t.Fatalf("diagnostic should wrap the cause: %v", diagnostics[0])
	}
}

func TestDerivedLoggersDoNotMutateParent(t *testing.T) {
	stub := &stubTransport{}
	parent := New(plainOptions(stub))

	child := parent.WithPrefix("API").WithContext("request_id", "r-42")
	grand := child.WithPrefix("AUTH")

	if len(parent.Options().Prefix) != 0 {
		t.Fatalf("parent prefix mutated: %v", parent.Options().Prefix)
	}
	if got := child.Options().Prefix; len(got) != 1 || got[0] != "API" {
		t.Fatalf("child prefix: %v", got)
	}

	grand.Info("hello")
	line := stub.lines[len(stub.lines)-1]
	if !strings.Contains(line, "[API:AUTH]") {
		t.Fatalf("prefix block missing: %q", line)
	}
	md := stub.mds[len(stub.mds)-1]
	if md.Context["request_id"] != "r-42" {
		t.Fatalf("context not inherited: %v", md.Context)
	}

	parent.Info("plain")
	if line := stub.lines[len(stub.lines)-1]; strings.Contains(line, "[API") {
		t.Fatalf("parent must stay prefix-free: %q", line)
	}
}

func TestNamespaceGating(t *testing.T) {
	reg := NewNamespaceRegistry()
	reg.Set("net.*", LevelError)

	stub := &stubTransport{}
	opts := plainOptions(stub)
	opts.Namespaces = reg
	l := New(opts)

	http := l.WithNamespace("net.http")
	http.Warn("suppressed")
	if len(stub.lines) != 0 {
		t.Fatalf("namespace rule must gate, got %v", stub.lines)
	}
	http.Error("delivered")
	if len(stub.lines) != 1 {
		t.Fatalf("error must pass the namespace rule, got %d", len(stub.lines))
	}
	if stub.mds[0].Namespace != "net.http" {
		t.Fatalf("metadata namespace: %q", stub.mds[0].Namespace)
	}

	// Unmatched namespaces keep the logger's own minimum.
	other := l.WithNamespace("db.pool")
	other.Debug("fine")
	if len(stub.lines) != 2 {
		t.Fatalf("unmatched namespace must use the base minimum, got %d", len(stub.lines))
	}
}

func TestFatalExit(t *testing.T) {
	stub := &stubTransport{}
	l := New(plainOptions(stub))

	var code = -1
	l.exit = func(c int) { code = c }

	l.Fatal("goodbye")
	if code != 1 {
		t.Fatalf("fatal must exit with 1, got %d", code)
	}
	if len(stub.lines) != 1 {
		t.Fatal("fatal line must be dispatched before exiting")
	}
	if stub.mds[0].Stack == nil {
		t.Fatal("error-tier calls must carry a stack trace")
	}

	// Exit can be configured away.
	code = -1
	opts := plainOptions(stub)
	opts.FatalExitsProcess = Ptr(false)
	l2 := New(opts)
	l2.exit = func(c int) { code = c }
	l2.Fatal("still here")
	if code != -1 {
		t.Fatal("FatalExitsProcess=false must not exit")
	}
}

func TestRedactionInPipeline(t *testing.T) {
	stub := &stubTransport{}
	opts := plainOptions(stub)
	opts.Redaction = Ptr(true)
	l := New(opts)

	l.Info(map[string]any{"user": "alice", "password": "hunter2"})

	line := stub.lines[0]
	if strings.Contains(line, "hunter2") {
		t.Fatalf("secret leaked: %q", line)
	}
	if !strings.Contains(line, redactionMarker) {
		t.Fatalf("marker missing: %q", line)
	}
	if !strings.Contains(line, "alice") {
		t.Fatalf("non-sensitive value lost: %q", line)
	}
}

func TestTransformStrategy(t *testing.T) {
	stub := &stubTransport{}
	opts := plainOptions(stub)
	opts.Transform = func(level Level, messages []any) []any {
		return append([]any{"[" + level.Compact() + "]"}, messages...)
	}
	l := New(opts)

	l.Warn("careful")
	if !strings.Contains(stub.lines[0], "[WRN] careful") {
		t.Fatalf("transform not applied: %q", stub.lines[0])
	}
}

type closableTransport struct {
	stubTransport
	closed bool
}

func (c *closableTransport) Close() error {
	c.closed = true
	return nil
}

func TestCloseClosesTransports(t *testing.T) {
	ct := &closableTransport{}
	plain := &stubTransport{}
	l := New(plainOptions(ct, plain))

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if !ct.closed {
		t.Fatal("closable transport must be closed")
	}
}

func TestDefaultLoggerSwap(t *testing.T) {
	stub := &stubTransport{}
	old := Default()
	defer SetDefault(old)

	SetDefault(New(plainOptions(stub)))
	Info("via facade")

	if len(stub.lines) != 1 || !strings.Contains(stub.lines[0], "via facade") {
		t.Fatalf("facade dispatch: %v", stub.lines)
	}
}
