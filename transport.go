package loggical

import (
	"fmt"
	"os"
	"time"
)

// Metadata is the per-call record handed to every transport for that call.
// Created fresh on each log call, shared by reference, discarded after
// dispatch.
type Metadata struct {
	Level     Level
	At        time.Time
	Namespace string
	Context   map[string]any
	Prefixes  []string
	Stack     *FilteredStackTrace
}

// Transport is a pluggable sink receiving a fully formatted line plus its
// metadata. Write may perform asynchronous I/O internally; the logger does
// not wait on completion. A transport that needs ordering across concurrent
// writes is responsible for providing it.
type Transport interface {
	Write(message string, md *Metadata) error
}

// FilterFunc is a per-transport predicate; returning false suppresses the
// write. Evaluated fresh for every call.
type FilterFunc func(level Level, message string, md *Metadata) bool

// TransportOptions is the common per-transport configuration. Built-in
// transports embed it; custom transports may too, gaining the same gating.
type TransportOptions struct {
	MinLevel Level
	Filter   FilterFunc

	// Silent swallows write errors entirely instead of reporting them
	// through the logger's error handler.
	Silent bool
}

// ShouldWrite reports whether a message passes this transport's gate.
// Pure, no side effects.
func (o TransportOptions) ShouldWrite(level Level, message string, md *Metadata) bool {
	if !level.Enabled(o.MinLevel) {
		return false
	}
	if o.Filter != nil && !o.Filter(level, message, md) {
		return false
	}
	return true
}

// IsSilent reports whether write errors should be swallowed.
func (o TransportOptions) IsSilent() bool { return o.Silent }

// Optional transport capabilities, discovered per the usual optional
// interface pattern.

// Configurable transports accept option updates after construction.
type Configurable interface {
	Configure(opts TransportOptions)
}

// StatusReporter transports expose a point-in-time status snapshot.
type StatusReporter interface {
	Status() TransportStatus
}

// TransportStatus is a counters snapshot for one transport.
type TransportStatus struct {
	Name   string
	Writes uint64
	Errors uint64
	Closed bool
}

type transportGate interface {
	ShouldWrite(level Level, message string, md *Metadata) bool
}

type transportSilencer interface {
	IsSilent() bool
}

type transportNamer interface {
	Name() string
}

// ErrorHandler receives transport write failures. It is a side channel:
// failures are never re-thrown into the logging call site.
type ErrorHandler func(error)

func defaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "loggical: %v\n", err)
}

func transportName(t Transport) string {
	if n, ok := t.(transportNamer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", t)
}

// safeWrite gates and invokes one transport's Write, containing every
// failure mode. A panicking or erroring transport never prevents delivery
// to the remaining transports and never surfaces at the logging call site.
func safeWrite(t Transport, message string, md *Metadata, onError ErrorHandler, metrics MetricsCollector) {
	if g, ok := t.(transportGate); ok && !g.ShouldWrite(md.Level, message, md) {
		return
	}
	silent := false
	if s, ok := t.(transportSilencer); ok {
		silent = s.IsSilent()
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.TransportError(transportName(t))
			if !silent {
				onError(fmt.Errorf("transport %s panicked: %v", transportName(t), r))
			}
		}
	}()

	if err := t.Write(message, md); err != nil {
		metrics.TransportError(transportName(t))
		if !silent {
			onError(fmt.Errorf("transport %s: %w", transportName(t), err))
		}
	}
}
