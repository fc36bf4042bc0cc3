package loggical

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// StackFrame is one call-stack entry: the raw text plus best-effort parsed
// fields. Unparseable lines keep raw text only.
type StackFrame struct {
	Raw      string
	Function string
	File     string
	Line     int
	Column   int
}

// FilteredStackTrace holds a captured stack with library-owned frames
// removed. Immutable once produced.
type FilteredStackTrace struct {
	Original string
	Filtered string
	Frames   []StackFrame
}

// StackTracer is implemented by errors that carry their own stack text.
type StackTracer interface {
	StackTrace() string
}

var (
	goroutineHeaderRe = regexp.MustCompile(`^goroutine \d+ \[[^\]]*\]:$`)
	frameLocRe        = regexp.MustCompile(`^\s*([^\s]+\.\w+):(\d+)(?::(\d+))?(?:\s+\+0x[0-9a-f]+)?$`)
	atFrameRe         = regexp.MustCompile(`^([^\s@]+)@([^\s:]+):(\d+)(?::(\d+))?$`)
)

// libraryFramePatterns identify frames owned by this library or by runtime
// and test-runner internals. Matching is substring-contains on the frame's
// raw text and function name.
var libraryFramePatterns = []string{
	"ilancohen/loggical",
	"loggical.(*Logger).",
	"loggical.CaptureFilteredStackTrace",
	"loggical.captureRawStack",
	"loggical.GetCallerInfo",
	"loggical.formatLine",
	"loggical.safeWrite",
	"testing.tRunner",
	"testing.(*T).Run",
	"runtime.goexit",
	"runtime.main",
}

// reducedFramePatterns strip only the unambiguous library frames. Used when
// the full set would leave nothing, which happens in constrained runtimes
// where the whole stack lives under the module path.
var reducedFramePatterns = []string{
	"loggical.CaptureFilteredStackTrace",
	"loggical.captureRawStack",
	"loggical.GetCallerInfo",
	"loggical.(*Logger).log",
}

// FilterStackTrace parses raw stack text into frames and removes the
// library's own. The header line, when present, is preserved verbatim in
// the reconstructed text. If filtering removes every frame, a reduced
// pattern set is applied so user frames are not lost.
func FilterStackTrace(raw string) *FilteredStackTrace {
	header, frames := parseStackFrames(raw)
	kept := keepFrames(frames, libraryFramePatterns)
	if len(kept) == 0 && len(frames) > 0 {
		kept = keepFrames(frames, reducedFramePatterns)
	}
	return &FilteredStackTrace{
		Original: raw,
		Filtered: reconstructStack(header, kept),
		Frames:   kept,
	}
}

// parseStackFrames splits raw text into an optional header and frames.
// Frame forms, first match wins: a function line paired with an indented
// file:line location, a bare file:line[:col] line, or func@file:line[:col].
// Frame-like lines that match nothing are kept with raw text only; other
// lines are dropped.
func parseStackFrames(raw string) (header string, frames []StackFrame) {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	i := 0
	if len(lines) > 0 && isHeaderLine(lines[0]) {
		header = lines[0]
		i = 1
	}
	for ; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Function line paired with a location line.
		if !frameLocRe.MatchString(line) && i+1 < len(lines) {
			if loc := frameLocRe.FindStringSubmatch(lines[i+1]); loc != nil {
				// The argument list is the last paren group; method frames
				// carry an earlier one in the receiver, main.(*Server).Handle.
				fn := trimmed
				if idx := strings.LastIndexByte(fn, '('); idx > 0 {
					fn = fn[:idx]
				}
				frames = append(frames, StackFrame{
					Raw:      line + "\n" + lines[i+1],
					Function: fn,
					File:     loc[1],
					Line:     atoi(loc[2]),
					Column:   atoi(loc[3]),
				})
				i++
				continue
			}
		}

		// Bare file:line[:col].
		if loc := frameLocRe.FindStringSubmatch(line); loc != nil {
			f := StackFrame{
				Raw:    line,
				File:   loc[1],
				Line:   atoi(loc[2]),
				Column: atoi(loc[3]),
			}
			if strings.HasSuffix(loc[1], "_test.go") {
				f.Function = "(test)"
			}
			frames = append(frames, f)
			continue
		}

		// function@file:line[:col].
		if m := atFrameRe.FindStringSubmatch(trimmed); m != nil {
			frames = append(frames, StackFrame{
				Raw:      line,
				Function: m[1],
				File:     m[2],
				Line:     atoi(m[3]),
				Column:   atoi(m[4]),
			})
			continue
		}

		// Frame-like but unparseable: keep raw text.
		if strings.HasPrefix(line, "\t") || strings.HasPrefix(trimmed, "created by ") {
			frames = append(frames, StackFrame{Raw: line})
		}
	}
	return header, frames
}

func isHeaderLine(line string) bool {
	if goroutineHeaderRe.MatchString(line) {
		return true
	}
	if frameLocRe.MatchString(line) || atFrameRe.MatchString(strings.TrimSpace(line)) {
		return false
	}
	return strings.Contains(line, ": ") || strings.HasSuffix(line, ":")
}

func keepFrames(frames []StackFrame, drop []string) []StackFrame {
	kept := make([]StackFrame, 0, len(frames))
	for _, f := range frames {
		text := f.Raw + "\n" + f.Function
		matched := false
		for _, p := range drop {
			if strings.Contains(text, p) {
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, f)
		}
	}
	return kept
}

// reconstructStack joins the header with each surviving frame's raw text,
// every frame line indented by four spaces.
func reconstructStack(header string, frames []StackFrame) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(header)
	}
	for _, f := range frames {
		for _, line := range strings.Split(f.Raw, "\n") {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("    ")
			b.WriteString(strings.TrimLeft(line, " \t"))
		}
	}
	return b.String()
}

// captureRawStack renders the current goroutine's stack in traceback form,
// skipping the given number of frames beyond captureRawStack itself.
func captureRawStack(skip int) string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		fr, more := frames.Next()
		if fr.Function != "" {
			fmt.Fprintf(&b, "%s\n\t%s:%d\n", fr.Function, fr.File, fr.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}

// CaptureFilteredStackTrace captures the current stack, excluding its own
// frame, and filters it.
func CaptureFilteredStackTrace() *FilteredStackTrace {
	return FilterStackTrace(captureRawStack(1))
}

// CallerInfo is the parsed location of the first user frame.
type CallerInfo struct {
	File     string
	Line     int
	Function string
}

// GetCallerInfo returns the first surviving frame's parsed fields. When the
// primary path yields nothing, a fresh capture is re-filtered keeping
// everything except obvious self-references.
func GetCallerInfo() (CallerInfo, bool) {
	st := FilterStackTrace(captureRawStack(1))
	for _, f := range st.Frames {
		if f.File != "" || f.Function != "" {
			return CallerInfo{File: f.File, Line: f.Line, Function: f.Function}, true
		}
	}
	_, frames := parseStackFrames(captureRawStack(1))
	selfOnly := []string{"GetCallerInfo", "captureRawStack"}
	for _, f := range keepFrames(frames, selfOnly) {
		if f.File != "" || f.Function != "" {
			return CallerInfo{File: f.File, Line: f.Line, Function: f.Function}, true
		}
	}
	return CallerInfo{}, false
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
