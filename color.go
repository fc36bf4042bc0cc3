package loggical

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset     = "\x1b[0m"
	ansiDim       = "\x1b[2m"
	ansiRed       = "\x1b[31m"
	ansiGreen     = "\x1b[32m"
	ansiYellow    = "\x1b[33m"
	ansiMagenta   = "\x1b[35m"
	ansiCyan      = "\x1b[36m"
	ansiGray      = "\x1b[90m"
	ansiBoldRed   = "\x1b[1;31m"
	ansiBoldMagen = "\x1b[1;35m"
)

var levelColorCodes = [...]string{
	LevelDebug:     ansiGray,
	LevelInfo:      ansiCyan,
	LevelWarn:      ansiYellow,
	LevelError:     ansiRed,
	LevelHighlight: ansiBoldMagen,
	LevelFatal:     ansiBoldRed,
}

// colorizer applies ANSI styling according to a ColorLevel. At ColorNone
// every method is the identity, regardless of ambient terminal state.
type colorizer struct {
	mode ColorLevel
}

func (c colorizer) paint(code, s string) string {
	if c.mode == ColorNone || code == "" || s == "" {
		return s
	}
	return code + s + ansiReset
}

func (c colorizer) dim(s string) string { return c.paint(ansiDim, s) }

func (c colorizer) level(lv Level, s string) string {
	if lv < 0 || int(lv) >= len(levelColorCodes) {
		return s
	}
	return c.paint(levelColorCodes[lv], s)
}

// highlightPattern is a single composite expression; at each position the
// first alternative that matches wins. Order: URL, IPv4, path, percentage,
// decimal, bare integer.
var highlightPattern = regexp.MustCompile(
	`(https?://[^\s]+)` +
		`|((?:\d{1,3}\.){3}\d{1,3})` +
		`|((?:/[\w.\-]+){2,}/?)` +
		`|(\d+(?:\.\d+)?%)` +
		`|(\d+\.\d+)` +
		`|(\d+)`)

// enhance applies contextual highlighting to already-rendered text.
// Only active at ColorEnhanced.
func (c colorizer) enhance(s string) string {
	if c.mode != ColorEnhanced {
		return s
	}
	matches := highlightPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(matches)*10)
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		seg := s[m[0]:m[1]]
		switch {
		case m[2] >= 0, m[4] >= 0: // URL or IPv4
			b.WriteString(ansiCyan + seg + ansiReset)
		case m[6] >= 0: // file-like path
			b.WriteString(ansiDim + seg + ansiReset)
		case m[8] >= 0: // percentage
			b.WriteString(ansiGreen + seg + ansiReset)
		default: // number
			b.WriteString(ansiYellow + seg + ansiReset)
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// DetectColorLevel inspects the writer and ambient environment and returns
// the color capability to use. NO_COLOR always wins; FORCE_COLOR overrides
// terminal detection; non-terminal writers get no color.
func DetectColorLevel(w io.Writer) ColorLevel {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return ColorNone
	}
	if v, ok := os.LookupEnv("FORCE_COLOR"); ok {
		if v == "0" {
			return ColorNone
		}
		return ColorEnhanced
	}
	f, ok := w.(*os.File)
	if !ok {
		return ColorNone
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return ColorNone
	}
	if os.Getenv("TERM") == "dumb" {
		return ColorNone
	}
	if os.Getenv("CI") != "" {
		return ColorBasic
	}
	return ColorEnhanced
}
