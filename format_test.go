package loggical

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func plainConfig() Config {
	return Config{
		MinLevel:       LevelDebug,
		ColorLevel:     ColorNone,
		Timestamped:    true,
		ShortTimestamp: true,
		MaxValueLength: 500,
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	got := Truncate("this is a very long string", 10)
	assert.Equal(t, "this is...", got)
	assert.Len(t, got, 10)

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	t.Parallel()

	// 8 two-byte runes; the byte cut point lands mid-rune and must back up.
	got := Truncate("éééééééé", 10)
	assert.Equal(t, "ééé...", got)
	assert.True(t, utf8.ValidString(got))

	got = Truncate("日本語のログ", 8)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestPadNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "05", PadNumber(5, 2))
	assert.Equal(t, "-05", PadNumber(-5, 3))
	assert.Equal(t, "10", PadNumber(10, 1), "padding never truncates")
	assert.Equal(t, "000", PadNumber(0, 3))
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 9, 4, 5, 6, 78_000_000, time.UTC)
	short := formatTimestamp(at, true)
	want := fmt.Sprintf("%02d:%02d:%02d.%03d", at.Hour(), at.Minute(), at.Second(), 78)
	assert.Equal(t, want, short)

	assert.Equal(t, "2025-03-09T04:05:06.078Z", formatTimestamp(at, false))
}

func TestFormatLineAssembly(t *testing.T) {
	t.Parallel()

	cfg := plainConfig()
	at := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC)

	line := formatLine(cfg, LevelWarn, at, []string{"API", "AUTH"}, []any{"slow response"})
	assert.Contains(t, line, "WARN")
	assert.Contains(t, line, "[API:AUTH]")
	assert.Contains(t, line, "slow response")
	assert.Contains(t, line, formatTimestamp(at, true))

	cfg.Timestamped = false
	line = formatLine(cfg, LevelInfo, at, nil, []any{"x"})
	assert.Equal(t, "INFO x", line)

	cfg.CompactObjects = true
	line = formatLine(cfg, LevelWarn, at, nil, []any{"x"})
	assert.True(t, strings.HasPrefix(line, "WRN "), line)

	cfg.CompactObjects = false
	cfg.UseSymbols = true
	line = formatLine(cfg, LevelError, at, nil, []any{"x"})
	assert.True(t, strings.HasPrefix(line, LevelError.Symbol()), line)

	cfg.UseSymbols = false
	cfg.ShowSeparators = true
	line = formatLine(cfg, LevelInfo, at, nil, []any{"a", "b"})
	assert.Equal(t, "INFO | a | b", line)

	cfg.ShowSeparators = false
	cfg.SpaceMessages = true
	line = formatLine(cfg, LevelInfo, at, nil, []any{"x"})
	assert.True(t, strings.HasSuffix(line, "\n"), "spaced messages end with a blank line")
}

func TestFormatLineIdempotent(t *testing.T) {
	t.Parallel()

	cfg := plainConfig()
	at := time.Date(2025, 6, 1, 10, 20, 30, 0, time.UTC)
	msgs := []any{"msg", map[string]any{"b": 1, "a": "two", "c": []any{1, 2}}}

	first := formatLine(cfg, LevelInfo, at, []string{"DB"}, msgs)
	second := formatLine(cfg, LevelInfo, at, []string{"DB"}, msgs)
	assert.Equal(t, first, second)
}

func TestRenderObjects(t *testing.T) {
	t.Parallel()

	cfg := plainConfig()
	obj := map[string]any{"name": "svc", "port": 8080}

	pretty := formatMessage(obj, cfg, 0)
	assert.Contains(t, pretty, "{\n")
	assert.Contains(t, pretty, "  name: \"svc\"")
	assert.Contains(t, pretty, "  port: 8080")

	cfg.CompactObjects = true
	compact := formatMessage(obj, cfg, 0)
	assert.Equal(t, `{ name: "svc", port: 8080 }`, compact)

	assert.Equal(t, "[1, 2, 3]", formatMessage([]int{1, 2, 3}, cfg, 0))
	assert.Equal(t, "null", formatMessage(nil, cfg, 0))
	assert.Equal(t, "true", formatMessage(true, cfg, 0))
}

func TestFormatMessageIndent(t *testing.T) {
	t.Parallel()

	cfg := plainConfig()
	assert.Equal(t, "    x", formatMessage("x", cfg, 4))
}

func TestStringTruncationInMessages(t *testing.T) {
	t.Parallel()

	cfg := plainConfig()
	cfg.MaxValueLength = 10
	assert.Equal(t, "this is...", formatMessage("this is a very long string", cfg, 0))
}

type timeoutError struct {
	Op      string
	wrapped error
}

func (e *timeoutError) Error() string { return e.Op + " timed out" }
func (e *timeoutError) Unwrap() error { return e.wrapped }

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	cfg := plainConfig()
	root := errors.New("dial tcp: refused")
	err := &timeoutError{Op: "fetch", wrapped: root}

	out := formatMessage(err, cfg, 0)
	assert.Contains(t, out, "timeoutError")
	assert.Contains(t, out, "fetch timed out")
	assert.Contains(t, out, "Op: \"fetch\"")
	assert.Contains(t, out, "cause: ")
	assert.Contains(t, out, "dial tcp: refused")
	assert.NotEqual(t, "{}", out, "errors never render as an empty dump")

	cfg.CompactObjects = true
	compact := formatMessage(err, cfg, 0)
	assert.NotContains(t, compact, "\n")
	assert.Contains(t, compact, "(cause: ")
}

func TestColorNoneIsIdentity(t *testing.T) {
	t.Parallel()

	c := colorizer{mode: ColorNone}
	assert.Equal(t, "text", c.paint(ansiRed, "text"))
	assert.Equal(t, "text", c.dim("text"))
	assert.Equal(t, "50% of 10", c.enhance("50% of 10"))

	cfg := plainConfig()
	line := formatLine(cfg, LevelError, time.Now(), nil, []any{"http://a/b 10.0.0.1 42%"})
	assert.NotContains(t, line, "\x1b[", "ColorNone output must carry no escapes")
}

func TestEnhancedHighlighting(t *testing.T) {
	t.Parallel()

	c := colorizer{mode: ColorEnhanced}
	out := c.enhance("GET https://api.example.com/v1 from 10.0.0.1 took 42 ms (95%)")
	assert.Contains(t, out, ansiCyan+"https://api.example.com/v1"+ansiReset)
	assert.Contains(t, out, ansiCyan+"10.0.0.1"+ansiReset)
	assert.Contains(t, out, ansiGreen+"95%"+ansiReset)
	assert.Contains(t, out, ansiYellow+"42"+ansiReset)

	basic := colorizer{mode: ColorBasic}
	assert.Equal(t, "42", basic.enhance("42"), "basic color level adds no contextual highlighting")
}
