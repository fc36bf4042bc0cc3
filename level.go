package loggical

import "strings"

// Level is the ordered severity scale. Comparisons are plain numeric >=
// against a configured minimum.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelHighlight
	LevelFatal
)

var (
	levelNames   = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "HIGHLIGHT", "FATAL"}
	levelCodes   = [...]string{"DBG", "INF", "WRN", "ERR", "HLT", "FTL"}
	levelSymbols = [...]string{"🔍", "ℹ️", "⚠️", "❌", "✨", "💀"}
)

// String returns the full level label.
func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// Compact returns the fixed 3-letter code used in compact mode.
func (l Level) Compact() string {
	if l >= 0 && int(l) < len(levelCodes) {
		return levelCodes[l]
	}
	return "UNK"
}

// Symbol returns the emoji indicator for the level.
func (l Level) Symbol() string {
	if l >= 0 && int(l) < len(levelSymbols) {
		return levelSymbols[l]
	}
	return "•"
}

// Enabled reports whether a message at this level passes the given minimum.
func (l Level) Enabled(min Level) bool { return l >= min }

// errorTier reports whether the level triggers stack capture. Highlight sits
// above Error numerically but is not an error.
func (l Level) errorTier() bool { return l == LevelError || l == LevelFatal }

// ParseLevel parses a level name. Matching is case-insensitive and exact:
// no whitespace tolerance, no abbreviations.
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), true
		}
	}
	return 0, false
}

// ColorLevel is the three-tier color capability: none, flat colors, or flat
// colors plus contextual highlighting.
type ColorLevel int

const (
	ColorNone ColorLevel = iota
	ColorBasic
	ColorEnhanced
)

var colorLevelNames = [...]string{"NONE", "BASIC", "ENHANCED"}

func (c ColorLevel) String() string {
	if c >= 0 && int(c) < len(colorLevelNames) {
		return colorLevelNames[c]
	}
	return "UNKNOWN"
}

// ParseColorLevel parses a color level name, case-insensitively.
func ParseColorLevel(s string) (ColorLevel, bool) {
	for i, name := range colorLevelNames {
		if strings.EqualFold(s, name) {
			return ColorLevel(i), true
		}
	}
	return 0, false
}
