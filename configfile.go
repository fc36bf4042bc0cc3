package loggical

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileOptions is the YAML shape of a logging configuration section.
// Enum-valued fields use the same string grammar as the environment keys.
type fileOptions struct {
	Preset         string   `yaml:"preset"`
	Level          string   `yaml:"level"`
	Colors         string   `yaml:"colors"`
	Format         string   `yaml:"format"`
	Timestamps     *bool    `yaml:"timestamps"`
	ShortTimestamp *bool    `yaml:"short_timestamps"`
	MaxValueLength *int     `yaml:"max_value_length"`
	Symbols        *bool    `yaml:"symbols"`
	Separators     *bool    `yaml:"separators"`
	SpaceMessages  *bool    `yaml:"space_messages"`
	Redaction      *bool    `yaml:"redaction"`
	FatalExit      *bool    `yaml:"fatal_exit"`
	Prefix         []string `yaml:"prefix"`
	Namespace      string   `yaml:"namespace"`
}

// OptionsFromFile loads logger options from a YAML file. Unreadable files
// and malformed YAML are errors; individual enum values that fail to parse
// are omitted, matching the environment-variable behavior.
func OptionsFromFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("loggical: read config: %w", err)
	}
	var fo fileOptions
	if err := yaml.Unmarshal(data, &fo); err != nil {
		return Options{}, fmt.Errorf("loggical: parse config %s: %w", path, err)
	}

	o := Options{
		Preset:            fo.Preset,
		Prefix:            fo.Prefix,
		Namespace:         fo.Namespace,
		Timestamped:       fo.Timestamps,
		ShortTimestamp:    fo.ShortTimestamp,
		MaxValueLength:    fo.MaxValueLength,
		UseSymbols:        fo.Symbols,
		ShowSeparators:    fo.Separators,
		SpaceMessages:     fo.SpaceMessages,
		Redaction:         fo.Redaction,
		FatalExitsProcess: fo.FatalExit,
	}
	if lv, ok := ParseLevel(fo.Level); ok {
		o.MinLevel = &lv
	}
	if cl, ok := ParseColorLevel(fo.Colors); ok {
		o.ColorLevel = &cl
	}
	switch fo.Format {
	case "compact":
		o.CompactObjects = Ptr(true)
	case "pretty":
		o.CompactObjects = Ptr(false)
	}
	return o, nil
}
