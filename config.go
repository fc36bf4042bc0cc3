package loggical

import "os"

// runtimeDefaults are the lowest-precedence option source.
func runtimeDefaults() Options {
	return Options{
		ColorLevel:        Ptr(DetectColorLevel(os.Stdout)),
		Timestamped:       Ptr(true),
		ShortTimestamp:    Ptr(true),
		CompactObjects:    Ptr(false),
		MaxValueLength:    Ptr(500),
		UseSymbols:        Ptr(false),
		ShowSeparators:    Ptr(false),
		SpaceMessages:     Ptr(false),
		Redaction:         Ptr(true),
		FatalExitsProcess: Ptr(true),
	}
}

// applyPreset layers the caller's explicit fields on top of the named
// preset's field set. An unknown preset name is treated as no preset.
func applyPreset(opts Options) Options {
	if opts.Preset == "" {
		return opts
	}
	base, ok := presets[opts.Preset]
	if !ok {
		return opts
	}
	merged := base
	overlay(&merged, opts)
	merged.Preset = ""
	return merged
}

// mergeConfiguration combines the three option sources with fixed
// precedence: programmatic > environment-derived > runtime defaults.
// The merge is a shallow left-to-right overlay, except minLevel, which uses
// an explicit fallback chain so an absent value never silently wins over a
// meaningful default.
func mergeConfiguration(programmatic, envDerived, defaults Options) Config {
	var merged Options
	overlay(&merged, defaults)
	overlay(&merged, envDerived)
	overlay(&merged, programmatic)

	min := LevelInfo
	if developmentMode() {
		min = LevelDebug
	}
	if envDerived.MinLevel != nil {
		min = *envDerived.MinLevel
	}
	if programmatic.MinLevel != nil {
		min = *programmatic.MinLevel
	}

	cfg := Config{
		MinLevel:          min,
		ColorLevel:        derefColor(merged.ColorLevel, ColorNone),
		Timestamped:       derefBool(merged.Timestamped, true),
		ShortTimestamp:    derefBool(merged.ShortTimestamp, true),
		CompactObjects:    derefBool(merged.CompactObjects, false),
		MaxValueLength:    derefInt(merged.MaxValueLength, 500),
		UseSymbols:        derefBool(merged.UseSymbols, false),
		ShowSeparators:    derefBool(merged.ShowSeparators, false),
		SpaceMessages:     derefBool(merged.SpaceMessages, false),
		Redaction:         derefBool(merged.Redaction, true),
		FatalExitsProcess: derefBool(merged.FatalExitsProcess, true),
		Namespace:         merged.Namespace,
	}
	cfg.Prefix = append([]string(nil), merged.Prefix...)
	return cfg
}

// processOptions is the full construction path: preset application, then
// the three-source merge.
func processOptions(opts, defaults Options) Config {
	return mergeConfiguration(applyPreset(opts), OptionsFromEnv(), defaults)
}

// overrideConfig layers per-call option overrides onto an existing resolved
// configuration, producing a new one. Used by derived loggers.
func overrideConfig(cfg Config, opts Options) Config {
	opts = applyPreset(opts)
	out := cfg
	if opts.MinLevel != nil {
		out.MinLevel = *opts.MinLevel
	}
	if opts.ColorLevel != nil {
		out.ColorLevel = *opts.ColorLevel
	}
	if opts.Timestamped != nil {
		out.Timestamped = *opts.Timestamped
	}
	if opts.ShortTimestamp != nil {
		out.ShortTimestamp = *opts.ShortTimestamp
	}
	if opts.CompactObjects != nil {
		out.CompactObjects = *opts.CompactObjects
	}
	if opts.MaxValueLength != nil {
		out.MaxValueLength = *opts.MaxValueLength
	}
	if opts.UseSymbols != nil {
		out.UseSymbols = *opts.UseSymbols
	}
	if opts.ShowSeparators != nil {
		out.ShowSeparators = *opts.ShowSeparators
	}
	if opts.SpaceMessages != nil {
		out.SpaceMessages = *opts.SpaceMessages
	}
	if opts.Redaction != nil {
		out.Redaction = *opts.Redaction
	}
	if opts.FatalExitsProcess != nil {
		out.FatalExitsProcess = *opts.FatalExitsProcess
	}
	if len(opts.Prefix) > 0 {
		out.Prefix = append([]string(nil), opts.Prefix...)
	} else {
		out.Prefix = append([]string(nil), cfg.Prefix...)
	}
	if opts.Namespace != "" {
		out.Namespace = opts.Namespace
	}
	return out
}

func derefBool(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

func derefInt(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func derefColor(p *ColorLevel, def ColorLevel) ColorLevel {
	if p != nil {
		return *p
	}
	return def
}
