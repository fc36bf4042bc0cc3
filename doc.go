// Package loggical is a logging façade that formats, filters, and
// dispatches log lines to pluggable transports.
//
// A Logger holds an immutable resolved configuration and one method per
// severity level. Each call passes the level gate, renders a single line
// (timestamp, level indicator, prefix block, messages), and hands it to
// every registered transport in order, with per-transport filtering and
// error isolation: one failing transport never blocks the others and never
// throws into the caller.
//
// Configuration merges three sources with fixed precedence (programmatic
// options, then LOGGICAL_* environment variables, then runtime defaults),
// with named presets layered beneath explicit fields. Values under sensitive-looking
// keys are redacted before rendering, and error-tier calls capture a stack
// trace with the library's own frames filtered out.
package loggical
