package loggical

import (
	"sort"
	"strings"
	"sync"
)

// NamespaceResolver supplies per-namespace minimum levels to a logger's
// gate. Supplied through Options; the logger never consults any global.
type NamespaceResolver interface {
	MinLevelFor(namespace string) (Level, bool)
}

// NamespaceRegistry is a constructible, owned registry of per-subsystem
// verbosity rules. Whoever composes the application owns it and passes it
// to the logger factories that need namespace-aware gating.
type NamespaceRegistry struct {
	mu    sync.RWMutex
	rules map[string]Level
}

func NewNamespaceRegistry() *NamespaceRegistry {
	return &NamespaceRegistry{rules: make(map[string]Level)}
}

// Set installs or replaces a rule. A pattern is either an exact namespace
// or a prefix ending in "*".
func (r *NamespaceRegistry) Set(pattern string, min Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[pattern] = min
}

// Remove deletes one rule.
func (r *NamespaceRegistry) Remove(pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, pattern)
}

// Clear deletes all rules.
func (r *NamespaceRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = make(map[string]Level)
}

// Rules returns a copy of the current rule set.
func (r *NamespaceRegistry) Rules() map[string]Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Level, len(r.rules))
	for k, v := range r.rules {
		out[k] = v
	}
	return out
}

// MinLevelFor resolves the minimum level for a namespace. An exact rule
// wins; otherwise the longest matching "*" prefix rule applies.
func (r *NamespaceRegistry) MinLevelFor(namespace string) (Level, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if min, ok := r.rules[namespace]; ok {
		return min, true
	}

	patterns := make([]string, 0, len(r.rules))
	for p := range r.rules {
		if strings.HasSuffix(p, "*") {
			patterns = append(patterns, p)
		}
	}
	// Longest prefix wins; sort so equal-length ties are deterministic.
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	for _, p := range patterns {
		if strings.HasPrefix(namespace, strings.TrimSuffix(p, "*")) {
			return r.rules[p], true
		}
	}
	return 0, false
}
