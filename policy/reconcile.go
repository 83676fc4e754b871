package policy

import (
	"fmt"
	"sort"
	"strings"
)

// Result partitions the policy and the scanned script groups into the
// canonical reconciliation sets. The sets are conceptually unordered; they
// are materialised lexicographically sorted so reports and assertions are
// reproducible regardless of traversal order.
type Result struct {
	// Allowed holds policy entries with value true, whether or not the
	// identity currently has scripts.
	Allowed []string
	// Disallowed holds policy entries with value false.
	Disallowed []string
	// Missing holds identities that declare install scripts but have no
	// policy entry at all. Missing is never treated as allowed.
	Missing []string
	// Excess holds stale policy entries whose identity no longer declares
	// install scripts anywhere in the graph.
	Excess []string
	// Malformed holds policy entries whose value is not a boolean. They
	// contribute to neither Allowed nor Disallowed and, like Missing, block
	// execution until fixed.
	Malformed []string
}

// Actionable reports whether the result demands an operator decision before
// any script may run.
func (r *Result) Actionable() bool {
	return len(r.Missing) > 0 || len(r.Malformed) > 0
}

// Err returns an UnconfiguredError covering every unresolved entry, or nil
// when the policy fully covers the scanned graph. The error is built in one
// pass so the operator sees the complete picture at once.
func (r *Result) Err() error {
	if !r.Actionable() {
		return nil
	}
	return &UnconfiguredError{Missing: r.Missing, Malformed: r.Malformed}
}

// Reconcile compares the identities that declare install scripts (in scan
// order, duplicates tolerated) with the policy. Pure and deterministic.
func Reconcile(scanned []string, p Policy) *Result {
	present := make(map[string]bool, len(scanned))
	for _, name := range scanned {
		present[name] = true
	}

	result := &Result{}
	for name, value := range p {
		switch value := value.(type) {
		case bool:
			if value {
				result.Allowed = append(result.Allowed, name)
			} else {
				result.Disallowed = append(result.Disallowed, name)
			}
		default:
			result.Malformed = append(result.Malformed, name)
		}
		if !present[name] {
			result.Excess = append(result.Excess, name)
		}
	}
	for name := range present {
		if _, ok := p[name]; !ok {
			result.Missing = append(result.Missing, name)
		}
	}

	sort.Strings(result.Allowed)
	sort.Strings(result.Disallowed)
	sort.Strings(result.Missing)
	sort.Strings(result.Excess)
	sort.Strings(result.Malformed)
	return result
}

// UnconfiguredError signals that one or more dependencies declare install
// scripts without an explicit policy decision, or carry a malformed policy
// value. It is user-actionable: execution refuses to proceed and the
// operator has to update the policy (see Apply) before re-running.
type UnconfiguredError struct {
	Missing   []string
	Malformed []string
}

// Error lists every offending identity so a single run gives the operator
// the full set of decisions to make.
func (e *UnconfiguredError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing policy for: %v", strings.Join(e.Missing, ", ")))
	}
	if len(e.Malformed) > 0 {
		parts = append(parts, fmt.Sprintf("malformed policy value for: %v", strings.Join(e.Malformed, ", ")))
	}
	return "dependency scripts are not configured; " + strings.Join(parts, "; ")
}
