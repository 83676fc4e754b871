package policy

import "sort"

// Policy maps a qualified dependency name to an allow/deny decision. It is
// persisted as a flat sub-object of the project manifest, therefore values
// are kept as raw JSON values: anything other than a boolean is a malformed
// entry that survives a load/store round-trip and is surfaced by Reconcile
// rather than silently coerced.
type Policy map[string]interface{}

// Allowed reports whether name carries an explicit boolean true entry. Any
// other state - absent, false, malformed - is not allowed.
func (p Policy) Allowed(name string) bool {
	value, ok := p[name]
	if !ok {
		return false
	}
	allowed, ok := value.(bool)
	return ok && allowed
}

// Names returns the policy keys in lexicographic order.
func (p Policy) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy; values are JSON scalars so a shallow copy is
// a full copy in practice.
func (p Policy) Clone() Policy {
	if p == nil {
		return nil
	}
	ret := make(Policy, len(p))
	for name, value := range p {
		ret[name] = value
	}
	return ret
}

// Apply folds a reconciliation result back into the policy: every missing
// identity is added with an explicit false entry (a new dependency's scripts
// are never auto-enabled) and every excess entry is removed outright. The
// receiver is not mutated; the updated copy and a change indicator are
// returned. Applying the result of an unchanged graph twice is a no-op.
func Apply(p Policy, result *Result) (Policy, bool) {
	if result == nil || (len(result.Missing) == 0 && len(result.Excess) == 0) {
		return p, false
	}
	updated := p.Clone()
	if updated == nil {
		updated = Policy{}
	}
	for _, name := range result.Missing {
		updated[name] = false
	}
	for _, name := range result.Excess {
		delete(updated, name)
	}
	return updated, true
}
