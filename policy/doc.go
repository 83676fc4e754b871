// Package policy implements the allow/deny mapping that gates dependency
// lifecycle scripts, and the reconciliation of that mapping against the set
// of dependencies that actually declare such scripts.
//
// Reconciliation is pure and deterministic: it performs no I/O and yields
// the same result for the same inputs, so it can be tested and audited in
// isolation from the filesystem and from process execution. The security
// stance is default-deny throughout - a dependency absent from the policy is
// never treated as allowed.
package policy
