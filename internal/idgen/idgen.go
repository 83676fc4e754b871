// Package idgen generates the opaque run identifiers stamped on reports and
// trace spans. It lives under internal because callers must not rely on the
// identifier format; the generator is a variable so tests can stub it.
package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier. Override in tests.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier as an opaque string.
func New() string { return NewFunc() }
