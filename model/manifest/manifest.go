// Package manifest models the package.json document of an installed package
// or of the top-level project, limited to the fields the gating engine reads
// or writes.
package manifest

import "github.com/viant/scriptgate/policy"

// PolicyKey is the manifest sub-object holding the persisted allow/deny
// policy: a flat mapping from qualified dependency name to boolean.
const PolicyKey = "allowScripts"

// InstallEvents are the dependency lifecycle events subject to gating, in
// mandatory execution order. A phase is drained across every allowed
// location before the next phase begins.
var InstallEvents = []string{"preinstall", "install", "postinstall"}

// ProjectEvents are the top-level project's own lifecycle events, run after
// all dependency gating completes, in this order. The project is implicitly
// trusted and never subject to the dependency policy.
var ProjectEvents = []string{"install", "postinstall", "prepublish", "prepare"}

// Manifest represents a package.json document.
type Manifest struct {
	Name                 string            `json:"name,omitempty"`
	Version              string            `json:"version,omitempty"`
	Scripts              map[string]string `json:"scripts,omitempty"`
	Dependencies         map[string]string `json:"dependencies,omitempty"`
	DevDependencies      map[string]string `json:"devDependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`
	AllowScripts         policy.Policy     `json:"allowScripts,omitempty"`
}

// HasInstallScript reports whether the manifest declares at least one of the
// gated install-time events. Other script names (test, build, ...) are
// irrelevant to gating.
func (m *Manifest) HasInstallScript() bool {
	if m == nil || len(m.Scripts) == 0 {
		return false
	}
	for _, event := range InstallEvents {
		if _, ok := m.Scripts[event]; ok {
			return true
		}
	}
	return false
}

// IsOptionalDependency reports whether the manifest lists name under
// optionalDependencies.
func (m *Manifest) IsOptionalDependency(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.OptionalDependencies[name]
	return ok
}
