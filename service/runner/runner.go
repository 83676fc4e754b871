// Package runner defines the process boundary for lifecycle script
// execution and provides a local shell implementation on top of viant/gosh.
// The engine only ever asks it to run one named event at one filesystem
// location; everything above this boundary is free of process mechanics.
package runner

import (
	"context"
	"fmt"
)

// Script describes one lifecycle command to execute.
type Script struct {
	// QualifiedName of the owning dependency, informational (error messages,
	// tracing). Empty for the top-level project's own events.
	QualifiedName string
	// Event is the lifecycle event name (preinstall, install, ...).
	Event string
	// Dir is the directory the command runs in.
	Dir string
	// Command is the shell command declared by the manifest.
	Command string
}

// Service executes lifecycle scripts as external processes. A failed
// invocation is signalled distinctly from an inability to invoke at all: the
// former yields a *ScriptError, the latter a plain error.
type Service interface {
	Run(ctx context.Context, script Script) error
	Close() error
}

// ScriptError reports a script that ran and exited with failure.
type ScriptError struct {
	Script Script
	Status int
	Output string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%v script failed at %v (exit %v): %v", e.Script.Event, e.Script.Dir, e.Status, e.Output)
}
