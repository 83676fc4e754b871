// Package scriptgate gates the execution of third-party install-time
// lifecycle scripts (preinstall, install, postinstall) behind an explicit
// allow/deny policy persisted in the project manifest.
//
// The engine reconciles the policy against the dependencies that actually
// declare such scripts, producing the allowed, disallowed, missing and
// excess sets, and executes only explicitly allowed hooks - a dependency
// without a policy entry is never run. The top-level project's own lifecycle
// always runs afterwards through a separate, trusted path.
//
// Scriptgate is designed to be embedded. Typical interaction goes through
// the root façade:
//
//	srv := scriptgate.New()
//	defer srv.Close()
//	if _, err := srv.Run(ctx, projectDir); err != nil {
//		var unconfigured *policy.UnconfiguredError
//		if errors.As(err, &unconfigured) {
//			// print report, ask the operator to decide, or srv.SetDefault(...)
//		}
//	}
//
// For more details see DESIGN.md and the individual sub-packages.
package scriptgate
