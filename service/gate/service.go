// Package gate drives the execution of allowed lifecycle scripts. The event
// order is fixed and phases never interleave: every preinstall across every
// allowed location completes before the first install begins, mirroring the
// package-manager convention and preventing ordering races between sibling
// phases. Execution is strictly sequential and aborts on the first failure -
// a failed hook can leave a dependency unusable for later steps, so there is
// no partial-success continuation.
package gate

import (
	"context"
	"fmt"

	"github.com/viant/scriptgate/model/manifest"
	"github.com/viant/scriptgate/service/runner"
	"github.com/viant/scriptgate/service/scanner"
)

// Project is the top-level project's always-trusted execution target. It is
// modelled separately from dependency locations on purpose: the operator's
// own scripts are never subject to the dependency policy.
type Project struct {
	Path    string
	Scripts map[string]string
}

// Service executes gated dependency scripts followed by the project's own
// lifecycle.
type Service struct {
	runner runner.Service
}

// New creates a gated executor on top of the given process runner.
func New(processRunner runner.Service) *Service {
	return &Service{runner: processRunner}
}

// Execute runs each install-time event, in order, across every location of
// every allowed identity, then the project's own lifecycle events at
// projectPath. With no allowed identities the dependency phases are skipped
// entirely but the project phase still runs.
func (s *Service) Execute(ctx context.Context, inventory *scanner.Inventory, allowed []string, project *Project) error {
	locations := inventory.Locations(allowed...)
	for _, event := range manifest.InstallEvents {
		for _, location := range locations {
			command, ok := location.Scripts[event]
			if !ok {
				continue
			}
			err := s.runner.Run(ctx, runner.Script{
				QualifiedName: location.QualifiedName,
				Event:         event,
				Dir:           location.Path,
				Command:       command,
			})
			if err != nil {
				return fmt.Errorf("failed %v for %v: %w", event, location.QualifiedName, err)
			}
		}
	}
	return s.executeProject(ctx, project)
}

func (s *Service) executeProject(ctx context.Context, project *Project) error {
	if project == nil {
		return nil
	}
	for _, event := range manifest.ProjectEvents {
		command, ok := project.Scripts[event]
		if !ok {
			continue
		}
		err := s.runner.Run(ctx, runner.Script{
			Event:   event,
			Dir:     project.Path,
			Command: command,
		})
		if err != nil {
			return fmt.Errorf("failed project %v: %w", event, err)
		}
	}
	return nil
}
