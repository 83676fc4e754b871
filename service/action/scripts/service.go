// Package scripts exposes the gating engine's operations as a registrable
// action service, so embedding applications can drive them through the
// action registry with loosely-typed inputs.
package scripts

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/scriptgate/model/types"
	"github.com/viant/scriptgate/policy"
)

const name = "scripts"

// Engine is the operation surface this service adapts; the root scriptgate
// service implements it.
type Engine interface {
	// Run reconciles and, when the policy fully covers the graph, executes
	// allowed scripts followed by the project's own lifecycle.
	Run(ctx context.Context, projectDir string) (*policy.Result, error)
	// List reports the reconciliation result without mutating or executing.
	List(ctx context.Context, projectDir string) (string, error)
	// SetDefault folds missing/excess entries into the persisted policy.
	SetDefault(ctx context.Context, projectDir string) (string, error)
}

// Input addresses a project directory.
type Input struct {
	ProjectDir string `json:"projectDir"`
}

// RunOutput carries the reconciliation result of a run.
type RunOutput struct {
	Result *policy.Result `json:"result"`
}

// ListOutput carries the rendered report.
type ListOutput struct {
	Report string `json:"report"`
}

// AutoOutput carries the policy diff produced by a sync; empty means the
// policy was already in line with the graph.
type AutoOutput struct {
	Diff string `json:"diff"`
}

// Service adapts an Engine to the action-service contract.
type Service struct {
	engine Engine
}

// New creates the scripts action service.
func New(engine Engine) *Service {
	return &Service{engine: engine}
}

// Name returns the service name.
func (s *Service) Name() string {
	return name
}

// Methods returns the service method signatures.
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "run",
			Description: "Executes allowed dependency lifecycle scripts, then the project's own lifecycle; refuses when policy does not cover the graph.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&RunOutput{}),
		},
		{
			Name:        "list",
			Description: "Reports allowed, disallowed, missing and excess policy entries without executing anything.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&ListOutput{}),
		},
		{
			Name:        "auto",
			Description: "Adds missing entries as disallowed and removes stale ones, persisting the updated policy.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&AutoOutput{}),
		},
	}
}

// Method returns the named executable.
func (s *Service) Method(methodName string) (types.Executable, error) {
	switch strings.ToLower(methodName) {
	case "run":
		return s.run, nil
	case "list":
		return s.list, nil
	case "auto":
		return s.auto, nil
	default:
		return nil, types.NewMethodNotFoundError(methodName)
	}
}

func (s *Service) run(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*RunOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	result, err := s.engine.Run(ctx, input.ProjectDir)
	output.Result = result
	return err
}

func (s *Service) list(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ListOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	report, err := s.engine.List(ctx, input.ProjectDir)
	output.Report = report
	return err
}

func (s *Service) auto(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*AutoOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	diff, err := s.engine.SetDefault(ctx, input.ProjectDir)
	output.Diff = diff
	return err
}
