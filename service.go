package scriptgate

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/scriptgate/extension"
	"github.com/viant/scriptgate/internal/clock"
	"github.com/viant/scriptgate/internal/idgen"
	"github.com/viant/scriptgate/model/manifest"
	"github.com/viant/scriptgate/model/types"
	"github.com/viant/scriptgate/policy"
	ascripts "github.com/viant/scriptgate/service/action/scripts"
	"github.com/viant/scriptgate/service/dao/tree"
	"github.com/viant/scriptgate/service/gate"
	"github.com/viant/scriptgate/service/invoker"
	"github.com/viant/scriptgate/service/meta"
	"github.com/viant/scriptgate/service/report"
	"github.com/viant/scriptgate/service/runner"
	"github.com/viant/scriptgate/service/scanner"
	"github.com/viant/scriptgate/tracing"
	"github.com/viant/x"
)

// Service is the engine façade: it wires the tree loader, scanner, policy
// reconciler and gated executor, and exposes the three operations an
// embedding caller (for example a CLI layer) drives.
type Service struct {
	config            *Config
	metaService       *meta.Service
	metaBaseURL       string
	metaFsOptions     []storage.Option
	treeService       *tree.Service
	scanService       *scanner.Service
	gateService       *gate.Service
	runner            runner.Service
	actions           *extension.Actions
	invoker           *invoker.Service
	extensionTypes    []*x.Type
	extensionServices []types.Service
}

// New creates a scriptgate service.
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	s.actions = extension.NewActions(s.extensionTypes...)
	s.actions.Types().Register(x.NewType(reflect.TypeOf(ascripts.Input{})))
	s.actions.Types().Register(x.NewType(reflect.TypeOf(ascripts.RunOutput{})))
	s.actions.Types().Register(x.NewType(reflect.TypeOf(ascripts.ListOutput{})))
	s.actions.Types().Register(x.NewType(reflect.TypeOf(ascripts.AutoOutput{})))
	s.invoker = invoker.New(s.actions)
	s.actions.Register(ascripts.New(s))
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.runner == nil {
		s.runner = runner.NewLocal(
			runner.WithTimeoutMs(s.config.Runner.TimeoutMs),
			runner.WithEnvironment(s.config.Runner.Env))
	}
	s.treeService = tree.New(s.metaService)
	s.scanService = scanner.New(s.metaService)
	s.gateService = gate.New(s.runner)
}

// Actions returns the action registry, letting embedders register their own
// services next to the built-in ones.
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Invoke dispatches a registered action ("service.method") with a
// loosely-typed input.
func (s *Service) Invoke(ctx context.Context, action string, input interface{}) (interface{}, error) {
	return s.invoker.Invoke(ctx, action, input)
}

// Run reconciles policy against the project's dependency graph and, when the
// policy fully covers it, executes every allowed install-time script in
// event order followed by the project's own lifecycle. When any dependency
// is unconfigured (or carries a malformed policy value), Run returns the
// result together with a *policy.UnconfiguredError and executes nothing.
func (s *Service) Run(ctx context.Context, projectDir string) (result *policy.Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "scriptgate.run")
	span.WithAttributes(map[string]string{"run.id": idgen.New(), "project.dir": projectDir})
	defer func() { tracing.EndSpan(span, err) }()

	inventory, projectManifest, result, err := s.reconcile(ctx, projectDir)
	if err != nil {
		return nil, err
	}
	if err = result.Err(); err != nil {
		// Unconfigured dependencies: refuse before any script runs.
		return result, err
	}

	execCtx, execSpan := tracing.StartSpan(ctx, "scriptgate.execute")
	execSpan.WithAttributes(map[string]string{
		"allowed.count": fmt.Sprintf("%d", len(result.Allowed)),
	})
	err = s.gateService.Execute(execCtx, inventory, result.Allowed, &gate.Project{
		Path:    projectDir,
		Scripts: projectManifest.Scripts,
	})
	tracing.EndSpan(execSpan, err)
	return result, err
}

// List renders the reconciliation report; no mutation, no execution.
func (s *Service) List(ctx context.Context, projectDir string) (string, error) {
	inventory, _, result, err := s.reconcile(ctx, projectDir)
	if err != nil {
		return "", err
	}
	header := fmt.Sprintf("project %v scanned at %v\n\n", projectDir, clock.Now().Format(time.RFC3339))
	return header + report.Render(result, inventory), nil
}

// SetDefault folds the reconciliation result back into the persisted policy:
// missing identities are added as disallowed, stale entries removed. It
// returns a unified diff of the change, or an empty string when the policy
// already covered the graph (in which case nothing is written).
func (s *Service) SetDefault(ctx context.Context, projectDir string) (diff string, err error) {
	ctx, span := tracing.StartSpan(ctx, "scriptgate.setDefault")
	defer func() { tracing.EndSpan(span, err) }()

	_, projectManifest, result, err := s.reconcile(ctx, projectDir)
	if err != nil {
		return "", err
	}
	updated, changed := policy.Apply(projectManifest.AllowScripts, result)
	if !changed {
		return "", nil
	}
	if diff, err = report.PolicyDiff(projectManifest.AllowScripts, updated); err != nil {
		return "", err
	}
	if err = s.storePolicy(ctx, projectDir, updated); err != nil {
		return "", err
	}
	return diff, nil
}

// Close releases the process runner's resources.
func (s *Service) Close() error {
	if s.runner == nil {
		return nil
	}
	return s.runner.Close()
}

// reconcile loads the tree, scans it and reconciles the policy; it is the
// shared, side-effect-free front half of every operation.
func (s *Service) reconcile(ctx context.Context, projectDir string) (*scanner.Inventory, *manifest.Manifest, *policy.Result, error) {
	loadCtx, loadSpan := tracing.StartSpan(ctx, "scriptgate.load")
	dependencyTree, projectManifest, err := s.treeService.Load(loadCtx, projectDir)
	tracing.EndSpan(loadSpan, err)
	if err != nil {
		return nil, nil, nil, err
	}

	scanCtx, scanSpan := tracing.StartSpan(ctx, "scriptgate.scan")
	inventory, err := s.scanService.Scan(scanCtx, dependencyTree)
	tracing.EndSpan(scanSpan, err)
	if err != nil {
		return nil, nil, nil, err
	}

	result := policy.Reconcile(inventory.Names(), projectManifest.AllowScripts)
	return inventory, projectManifest, result, nil
}

// storePolicy rewrites the manifest's policy sub-object while leaving every
// other manifest field untouched.
func (s *Service) storePolicy(ctx context.Context, projectDir string, updated policy.Policy) error {
	manifestURL := url.Join(projectDir, "package.json")
	var document map[string]interface{}
	if err := s.metaService.Load(ctx, manifestURL, &document); err != nil {
		return err
	}
	document[manifest.PolicyKey] = map[string]interface{}(updated)
	return s.metaService.Store(ctx, manifestURL, document)
}
