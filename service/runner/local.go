package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/gosh"
	grunner "github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
)

// Local runs lifecycle scripts through a local shell session. The session is
// created lazily on first use and reused afterwards; invocations are
// serialised - concurrent script execution is deliberately not supported,
// lifecycle scripts mutate shared filesystem state.
type Local struct {
	env       map[string]string
	timeoutMs int
	mux       sync.Mutex
	session   *gosh.Service
}

// Option customises the local runner.
type Option func(*Local)

// WithEnvironment sets extra environment variables for every script.
func WithEnvironment(env map[string]string) Option {
	return func(l *Local) { l.env = env }
}

// WithTimeoutMs bounds each script invocation; zero means unbounded (a hung
// script then blocks the run, which is the documented default).
func WithTimeoutMs(timeoutMs int) Option {
	return func(l *Local) { l.timeoutMs = timeoutMs }
}

// NewLocal creates a local shell runner.
func NewLocal(options ...Option) *Local {
	ret := &Local{}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Run executes the script's command in its directory, exporting
// npm_lifecycle_event the way package managers do. A non-zero exit aborts
// with *ScriptError carrying the captured output.
func (l *Local) Run(ctx context.Context, script Script) error {
	l.mux.Lock()
	defer l.mux.Unlock()

	session, err := l.ensureSession(ctx)
	if err != nil {
		return err
	}

	command := shellCommand(script)
	var options []grunner.Option
	if l.timeoutMs > 0 {
		options = append(options, grunner.WithTimeout(l.timeoutMs))
	}
	output, status, err := session.Run(ctx, command, options...)
	if err != nil {
		return fmt.Errorf("failed to run %v script at %v: %w", script.Event, script.Dir, err)
	}
	if status != 0 {
		return &ScriptError{Script: script, Status: status, Output: output}
	}
	return nil
}

// shellCommand builds the invocation line; the directory is quoted (install
// paths routinely contain spaces), the command itself is the manifest's own
// shell fragment and runs as written.
func shellCommand(script Script) string {
	return fmt.Sprintf("cd %q && npm_lifecycle_event=%s %s", script.Dir, script.Event, script.Command)
}

func (l *Local) ensureSession(ctx context.Context) (*gosh.Service, error) {
	if l.session != nil {
		return l.session, nil
	}
	var options []grunner.Option
	if len(l.env) > 0 {
		options = append(options, grunner.WithEnvironment(l.env))
	}
	session, err := gosh.New(ctx, local.New(options...))
	if err != nil {
		return nil, fmt.Errorf("failed to open shell session: %w", err)
	}
	l.session = session
	return session, nil
}

// Close releases the shell session.
func (l *Local) Close() error {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.session == nil {
		return nil
	}
	err := l.session.Close()
	l.session = nil
	return err
}
