package scriptgate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	_ "github.com/viant/afs/mem"
	"github.com/viant/scriptgate/policy"
	ascripts "github.com/viant/scriptgate/service/action/scripts"
	"github.com/viant/scriptgate/service/meta"
	"github.com/viant/scriptgate/service/runner"
)

type recordingRunner struct {
	invocations []string
	failEvent   string
}

func (r *recordingRunner) Run(_ context.Context, script runner.Script) error {
	r.invocations = append(r.invocations, fmt.Sprintf("%v:%v", script.Event, script.Command))
	if r.failEvent != "" && script.Event == r.failEvent {
		return &runner.ScriptError{Script: script, Status: 1, Output: "failed"}
	}
	return nil
}

func (r *recordingRunner) Close() error { return nil }

func newProject(t *testing.T, name string, documents map[string]interface{}) (string, *meta.Service) {
	ctx := context.Background()
	metaService := meta.New(afs.New(), "")
	projectDir := "mem://localhost/" + name
	for location, value := range documents {
		if err := metaService.Store(ctx, projectDir+location, value); err != nil {
			t.Fatalf("failed to store %v: %v", location, err)
		}
	}
	return projectDir, metaService
}

func TestService_Run_RefusesUnconfigured(t *testing.T) {
	projectDir, metaService := newProject(t, "unconfigured", map[string]interface{}{
		"/package.json": map[string]interface{}{
			"name":    "app",
			"scripts": map[string]string{"postinstall": "echo project"},
		},
		"/node_modules/left-pad/package.json": map[string]interface{}{
			"name":    "left-pad",
			"version": "1.3.0",
			"scripts": map[string]string{"postinstall": "node build.js"},
		},
	})
	record := &recordingRunner{}
	srv := New(WithMetaService(metaService), WithRunner(record))

	result, err := srv.Run(context.Background(), projectDir)
	assert.Error(t, err)
	var unconfigured *policy.UnconfiguredError
	assert.True(t, errors.As(err, &unconfigured))
	assert.Equal(t, []string{"left-pad"}, result.Missing)
	assert.Empty(t, record.invocations, "no script may run while policy is incomplete, project lifecycle included")
}

func TestService_Run_ExecutesAllowed(t *testing.T) {
	projectDir, metaService := newProject(t, "allowed", map[string]interface{}{
		"/package.json": map[string]interface{}{
			"name": "app",
			"scripts": map[string]string{
				"postinstall": "echo project-post",
				"prepare":     "echo project-prepare",
				"test":        "jest",
			},
			"allowScripts": map[string]interface{}{
				"left-pad": true,
				"esbuild":  false,
			},
		},
		"/node_modules/left-pad/package.json": map[string]interface{}{
			"name":    "left-pad",
			"version": "1.3.0",
			"scripts": map[string]string{
				"preinstall":  "echo pre",
				"postinstall": "echo post",
			},
		},
		"/node_modules/esbuild/package.json": map[string]interface{}{
			"name":    "esbuild",
			"version": "0.19.0",
			"scripts": map[string]string{"install": "node install.js"},
		},
	})
	record := &recordingRunner{}
	srv := New(WithMetaService(metaService), WithRunner(record))

	result, err := srv.Run(context.Background(), projectDir)
	assert.NoError(t, err)
	assert.Equal(t, []string{"left-pad"}, result.Allowed)
	assert.Equal(t, []string{"esbuild"}, result.Disallowed)
	assert.Equal(t, []string{
		"preinstall:echo pre",
		"postinstall:echo post",
		// project lifecycle runs last, through the trusted path
		"postinstall:echo project-post",
		"prepare:echo project-prepare",
	}, record.invocations, "declared events only, fixed order; disallowed identity skipped")
}

func TestService_Run_ExcessDoesNotBlock(t *testing.T) {
	projectDir, metaService := newProject(t, "excess", map[string]interface{}{
		"/package.json": map[string]interface{}{
			"name":         "app",
			"allowScripts": map[string]interface{}{"old-dep": true},
		},
	})
	record := &recordingRunner{}
	srv := New(WithMetaService(metaService), WithRunner(record))

	result, err := srv.Run(context.Background(), projectDir)
	assert.NoError(t, err)
	assert.Equal(t, []string{"old-dep"}, result.Excess)
	assert.Empty(t, record.invocations, "nothing installed declares scripts and the project has none")
}

func TestService_Run_MalformedBlocks(t *testing.T) {
	projectDir, metaService := newProject(t, "malformed", map[string]interface{}{
		"/package.json": map[string]interface{}{
			"name":         "app",
			"allowScripts": map[string]interface{}{"fsevents": "yes"},
		},
		"/node_modules/fsevents/package.json": map[string]interface{}{
			"name":    "fsevents",
			"scripts": map[string]string{"install": "node setup.js"},
		},
	})
	record := &recordingRunner{}
	srv := New(WithMetaService(metaService), WithRunner(record))

	result, err := srv.Run(context.Background(), projectDir)
	assert.Error(t, err)
	assert.Equal(t, []string{"fsevents"}, result.Malformed)
	assert.Empty(t, record.invocations)
}

func TestService_Run_ScriptFailureAborts(t *testing.T) {
	projectDir, metaService := newProject(t, "failure", map[string]interface{}{
		"/package.json": map[string]interface{}{
			"name":         "app",
			"scripts":      map[string]string{"postinstall": "echo never"},
			"allowScripts": map[string]interface{}{"dep": true},
		},
		"/node_modules/dep/package.json": map[string]interface{}{
			"name":    "dep",
			"scripts": map[string]string{"preinstall": "exit 1"},
		},
	})
	record := &recordingRunner{failEvent: "preinstall"}
	srv := New(WithMetaService(metaService), WithRunner(record))

	_, err := srv.Run(context.Background(), projectDir)
	assert.Error(t, err)
	var scriptErr *runner.ScriptError
	assert.True(t, errors.As(err, &scriptErr))
	assert.Len(t, record.invocations, 1, "no continuation past the first failure")
}

func TestService_SetDefault(t *testing.T) {
	projectDir, metaService := newProject(t, "sync", map[string]interface{}{
		"/package.json": map[string]interface{}{
			"name":         "app",
			"description":  "kept as is",
			"allowScripts": map[string]interface{}{"stale": false},
		},
		"/node_modules/fresh/package.json": map[string]interface{}{
			"name":    "fresh",
			"scripts": map[string]string{"postinstall": "node build.js"},
		},
	})
	srv := New(WithMetaService(metaService), WithRunner(&recordingRunner{}))
	ctx := context.Background()

	diff, err := srv.SetDefault(ctx, projectDir)
	assert.NoError(t, err)
	assert.Contains(t, diff, `+  "fresh": false`)
	assert.Contains(t, diff, `-  "stale": false`)

	// Persisted with other manifest fields preserved.
	var document map[string]interface{}
	assert.NoError(t, metaService.Load(ctx, projectDir+"/package.json", &document))
	assert.Equal(t, "kept as is", document["description"])
	assert.EqualValues(t, map[string]interface{}{"fresh": false}, document["allowScripts"])

	// Idempotent: a second sync with an unchanged graph is a no-op.
	diff, err = srv.SetDefault(ctx, projectDir)
	assert.NoError(t, err)
	assert.Empty(t, diff)

	// The synced default is deny: run now proceeds but executes nothing.
	record := &recordingRunner{}
	srv = New(WithMetaService(metaService), WithRunner(record))
	result, err := srv.Run(ctx, projectDir)
	assert.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, result.Disallowed)
	assert.Empty(t, record.invocations)
}

func TestService_List(t *testing.T) {
	projectDir, metaService := newProject(t, "list", map[string]interface{}{
		"/package.json": map[string]interface{}{
			"name":         "app",
			"allowScripts": map[string]interface{}{"dep": true},
		},
		"/node_modules/dep/package.json": map[string]interface{}{
			"name":    "dep",
			"version": "2.0.0",
			"scripts": map[string]string{"install": "make"},
		},
	})
	srv := New(WithMetaService(metaService), WithRunner(&recordingRunner{}))

	listing, err := srv.List(context.Background(), projectDir)
	assert.NoError(t, err)
	assert.Contains(t, listing, "allowed:")
	assert.Contains(t, listing, "dep [1 location, version 2.0.0]")
}

func TestService_Invoke(t *testing.T) {
	projectDir, metaService := newProject(t, "invoke", map[string]interface{}{
		"/package.json": map[string]interface{}{"name": "app"},
	})
	srv := New(WithMetaService(metaService), WithRunner(&recordingRunner{}))

	// loosely-typed input goes through the converter
	output, err := srv.Invoke(context.Background(), "scripts.list",
		map[string]interface{}{"projectDir": projectDir})
	assert.NoError(t, err)
	listing, ok := output.(*ascripts.ListOutput)
	assert.True(t, ok)
	assert.Contains(t, listing.Report, "missing (no policy entry):")

	_, err = srv.Invoke(context.Background(), "scripts.unknown", nil)
	assert.Error(t, err)
}
