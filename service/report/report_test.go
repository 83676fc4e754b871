package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/scriptgate/policy"
	"github.com/viant/scriptgate/service/scanner"
)

func TestRender(t *testing.T) {
	inventory := scanner.NewInventory()
	inventory.Add(scanner.Location{QualifiedName: "esbuild", Path: "/p/node_modules/esbuild", Version: "0.19.0"})
	inventory.Add(scanner.Location{QualifiedName: "dup", Path: "/p/node_modules/dup", Version: "10.0.0"})
	inventory.Add(scanner.Location{QualifiedName: "dup", Path: "/p/node_modules/h/node_modules/dup", Version: "9.1.0"})
	inventory.Add(scanner.Location{QualifiedName: "left-pad", Path: "/p/node_modules/left-pad", Version: "1.3.0"})

	result := &policy.Result{
		Allowed:    []string{"esbuild"},
		Disallowed: []string{"dup"},
		Missing:    []string{"left-pad"},
		Excess:     []string{"old-dep"},
	}

	rendered := Render(result, inventory)
	assert.Contains(t, rendered, "esbuild [1 location, version 0.19.0]")
	assert.Contains(t, rendered, "dup [2 locations, version 9.1.0, 10.0.0]", "semver order, not lexicographic")
	assert.Contains(t, rendered, "left-pad [1 location, version 1.3.0]")
	assert.Contains(t, rendered, "old-dep\n", "excess entries carry no annotation")
	assert.NotContains(t, rendered, "malformed", "malformed section omitted when empty")
}

func TestRender_Empty(t *testing.T) {
	rendered := Render(&policy.Result{}, scanner.NewInventory())
	assert.Equal(t, 4, strings.Count(rendered, "(none)"))
}

func TestRender_Malformed(t *testing.T) {
	rendered := Render(&policy.Result{Malformed: []string{"fsevents"}}, scanner.NewInventory())
	assert.Contains(t, rendered, "malformed")
	assert.Contains(t, rendered, "fsevents")
}

func TestPolicyDiff(t *testing.T) {
	before := policy.Policy{"keep": true, "stale": false}
	after := policy.Policy{"keep": true, "fresh": false}

	diff, err := PolicyDiff(before, after)
	assert.NoError(t, err)
	assert.Contains(t, diff, `+  "fresh": false`)
	assert.Contains(t, diff, `-  "stale": false`)

	same, err := PolicyDiff(before, before.Clone())
	assert.NoError(t, err)
	assert.Empty(t, same)
}
