// Package report renders reconciliation results for humans: the four policy
// sets annotated with how many install locations back each entry, and a
// unified diff of the policy document when a sync changes it. Rendering is
// purely informational; it never influences control flow.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/scriptgate/policy"
	"github.com/viant/scriptgate/service/scanner"
)

// Render lists the reconciliation sets in a stable, lexicographic order.
func Render(result *policy.Result, inventory *scanner.Inventory) string {
	var b strings.Builder
	section(&b, "allowed", result.Allowed, inventory)
	section(&b, "disallowed", result.Disallowed, inventory)
	section(&b, "missing (no policy entry)", result.Missing, inventory)
	section(&b, "excess (stale policy entries)", result.Excess, inventory)
	if len(result.Malformed) > 0 {
		section(&b, "malformed (policy value is not a boolean)", result.Malformed, inventory)
	}
	return b.String()
}

func section(b *strings.Builder, title string, names []string, inventory *scanner.Inventory) {
	b.WriteString(title)
	b.WriteString(":\n")
	if len(names) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, name := range names {
		b.WriteString("  ")
		b.WriteString(name)
		if summary := locationSummary(inventory.Lookup(name)); summary != "" {
			b.WriteString(" ")
			b.WriteString(summary)
		}
		b.WriteString("\n")
	}
}

// locationSummary annotates a group with its location count and distinct
// versions so multi-location identities are visible to the operator. Entries
// without a current group (excess, or allowed-but-scriptless) get no
// annotation.
func locationSummary(group *scanner.Group) string {
	if group == nil {
		return ""
	}
	count := len(group.Locations)
	noun := "locations"
	if count == 1 {
		noun = "location"
	}
	versions := distinctVersions(group)
	if len(versions) == 0 {
		return fmt.Sprintf("[%v %v]", count, noun)
	}
	return fmt.Sprintf("[%v %v, version %v]", count, noun, strings.Join(versions, ", "))
}

// distinctVersions orders versions semantically when they parse as semver
// and lexicographically otherwise.
func distinctVersions(group *scanner.Group) []string {
	seen := map[string]bool{}
	var versions []string
	for _, location := range group.Locations {
		if location.Version == "" || seen[location.Version] {
			continue
		}
		seen[location.Version] = true
		versions = append(versions, location.Version)
	}
	sort.Slice(versions, func(i, j int) bool {
		left, leftErr := semver.NewVersion(versions[i])
		right, rightErr := semver.NewVersion(versions[j])
		if leftErr != nil || rightErr != nil {
			return versions[i] < versions[j]
		}
		return left.LessThan(right)
	})
	return versions
}

// PolicyDiff renders a unified diff between two policy states, keyed and
// formatted the way the manifest persists them. An empty string means no
// change.
func PolicyDiff(before, after policy.Policy) (string, error) {
	left, err := policyDocument(before)
	if err != nil {
		return "", err
	}
	right, err := policyDocument(after)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(left),
		B:        difflib.SplitLines(right),
		FromFile: "allowScripts",
		ToFile:   "allowScripts",
		Context:  3,
	})
}

func policyDocument(p policy.Policy) (string, error) {
	if p == nil {
		p = policy.Policy{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode policy: %w", err)
	}
	return string(data) + "\n", nil
}
