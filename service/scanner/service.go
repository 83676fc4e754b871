// Package scanner walks a resolved dependency graph once and groups, by
// qualified name, every install location that declares at least one
// install-time lifecycle script. The result is accumulated internally and
// returned as a read-only inventory, so callers observe a single immutable
// snapshot rather than a structure mutated during traversal.
package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs/url"
	"github.com/viant/scriptgate/model/graph"
	"github.com/viant/scriptgate/model/manifest"
	"github.com/viant/scriptgate/service/meta"
)

const manifestFile = "package.json"

// Location is one install location of an identity with install-time scripts.
type Location struct {
	QualifiedName string
	Path          string
	Version       string
	Scripts       map[string]string
}

// Group collects every install location sharing a qualified name. Policy is
// written once per group; execution covers all of its locations.
type Group struct {
	Name      string
	Locations []Location
}

// Inventory is the scan result: script groups in traversal order.
type Inventory struct {
	groups []*Group
	index  map[string]*Group
}

// Groups returns the script groups in scan order.
func (i *Inventory) Groups() []*Group {
	return i.groups
}

// Names returns the qualified names in scan order.
func (i *Inventory) Names() []string {
	ret := make([]string, 0, len(i.groups))
	for _, group := range i.groups {
		ret = append(ret, group.Name)
	}
	return ret
}

// Lookup returns the group for a qualified name or nil.
func (i *Inventory) Lookup(name string) *Group {
	return i.index[name]
}

// Locations concatenates, in scan order, the locations of every group whose
// name is in names.
func (i *Inventory) Locations(names ...string) []Location {
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[name] = true
	}
	var ret []Location
	for _, group := range i.groups {
		if !selected[group.Name] {
			continue
		}
		ret = append(ret, group.Locations...)
	}
	return ret
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{index: make(map[string]*Group)}
}

// Add appends a location to its identity's group, creating the group on
// first sighting.
func (i *Inventory) Add(location Location) {
	if i.index == nil {
		i.index = make(map[string]*Group)
	}
	group, ok := i.index[location.QualifiedName]
	if !ok {
		group = &Group{Name: location.QualifiedName}
		i.index[location.QualifiedName] = group
		i.groups = append(i.groups, group)
	}
	group.Locations = append(group.Locations, location)
}

// CorruptManifestError is fatal: a required dependency whose manifest cannot
// be read or parsed indicates a corrupt install, not an expected condition.
type CorruptManifestError struct {
	Path string
	Err  error
}

func (e *CorruptManifestError) Error() string {
	return fmt.Sprintf("unreadable manifest for required dependency at %v: %v", e.Path, e.Err)
}

func (e *CorruptManifestError) Unwrap() error { return e.Err }

// Service scans dependency trees for install-time scripts.
type Service struct {
	meta *meta.Service
}

// New creates a scanner backed by the supplied document service.
func New(metaService *meta.Service) *Service {
	return &Service{meta: metaService}
}

// Scan visits every node exactly once. A missing manifest on an optional
// branch is skipped silently (platform-specific packages may legitimately be
// absent); on a required branch it aborts the scan with a
// CorruptManifestError. Nodes without install-time scripts are omitted.
func (s *Service) Scan(ctx context.Context, tree *graph.Tree) (*Inventory, error) {
	inventory := NewInventory()
	err := tree.Each(func(node *graph.Node, branch graph.Branch) error {
		var nodeManifest manifest.Manifest
		if err := s.meta.Load(ctx, url.Join(node.Path, manifestFile), &nodeManifest); err != nil {
			if errors.Is(err, meta.ErrNotFound) && branch.Optional() {
				return nil
			}
			return &CorruptManifestError{Path: node.Path, Err: err}
		}
		if !nodeManifest.HasInstallScript() {
			return nil
		}
		version := nodeManifest.Version
		if version == "" {
			version = node.Version
		}
		inventory.Add(Location{
			QualifiedName: node.QualifiedName(),
			Path:          node.Path,
			Version:       version,
			Scripts:       nodeManifest.Scripts,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inventory, nil
}
