package tree

import (
	"sort"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/scriptgate/model/graph"
)

// lockDocument is the subset of a v2/v3 package-lock.json the loader needs:
// the packages map keys every install location relative to the project root
// ("node_modules/a/node_modules/b") and flags optional branches.
type lockDocument struct {
	LockfileVersion int                  `json:"lockfileVersion"`
	Packages        map[string]lockEntry `json:"packages"`
}

type lockEntry struct {
	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
	DevOptional bool   `json:"devOptional,omitempty"`
	Link        bool   `json:"link,omitempty"`
}

// nodes materialises the packages map into a nested node list rooted at
// projectDir. Keys are processed in lexicographic order, which places every
// parent location before its nested installs, so each node can be attached
// in a single pass. The "" entry (the project itself) and workspace links
// are not dependency installs and are skipped.
func (l *lockDocument) nodes(projectDir string) []*graph.Node {
	keys := make([]string, 0, len(l.Packages))
	for key := range l.Packages {
		if key == "" || !strings.Contains(key, modulesDir+"/") {
			continue
		}
		if l.Packages[key].Link {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var roots []*graph.Node
	byKey := make(map[string]*graph.Node, len(keys))
	for _, key := range keys {
		entry := l.Packages[key]
		name := entry.Name
		if name == "" {
			name = graph.QualifiedName(key)
		}
		node := &graph.Node{
			Name:     name,
			Version:  entry.Version,
			Path:     url.Join(projectDir, key),
			Optional: entry.Optional || entry.DevOptional,
		}
		byKey[key] = node
		if parent, ok := byKey[parentKey(key)]; ok {
			parent.Nodes = append(parent.Nodes, node)
			continue
		}
		roots = append(roots, node)
	}
	return roots
}

// parentKey strips the trailing node_modules segment, yielding the lock key
// of the enclosing install ("" for top-level installs).
func parentKey(key string) string {
	idx := strings.LastIndex(key, modulesDir+"/")
	if idx <= 0 {
		return ""
	}
	return strings.TrimSuffix(key[:idx], "/")
}
