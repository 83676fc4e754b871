package graph

// Node is one installed package instance in the resolved dependency graph.
// Multiple nodes may share the same logical identity (the same package
// installed at several locations); they collapse to a single policy key but
// keep distinct install paths.
type Node struct {
	// Name is the package name declared by the resolver (may be empty when
	// the graph was built from a bare directory walk - the qualified name is
	// always derived from Path, never from this field).
	Name string `json:"name,omitempty"`

	// Version as recorded by the resolver (lock file or manifest).
	Version string `json:"version,omitempty"`

	// Path is the location of this installed instance.
	Path string `json:"path"`

	// Optional marks this node as an optional dependency of its parent.
	// Optionality of the whole resolution branch is evaluated via Branch.
	Optional bool `json:"optional,omitempty"`

	// Nodes holds dependencies installed under this node's own node_modules.
	Nodes []*Node `json:"nodes,omitempty"`
}

// Tree is the resolved dependency graph rooted at a project directory. The
// root node represents the project itself; only its descendants are subject
// to script gating.
type Tree struct {
	Root *Node `json:"root"`
}

// Branch is the resolution chain of a node, outermost ancestor first. The
// last element is the node itself.
type Branch []*Node

// Optional reports whether the node or any ancestor on its resolution branch
// is optional; such a branch may be legitimately absent from the install.
func (b Branch) Optional() bool {
	for _, node := range b {
		if node != nil && node.Optional {
			return true
		}
	}
	return false
}

// Each visits every dependency node exactly once, depth-first in insertion
// order, passing the node together with its resolution branch. The root node
// itself is not visited. Traversal stops at the first error.
func (t *Tree) Each(fn func(node *Node, branch Branch) error) error {
	if t == nil || t.Root == nil {
		return nil
	}
	return each(t.Root.Nodes, Branch{}, fn)
}

func each(nodes []*Node, ancestry Branch, fn func(node *Node, branch Branch) error) error {
	for _, node := range nodes {
		branch := append(append(Branch{}, ancestry...), node)
		if err := fn(node, branch); err != nil {
			return err
		}
		if err := each(node.Nodes, branch, fn); err != nil {
			return err
		}
	}
	return nil
}
