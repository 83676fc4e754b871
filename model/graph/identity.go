package graph

import "strings"

const modulesDir = "node_modules/"

// QualifiedName derives the canonical policy key for an install location. It
// is a pure function of the path's position in the graph: everything after
// the innermost node_modules segment, which is one path segment for a plain
// package ("left-pad") and two for a scoped one ("@babel/core"). All install
// locations of the same logical package therefore map to the same key, while
// distinct packages never collide.
//
// A path without a node_modules segment (a linked or top-level package)
// yields its last path segment, or the scope-qualified pair when the parent
// segment is a scope.
func QualifiedName(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	normalized = strings.TrimSuffix(normalized, "/")
	if idx := strings.LastIndex(normalized, modulesDir); idx != -1 {
		return packageName(normalized[idx+len(modulesDir):])
	}
	segments := strings.Split(normalized, "/")
	if len(segments) >= 2 && strings.HasPrefix(segments[len(segments)-2], "@") {
		return segments[len(segments)-2] + "/" + segments[len(segments)-1]
	}
	return segments[len(segments)-1]
}

// packageName reduces a node_modules-relative location to a package name,
// keeping the scope segment when present.
func packageName(relative string) string {
	segments := strings.Split(relative, "/")
	if strings.HasPrefix(segments[0], "@") && len(segments) > 1 {
		return segments[0] + "/" + segments[1]
	}
	return segments[0]
}

// QualifiedName returns the node's canonical policy key.
func (n *Node) QualifiedName() string {
	return QualifiedName(n.Path)
}
