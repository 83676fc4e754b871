// Package tree loads the resolved dependency graph of a project. The
// preferred source is the package manager's lock file, which records every
// install location together with its optionality; when no lock file is
// present the loader falls back to walking node_modules directly and infers
// optionality from each parent manifest's optionalDependencies.
package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/scriptgate/model/graph"
	"github.com/viant/scriptgate/model/manifest"
	"github.com/viant/scriptgate/service/meta"
)

const (
	manifestFile = "package.json"
	lockFile     = "package-lock.json"
	modulesDir   = "node_modules"
)

// Service builds dependency trees rooted at a project directory.
type Service struct {
	meta *meta.Service
}

// New creates a tree loader backed by the supplied document service.
func New(metaService *meta.Service) *Service {
	return &Service{meta: metaService}
}

// Load returns the resolved dependency graph rooted at projectDir together
// with the project's own manifest. A missing or unparsable project manifest
// is fatal - there is nothing to gate without it.
func (s *Service) Load(ctx context.Context, projectDir string) (*graph.Tree, *manifest.Manifest, error) {
	var projectManifest manifest.Manifest
	if err := s.meta.Load(ctx, url.Join(projectDir, manifestFile), &projectManifest); err != nil {
		return nil, nil, fmt.Errorf("failed to load project manifest: %w", err)
	}

	root := &graph.Node{
		Name:    projectManifest.Name,
		Version: projectManifest.Version,
		Path:    projectDir,
	}
	tree := &graph.Tree{Root: root}

	var lock lockDocument
	err := s.meta.Load(ctx, url.Join(projectDir, lockFile), &lock)
	switch {
	case err == nil:
		root.Nodes = lock.nodes(projectDir)
	case errors.Is(err, meta.ErrNotFound):
		if root.Nodes, err = s.walkModules(ctx, projectDir, &projectManifest); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("failed to load lock file: %w", err)
	}
	return tree, &projectManifest, nil
}

// walkModules enumerates the packages installed under dir/node_modules,
// recursing into each package's own node_modules. A package directory
// without a readable manifest still yields a node - whether its absence is
// acceptable is the scanner's call, based on branch optionality.
func (s *Service) walkModules(ctx context.Context, dir string, parent *manifest.Manifest) ([]*graph.Node, error) {
	modulesURL := url.Join(dir, modulesDir)
	exists, err := s.meta.Exists(ctx, modulesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", modulesURL, err)
	}
	if !exists {
		return nil, nil
	}

	packageDirs, err := s.packageDirs(ctx, modulesURL)
	if err != nil {
		return nil, err
	}

	var nodes []*graph.Node
	for _, packageURL := range packageDirs {
		name := graph.QualifiedName(packageURL)
		node := &graph.Node{
			Name:     name,
			Path:     packageURL,
			Optional: parent.IsOptionalDependency(name),
		}
		var packageManifest manifest.Manifest
		switch err := s.meta.Load(ctx, url.Join(packageURL, manifestFile), &packageManifest); {
		case err == nil:
			node.Version = packageManifest.Version
			if node.Nodes, err = s.walkModules(ctx, packageURL, &packageManifest); err != nil {
				return nil, err
			}
		case errors.Is(err, meta.ErrNotFound):
			// Leave the node bare; the scanner resolves whether absence is legal.
		default:
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// packageDirs lists the package directories directly under a node_modules
// directory, expanding scope directories (@scope/*) one level.
func (s *Service) packageDirs(ctx context.Context, modulesURL string) ([]string, error) {
	objects, err := s.meta.List(ctx, modulesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", modulesURL, err)
	}
	var ret []string
	for _, object := range objects {
		if !object.IsDir() || isSelf(object.URL(), modulesURL) {
			continue
		}
		name := object.Name()
		if name == ".bin" || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasPrefix(name, "@") {
			scopeURL := url.Join(modulesURL, name)
			scoped, err := s.meta.List(ctx, scopeURL)
			if err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", scopeURL, err)
			}
			for _, candidate := range scoped {
				if !candidate.IsDir() || isSelf(candidate.URL(), scopeURL) {
					continue
				}
				ret = append(ret, url.Join(scopeURL, candidate.Name()))
			}
			continue
		}
		ret = append(ret, url.Join(modulesURL, name))
	}
	return ret, nil
}

func isSelf(candidateURL, listedURL string) bool {
	return strings.TrimSuffix(candidateURL, "/") == strings.TrimSuffix(listedURL, "/")
}
