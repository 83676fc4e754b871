// Package meta provides filesystem access to the JSON and YAML documents the
// engine reads and writes (package manifests, lock files, configuration).
// All access goes through viant/afs so tests can substitute mem:// or
// embedded filesystems and callers can point the engine at any supported
// scheme.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// ErrNotFound distinguishes an absent document from other I/O failures;
// callers branch on it with errors.Is (an absent optional dependency is
// legitimate, an absent required one is not).
var ErrNotFound = errors.New("document not found")

// Service loads and stores structured documents relative to an optional
// base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a document service. baseURL may be empty, in which case every
// URL passed to Load/Store must be absolute.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// Resolve joins URL with the base URL unless it is already absolute.
func (s *Service) Resolve(URL string) string {
	if s.baseURL == "" || strings.Contains(URL, "://") || strings.HasPrefix(URL, "/") {
		return URL
	}
	return url.Join(s.baseURL, URL)
}

// Exists reports whether the document exists.
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.Resolve(URL), s.options...)
}

// Load reads the document at URL and decodes it into target, choosing the
// codec by extension (.yaml/.yml, otherwise JSON). An absent document yields
// an error wrapping ErrNotFound.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	resolved := s.Resolve(URL)
	exists, err := s.fs.Exists(ctx, resolved, s.options...)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", resolved, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", resolved, ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, resolved, s.options...)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", resolved, err)
	}
	switch strings.ToLower(path.Ext(resolved)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode %s: %w", resolved, err)
		}
	default:
		if err = json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode %s: %w", resolved, err)
		}
	}
	return nil
}

// Store encodes value by the URL's extension and writes it. JSON documents
// are written two-space indented with a trailing newline, matching the
// formatting package managers emit.
func (s *Service) Store(ctx context.Context, URL string, value interface{}) error {
	resolved := s.Resolve(URL)
	var data []byte
	var err error
	switch strings.ToLower(path.Ext(resolved)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(value)
	default:
		data, err = json.MarshalIndent(value, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", resolved, err)
	}
	if err = s.fs.Upload(ctx, resolved, file.DefaultFileOsMode, bytes.NewReader(data), s.options...); err != nil {
		return fmt.Errorf("failed to write %s: %w", resolved, err)
	}
	return nil
}

// List enumerates objects at URL.
func (s *Service) List(ctx context.Context, URL string, options ...storage.Option) ([]storage.Object, error) {
	return s.fs.List(ctx, s.Resolve(URL), append(append([]storage.Option{}, s.options...), options...)...)
}
