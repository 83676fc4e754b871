package scriptgate

import (
	"github.com/viant/afs/storage"
	"github.com/viant/scriptgate/model/types"
	"github.com/viant/scriptgate/service/meta"
	"github.com/viant/scriptgate/service/runner"
	"github.com/viant/x"
)

// Option customises the scriptgate service.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithMetaService sets the document service used for manifests, lock files
// and policy persistence.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.metaService = service }
}

// WithMetaBaseURL sets the base URL the default document service resolves
// relative locations against.
func WithMetaBaseURL(baseURL string) Option {
	return func(s *Service) { s.metaBaseURL = baseURL }
}

// WithMetaFsOptions sets storage options for the default document service.
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.metaFsOptions = options }
}

// WithRunner replaces the process runner executing lifecycle scripts.
func WithRunner(service runner.Service) Option {
	return func(s *Service) { s.runner = service }
}

// WithExtensionTypes seeds the type registry.
func WithExtensionTypes(extensionTypes ...*x.Type) Option {
	return func(s *Service) { s.extensionTypes = extensionTypes }
}

// WithExtensionServices registers additional action services.
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) { s.extensionServices = services }
}
