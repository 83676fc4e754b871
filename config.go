package scriptgate

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/scriptgate/service/meta"
)

// Config is a serialisable representation of the engine configuration. It
// can be populated from JSON or YAML; the zero value inherits all package
// defaults.
type Config struct {
	Runner RunnerConfig `json:"runner" yaml:"runner"`
}

// RunnerConfig controls the lifecycle script runner.
type RunnerConfig struct {
	// TimeoutMs bounds each script invocation; zero leaves scripts unbounded.
	TimeoutMs int `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
	// Env adds environment variables to every script invocation.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// DefaultConfig returns the defaults the constructors previously hard-coded.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Runner.TimeoutMs < 0 {
		return fmt.Errorf("runner.timeoutMs must be >= 0")
	}
	return nil
}

// LoadConfig reads a configuration document (JSON or YAML by extension) from
// any afs-supported URL.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	config := &Config{}
	if err := meta.New(afs.New(), "").Load(ctx, URL, config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return config, nil
}
