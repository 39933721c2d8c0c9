package workload

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/observability"
	"github.com/a2y-d5l/go-rendezvous/queue"
)

// Config describes one producer/consumer run.
type Config struct {
	Variant          queue.Variant `yaml:"variant"`
	Capacity         int           `yaml:"capacity"`
	Producers        int           `yaml:"producers"`
	Consumers        int           `yaml:"consumers"`
	ItemsPerProducer int           `yaml:"items_per_producer"`

	// Sampling thins the per-item Debug records. Nil logs every item.
	Sampling *observability.SamplingConfig `yaml:"sampling,omitempty"`
}

// DefaultConfig returns a small balanced workload on the condition variable queue.
func DefaultConfig() Config {
	return Config{
		Variant:          queue.VariantCond,
		Capacity:         8,
		Producers:        4,
		Consumers:        4,
		ItemsPerProducer: 1000,
	}
}

// LoadConfig reads a YAML config file. Fields absent from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.WrapResource(fmt.Errorf("read config: %w", err), component, "LoadConfig")
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errs.WrapInvalid(fmt.Errorf("%w: %w", ErrInvalidConfig, err), component, "ParseConfig")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Variant != queue.VariantCond && c.Variant != queue.VariantSemaphore {
		result = multierror.Append(result, fmt.Errorf("%w: unknown variant %s", ErrInvalidConfig, c.Variant))
	}
	if c.Capacity < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: capacity must be at least 1, got %d", ErrInvalidConfig, c.Capacity))
	}
	if c.Producers < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: producers must be at least 1, got %d", ErrInvalidConfig, c.Producers))
	}
	if c.Consumers < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: consumers must be at least 1, got %d", ErrInvalidConfig, c.Consumers))
	}
	if c.ItemsPerProducer < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: items_per_producer must not be negative, got %d", ErrInvalidConfig, c.ItemsPerProducer))
	}
	if s := c.Sampling; s != nil {
		if s.Rate < 0 || s.Rate > 1 {
			result = multierror.Append(result, fmt.Errorf("%w: sampling rate must be within [0, 1], got %g", ErrInvalidConfig, s.Rate))
		}
		if s.MaxPerSecond < 0 {
			result = multierror.Append(result, fmt.Errorf("%w: sampling max_per_second must not be negative, got %d", ErrInvalidConfig, s.MaxPerSecond))
		}
	}
	return errs.WrapInvalid(result.ErrorOrNil(), component, "Validate")
}

// TotalItems returns the number of items the run moves through the queue.
func (c Config) TotalItems() int {
	return c.Producers * c.ItemsPerProducer
}
