package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Provider holds the recipe-provider tuning knobs. Sensible defaults are
// baked in; a YAML file can override any of them.
type Provider struct {
	BaseURL      string `yaml:"base_url"`
	ImageBaseURL string `yaml:"image_base_url"`

	// Ranking 2 maximizes used-ingredient coverage.
	Ranking      int  `yaml:"ranking"`
	IgnorePantry bool `yaml:"ignore_pantry"`

	// SearchNumber is how many summaries a search requests; EnrichLimit is
	// how many of those get a detail fetch.
	SearchNumber int `yaml:"search_number"`
	EnrichLimit  int `yaml:"enrich_limit"`

	// DetailConcurrency bounds the detail-fetch pool.
	DetailConcurrency int `yaml:"detail_concurrency"`

	ProbeTimeout  Duration `yaml:"probe_timeout"`
	SearchTimeout Duration `yaml:"search_timeout"`
	DetailTimeout Duration `yaml:"detail_timeout"`
	ImageTimeout  Duration `yaml:"image_timeout"`

	// RequestsPerSecond throttles all outbound provider calls.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	RequestBurst      int     `yaml:"request_burst"`
}

// DefaultProvider returns the built-in provider settings.
func DefaultProvider() *Provider {
	return &Provider{
		BaseURL:           "https://api.spoonacular.com",
		ImageBaseURL:      "https://spoonacular.com/recipeImages/",
		Ranking:           2,
		IgnorePantry:      false,
		SearchNumber:      10,
		EnrichLimit:       5,
		DetailConcurrency: 3,
		ProbeTimeout:      Duration(10 * time.Second),
		SearchTimeout:     Duration(15 * time.Second),
		DetailTimeout:     Duration(10 * time.Second),
		ImageTimeout:      Duration(5 * time.Second),
		RequestsPerSecond: 2,
		RequestBurst:      5,
	}
}

// LoadProvider reads provider settings from a YAML file, layered over the
// defaults. A missing file is not an error; the defaults are returned.
func LoadProvider(path string) (*Provider, error) {
	provider := DefaultProvider()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return provider, nil
		}
		return nil, fmt.Errorf("failed to read provider settings: %w", err)
	}

	if err := yaml.Unmarshal(data, provider); err != nil {
		return nil, fmt.Errorf("failed to parse provider settings: %w", err)
	}

	return provider, nil
}
