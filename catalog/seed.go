package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the mock catalog the storefront ships with.
type Seed struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
	Trending   []string   `yaml:"trending"`
}

func LoadSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}
	seen := make(map[string]struct{}, len(s.Products))
	for i, p := range s.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog seed: product %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalog seed: duplicate product id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return &s, nil
}

func DefaultSeed() (*Seed, error) { return LoadSeed(defaultSeed) }
