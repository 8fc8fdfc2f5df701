// Package config loads axis configurations from YAML or TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/henderiw/slotaxis/pkg/axis"
	"gopkg.in/yaml.v3"
)

// Load reads an axis config from path. The format follows the file extension:
// .yaml and .yml for YAML, .toml for TOML. Keys missing from the file keep the
// values of axis.DefaultConfig.
func Load(path string) (axis.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return axis.Config{}, fmt.Errorf("failed to read axis config: %w", err)
	}
	return Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Parse decodes data in the given format ("yaml", "yml" or "toml") and
// validates the result.
func Parse(data []byte, format string) (axis.Config, error) {
	cfg := axis.DefaultConfig()

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return axis.Config{}, fmt.Errorf("failed to parse yaml axis config: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return axis.Config{}, fmt.Errorf("failed to parse toml axis config: %w", err)
		}
	default:
		return axis.Config{}, fmt.Errorf("unsupported axis config format %q", format)
	}

	cfg.Items = normalizeItems(cfg.Items)
	if err := cfg.Validate(); err != nil {
		return axis.Config{}, err
	}
	return cfg, nil
}

// normalizeItems maps the integer types of the decoders onto int so items
// compare the same regardless of the source format.
func normalizeItems(items []any) []any {
	for i, it := range items {
		if v, ok := it.(int64); ok {
			items[i] = int(v)
		}
	}
	return items
}
