// Package catalog loads the category catalog: the set of tabs the
// reader shows above the headlines, each carrying the query sent to
// the article source. The catalog ships with built-in defaults and can
// be overridden by a YAML file that is reloaded at runtime.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of categories.yaml.
type Loader struct {
	filePath string
}

// NewLoader creates a catalog loader.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the categories file.
func (l *Loader) Load() (*CatalogConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var config CatalogConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse categories yaml: %w", err)
	}

	return &config, nil
}
