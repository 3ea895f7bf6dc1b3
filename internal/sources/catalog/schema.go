package catalog

// CategoryEntry is a single category entry in the YAML file.
type CategoryEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Query       string `yaml:"query"`
	Description string `yaml:"description"`
}

// CatalogConfig is the root structure for categories.yaml.
type CatalogConfig struct {
	Categories []CategoryEntry `yaml:"categories"`
}
