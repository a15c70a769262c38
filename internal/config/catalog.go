package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogItem is one seed entry.
type CatalogItem struct {
	Name     string `yaml:"name"     json:"name"`
	Quantity int    `yaml:"quantity" json:"quantity"`
}

// Catalog is the initial stock loaded into an empty store, read from YAML:
//
//	items:
//	  - name: Apples
//	    quantity: 50
type Catalog struct {
	Items []CatalogItem `yaml:"items" json:"items"`
}

// LoadCatalog reads and validates the catalog at path.
func LoadCatalog(path string) (*Catalog, error) {
	//nolint:gosec // path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog. Names are trimmed and must be
// unique; quantities must be positive.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	var errs []error
	seen := make(map[string]bool, len(c.Items))
	for i := range c.Items {
		item := &c.Items[i]
		item.Name = strings.TrimSpace(item.Name)
		switch {
		case item.Name == "":
			errs = append(errs, fmt.Errorf("item %d: name is required", i))
		case seen[item.Name]:
			errs = append(errs, fmt.Errorf("item %d: duplicate name %q", i, item.Name))
		case item.Quantity <= 0:
			errs = append(errs, fmt.Errorf("item %q: quantity must be positive", item.Name))
		}
		seen[item.Name] = true
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}
