package menu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Product is one sellable catalog entry. The engine treats the catalog
// as read-only reference data supplied by an external system.
type Product struct {
	// ID is the external product identifier.
	ID string `yaml:"id"`

	// Name is the display name matched against spoken queries.
	Name string `yaml:"name"`

	// Price is the unit price in the menu's currency.
	Price float64 `yaml:"price"`

	// Category groups products for display ("drinks", "mains").
	Category string `yaml:"category"`

	// Synonyms lists additional spoken names for this product beyond
	// the built-in cross-language synonym table.
	Synonyms []string `yaml:"synonyms"`
}

// CatalogFile is the top-level structure of a menu YAML file.
//
// Example:
//
//	menu:
//	  name: "Lunch menu"
//	  currency: "TRY"
//	products:
//	  - id: p-cola
//	    name: "Coca Cola"
//	    price: 45
//	    category: drinks
type CatalogFile struct {
	Menu     CatalogMeta `yaml:"menu"`
	Products []Product   `yaml:"products"`
}

// CatalogMeta holds top-level metadata for a menu file.
type CatalogMeta struct {
	// Name is the menu's display name.
	Name string `yaml:"name"`

	// Currency is the ISO currency code prices are stated in.
	Currency string `yaml:"currency"`
}

// LoadCatalogFile reads and parses a menu YAML file from disk.
func LoadCatalogFile(path string) (*CatalogFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("menu: open catalog file %q: %w", path, err)
	}
	defer f.Close()

	cf, err := LoadCatalogFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("menu: parse catalog file %q: %w", path, err)
	}
	return cf, nil
}

// LoadCatalogFromReader parses menu YAML from an [io.Reader] and
// validates the result. The reader is consumed entirely.
func LoadCatalogFromReader(r io.Reader) (*CatalogFile, error) {
	var cf CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown keys to catch typos
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("menu: decode catalog yaml: %w", err)
	}
	if err := validateCatalog(&cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// validateCatalog checks product entries for the mistakes that would
// silently break matching later. All failures are reported together.
func validateCatalog(cf *CatalogFile) error {
	var errs []error
	seen := make(map[string]int, len(cf.Products))
	for i, p := range cf.Products {
		prefix := fmt.Sprintf("products[%d]", i)
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if prev, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Errorf("%s.id %q is a duplicate of products[%d]", prefix, p.ID, prev))
		} else {
			seen[p.ID] = i
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.Price < 0 {
			errs = append(errs, fmt.Errorf("%s.price %.2f must not be negative", prefix, p.Price))
		}
	}
	return errors.Join(errs...)
}
