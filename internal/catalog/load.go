package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/temcen/teapick/pkg/models"
)

// ErrInvalidCatalog is returned when a catalog file cannot be used.
var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

type document struct {
	Items []entry `yaml:"items"`
}

type entry struct {
	Name       string   `yaml:"name" validate:"required,max=128"`
	Attributes []string `yaml:"attributes" validate:"dive,required,max=32"`
	Distance   *float64 `yaml:"distance"`
}

var entryValidator = validator.New()

// Default returns the built-in drink list.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML, nil)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is malformed: %v", err))
	}
	return c
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string, logger *logrus.Logger) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path, logger)
}

// Load reads and validates a YAML catalog file.
func Load(path string, logger *logrus.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"path":  path,
			"items": c.Len(),
		}).Info("Catalog loaded")
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document. Every malformed
// entry fails the whole parse; nothing is dropped silently. A negative
// distance is not an error and is stored as unknown.
func Parse(data []byte, logger *logrus.Logger) (*Catalog, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	items := make([]models.Item, 0, len(doc.Items))
	seen := make(map[string]int, len(doc.Items))
	for i, e := range doc.Items {
		e.Name = strings.TrimSpace(e.Name)
		for j, attr := range e.Attributes {
			e.Attributes[j] = string(models.NormalizeTag(attr))
		}

		if err := entryValidator.Struct(&e); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidCatalog, i, err)
		}

		if prev, dup := seen[e.Name]; dup && logger != nil {
			logger.WithFields(logrus.Fields{
				"name":  e.Name,
				"first": prev,
				"again": i,
			}).Warn("Duplicate drink name in catalog")
		}
		seen[e.Name] = i

		item := models.Item{
			Name:       e.Name,
			Attributes: models.NewTagSet(),
		}
		for _, attr := range e.Attributes {
			item.Attributes.Add(models.Tag(attr))
		}
		if e.Distance != nil && *e.Distance >= 0 {
			item.Distance = models.Meters(*e.Distance)
		}
		items = append(items, item)
	}

	return New(items), nil
}
