// Package catalog holds the immutable list of drinks that recommendations
// are drawn from, and loads it from YAML configuration.
package catalog

import (
	"github.com/temcen/teapick/pkg/models"
)

// Catalog is an ordered, read-only sequence of items. It is built once at
// startup and shared between requests without locking.
type Catalog struct {
	items []models.Item
}

// New copies items into a new catalog. Attribute sets and distances are
// copied as well so later changes by the caller cannot leak in.
func New(items []models.Item) *Catalog {
	copied := make([]models.Item, len(items))
	for i, item := range items {
		copied[i] = cloneItem(item)
	}
	return &Catalog{items: copied}
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// At returns the i-th item. It panics when i is out of range.
func (c *Catalog) At(i int) models.Item {
	return cloneItem(c.items[i])
}

// Items returns a copy of every item in catalog order.
func (c *Catalog) Items() []models.Item {
	if c == nil {
		return nil
	}
	out := make([]models.Item, len(c.items))
	for i, item := range c.items {
		out[i] = cloneItem(item)
	}
	return out
}

func cloneItem(item models.Item) models.Item {
	out := models.Item{
		Name:       item.Name,
		Attributes: models.NewTagSet(),
	}
	for t := range item.Attributes {
		out.Attributes.Add(t)
	}
	if item.Distance != nil {
		out.Distance = models.Meters(*item.Distance)
	}
	return out
}
