package bank

import (
	"skill-assess/internal/domain"
)

// Catalog is an immutable, ordered set of Items. It is safe for concurrent use.
type Catalog struct {
	items  []*domain.Item
	byName map[string]*domain.Item
}

// NewCatalog indexes items by name. Later duplicates are ignored.
func NewCatalog(items []*domain.Item) *Catalog {
	c := &Catalog{byName: make(map[string]*domain.Item, len(items))}
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, dup := c.byName[it.Name]; dup {
			continue
		}
		c.byName[it.Name] = it
		c.items = append(c.items, it)
	}
	return c
}

// Items returns the items in bank order.
func (c *Catalog) Items() []*domain.Item {
	out := make([]*domain.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Item(name string) (*domain.Item, error) {
	it, ok := c.byName[name]
	if !ok {
		return nil, domain.NewItemNotFoundError(name)
	}
	return it, nil
}
