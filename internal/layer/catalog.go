package layer

import (
	"sort"
	"sync"
)

// Catalog registers layer definitions and resolves the active paint order.
// It is safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	layers []Layer
	index  map[string]int
}

// NewCatalog returns a catalog holding layers in registration order.
func NewCatalog(layers ...Layer) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	for _, l := range layers {
		c.Register(l)
	}
	return c
}

// Register adds l, or replaces the definition with the same name. A
// replaced layer keeps its original registration slot.
func (c *Catalog) Register(l Layer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[l.Name]; ok {
		c.layers[i] = l
		return
	}

	c.index[l.Name] = len(c.layers)
	c.layers = append(c.layers, l)
}

// SetEnabled toggles the visibility of a registered layer.
func (c *Catalog) SetEnabled(name string, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[name]
	if !ok {
		return &UnknownLayerError{Name: name}
	}
	c.layers[i].Enabled = enabled
	return nil
}

// Get returns the layer registered under name.
func (c *Catalog) Get(name string) (Layer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[name]
	if !ok {
		return Layer{}, false
	}
	return c.layers[i], true
}

// Layers returns every registered layer in registration order.
func (c *Catalog) Layers() []Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Layer, len(c.layers))
	copy(out, c.layers)
	return out
}

// Active returns the enabled layers in paint order: by category
// (boundary, area-fill, linear-feature, label-source), then by rank from
// coarse to fine, then by registration order.
func (c *Catalog) Active() []Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := make([]Layer, 0, len(c.layers))
	for _, l := range c.layers {
		if l.Enabled {
			active = append(active, l)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Category != active[j].Category {
			return active[i].Category < active[j].Category
		}
		return active[i].Rank < active[j].Rank
	})

	return active
}
