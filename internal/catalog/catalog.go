// Package catalog holds the read-only provider → model → language tree that
// the selector offers choices from. Lookups are always by Value; Name is
// display text only.
package catalog

// Language is a leaf of the catalog.
type Language struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Model is a model offered by a provider.
type Model struct {
	Name      string     `json:"name"`
	Value     string     `json:"value"`
	Languages []Language `json:"languages"`
}

// Provider is a top-level STT vendor.
type Provider struct {
	Name   string  `json:"name"`
	Value  string  `json:"value"`
	Models []Model `json:"models"`
}

// Catalog is the full tree, immutable once loaded.
type Catalog struct {
	Providers []Provider `json:"stt"`
}

// Provider returns the provider with the given key.
func (c *Catalog) Provider(key string) (Provider, bool) {
	if c == nil || key == "" {
		return Provider{}, false
	}
	for _, p := range c.Providers {
		if p.Value == key {
			return p, true
		}
	}
	return Provider{}, false
}

// Model returns the model key owned by providerKey.
func (c *Catalog) Model(providerKey, key string) (Model, bool) {
	p, ok := c.Provider(providerKey)
	if !ok {
		return Model{}, false
	}
	return p.Model(key)
}

// Language returns the language key owned by the given model.
func (c *Catalog) Language(providerKey, modelKey, key string) (Language, bool) {
	m, ok := c.Model(providerKey, modelKey)
	if !ok {
		return Language{}, false
	}
	return m.Language(key)
}

// Model returns the model with the given key.
func (p Provider) Model(key string) (Model, bool) {
	if key == "" {
		return Model{}, false
	}
	for _, m := range p.Models {
		if m.Value == key {
			return m, true
		}
	}
	return Model{}, false
}

// Language returns the language with the given key.
func (m Model) Language(key string) (Language, bool) {
	if key == "" {
		return Language{}, false
	}
	for _, l := range m.Languages {
		if l.Value == key {
			return l, true
		}
	}
	return Language{}, false
}
