package catalog

import (
	"sort"
)

// Catalog is a read-only, queryable view over a loaded Document. It is
// immutable after construction and safe for unlimited concurrent readers;
// every accessor preserves declaration order, which rule evaluation and
// computed-field sequencing depend on.
type Catalog struct {
	doc      *Document
	fieldIdx map[string]*Field
}

// New wraps a Document in its read-only view.
func New(doc *Document) *Catalog {
	c := &Catalog{
		doc:      doc,
		fieldIdx: make(map[string]*Field, len(doc.Inventory.Fields)),
	}
	for i := range doc.Inventory.Fields {
		f := &doc.Inventory.Fields[i]
		c.fieldIdx[f.FieldID] = f
	}
	return c
}

// Document returns the underlying raw document. Callers must not mutate it.
func (c *Catalog) Document() *Document { return c.doc }

// Currency returns the catalog's quoting currency.
func (c *Catalog) Currency() string { return c.doc.Meta.Currency }

// Fields returns all declared fields in declaration order.
func (c *Catalog) Fields() []Field { return c.doc.Inventory.Fields }

// FieldByID looks up a field definition.
func (c *Catalog) FieldByID(fieldID string) (*Field, bool) {
	f, ok := c.fieldIdx[fieldID]
	return f, ok
}

// FieldsForScreen returns the fields on a screen, optionally filtered by
// step, in declaration order.
func (c *Catalog) FieldsForScreen(screenID, step string) []Field {
	var out []Field
	for _, f := range c.doc.Inventory.Fields {
		if f.ScreenID != screenID {
			continue
		}
		if step != "" && f.Step != step {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Screens returns the declared screens sorted by their order attribute.
func (c *Catalog) Screens() []Screen {
	out := make([]Screen, len(c.doc.Inventory.Screens))
	copy(out, c.doc.Inventory.Screens)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Actions returns the declared wizard actions in declaration order.
func (c *Catalog) Actions() []Action { return c.doc.Inventory.Actions }

// DictionaryItems returns a dictionary's items in declaration order, or
// false when the dictionary id is unknown.
func (c *Catalog) DictionaryItems(dictionaryID string) ([]DictionaryItem, bool) {
	d, ok := c.doc.Dictionaries[dictionaryID]
	if !ok {
		return nil, false
	}
	return d.Items, true
}

// DictionaryItemByID scans a dictionary for an item. Catalogs hold tens of
// items at most, so a linear scan is fine.
func (c *Catalog) DictionaryItemByID(dictionaryID, itemID string) (*DictionaryItem, bool) {
	items, ok := c.DictionaryItems(dictionaryID)
	if !ok {
		return nil, false
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], true
		}
	}
	return nil, false
}

// ItemLabel resolves a dictionary item's label, falling back to the item
// id when unknown.
func (c *Catalog) ItemLabel(dictionaryID, itemID string) string {
	if it, ok := c.DictionaryItemByID(dictionaryID, itemID); ok && it.Label != "" {
		return it.Label
	}
	return itemID
}

// Rules returns all rules in declaration order.
func (c *Catalog) Rules() []Rule { return c.doc.Rules }

// ComputedEntries returns the computed-field declarations in order.
func (c *Catalog) ComputedEntries() []Computed { return c.doc.Computed }

// Pricing returns the pricing section.
func (c *Catalog) Pricing() Pricing { return c.doc.Pricing }

// RequiredFieldIDs returns the ids of every field marked required, in
// declaration order.
func (c *Catalog) RequiredFieldIDs() []string {
	var out []string
	for _, f := range c.doc.Inventory.Fields {
		if f.Required {
			out = append(out, f.FieldID)
		}
	}
	return out
}
