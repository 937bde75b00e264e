// Package pantry models the ingredient inventory: a set of lowercase names
// with no quantities or expiry, grown by acquisition channels and depleted
// by meal consumption.
package pantry

import (
	"encoding/json"
	"sort"
	"strings"
)

// Channel identifies how ingredients entered the pantry
type Channel string

const (
	ChannelImage   Channel = "image"
	ChannelReceipt Channel = "receipt"
	ChannelBarcode Channel = "barcode"
	ChannelVoice   Channel = "voice"
	ChannelManual  Channel = "manual"
)

// Channels lists every acquisition channel
var Channels = []Channel{ChannelImage, ChannelReceipt, ChannelBarcode, ChannelVoice, ChannelManual}

// Valid reports whether c is a known channel
func (c Channel) Valid() bool {
	for _, known := range Channels {
		if c == known {
			return true
		}
	}
	return false
}

// Inventory is a set of normalized ingredient names. The zero value is empty and usable.
type Inventory struct {
	items map[string]struct{}
}

// NewInventory builds an inventory from raw names
func NewInventory(names ...string) Inventory {
	inv := Inventory{}
	inv.Add(names...)
	return inv
}

// Add unions names into the set and returns the ones that were not present yet.
func (inv *Inventory) Add(names ...string) []string {
	if inv.items == nil {
		inv.items = make(map[string]struct{}, len(names))
	}
	added := make([]string, 0, len(names))
	for _, raw := range names {
		name := Normalize(raw)
		if name == "" {
			continue
		}
		if _, ok := inv.items[name]; ok {
			continue
		}
		inv.items[name] = struct{}{}
		added = append(added, name)
	}
	return added
}

// Remove deletes an exact entry
func (inv *Inventory) Remove(name string) bool {
	name = Normalize(name)
	if _, ok := inv.items[name]; !ok {
		return false
	}
	delete(inv.items, name)
	return true
}

// Contains reports exact membership
func (inv Inventory) Contains(name string) bool {
	_, ok := inv.items[Normalize(name)]
	return ok
}

// Len returns the number of entries
func (inv Inventory) Len() int {
	return len(inv.items)
}

// Items returns the entries in sorted order
func (inv Inventory) Items() []string {
	out := make([]string, 0, len(inv.items))
	for name := range inv.items {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	return NewInventory(inv.Items()...)
}

// Find returns the first entry, in sorted order, that matches the ingredient.
func (inv Inventory) Find(ingredient string, matcher IngredientMatcher) (string, bool) {
	ingredient = Normalize(ingredient)
	if ingredient == "" {
		return "", false
	}
	for _, entry := range inv.Items() {
		if matcher.Matches(entry, ingredient) {
			return entry, true
		}
	}
	return "", false
}

// Has reports whether any entry matches the ingredient
func (inv Inventory) Has(ingredient string, matcher IngredientMatcher) bool {
	_, ok := inv.Find(ingredient, matcher)
	return ok
}

// Consume removes at most one matching entry per ingredient and returns the removed entries.
// Ingredients with no match are skipped silently.
func (inv *Inventory) Consume(ingredients []string, matcher IngredientMatcher) []string {
	removed := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		entry, ok := inv.Find(ingredient, matcher)
		if !ok {
			continue
		}
		delete(inv.items, entry)
		removed = append(removed, entry)
	}
	return removed
}

// Missing returns the ingredients no entry matches, in input order, normalized.
func (inv Inventory) Missing(ingredients []string, matcher IngredientMatcher) []string {
	missing := make([]string, 0)
	seen := make(map[string]struct{})
	for _, ingredient := range ingredients {
		name := Normalize(ingredient)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if !inv.Has(name, matcher) {
			missing = append(missing, name)
		}
	}
	return missing
}

// MarshalJSON encodes the set as a sorted list
func (inv Inventory) MarshalJSON() ([]byte, error) {
	return json.Marshal(inv.Items())
}

// UnmarshalJSON decodes a list of names
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*inv = NewInventory(names...)
	return nil
}

const trimSet = " \t\r\n-*•·\"'`.;:"

// Normalize lowercases and trims a raw ingredient token, dropping list bullets and quotes.
func Normalize(raw string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(raw), trimSet))
}

// ParseList splits a gateway or free-text answer on commas and newlines.
func ParseList(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := Normalize(f); name != "" {
			out = append(out, name)
		}
	}
	return out
}
