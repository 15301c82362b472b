// Package store contains the store and product domain model.
// Like recipes, stores and products are read-only snapshots from the
// retailer API scoped to a single request.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a retailer store identifier. The retailer encodes ids as strings in
// the store search API but as bare numbers in the availability API, so the
// type accepts both on the wire.
type ID string

// UnmarshalJSON accepts both string and numeric store ids
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty store id")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("store id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes the id back as a string
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// Store is one retail location keyed by postal-code lookup. Address and
// OpeningHours are passed through untouched: this system never interprets
// them, it only relays them to the frontend.
type Store struct {
	ID           ID              `json:"id"`
	Name         string          `json:"name"`
	Address      json.RawMessage `json:"address,omitempty"`
	OpeningHours json.RawMessage `json:"opening_hours,omitempty"`
}

// Product is one concrete good. Many products share one ingredient-type
// code; any of them satisfies the ingredient.
type Product struct {
	EAN  string `json:"ean"`
	Name string `json:"name"`
}

// Availability is the set of store ids currently stocking one EAN
type Availability struct {
	EAN      string
	StoreIDs []ID
}

// Stocks reports whether the store id appears in the availability set
func (a Availability) Stocks(id ID) bool {
	for _, s := range a.StoreIDs {
		if s == id {
			return true
		}
	}
	return false
}
