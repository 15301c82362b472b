// Package recipe contains the recipe domain model.
// Recipes are read-only snapshots sourced from the retailer API; they are
// never persisted and have no lifecycle beyond a single request.
package recipe

// Recipe is a single recipe as normalized from the retailer response
type Recipe struct {
	Name         string       `json:"name"`
	Instructions string       `json:"instructions"`
	ImageURL     string       `json:"image"`
	Ingredients  []Ingredient `json:"ingredients"`
}

// Ingredient is one normalized recipe ingredient. The Type code groups
// substitutable products: every butter brand shares the butter type.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Type   string  `json:"type"`
}

// Sentinel store names for ingredients without a confirmed stocking store
const (
	StoreNameNone    = "none"
	StoreNameUnknown = "unknown"
)

// EnrichedIngredient is an Ingredient annotated with availability metadata.
// Availability and Own are ints rather than bools to keep the public wire
// format stable for existing clients.
type EnrichedIngredient struct {
	Ingredient

	Availability       int    `json:"availability"`
	AvailableStoreName string `json:"available_store_name"`
	Own                int    `json:"own"`
}

// NewEnrichedIngredient returns the ingredient in its default unenriched
// state: not available, no store, not owned
func NewEnrichedIngredient(ing Ingredient) EnrichedIngredient {
	return EnrichedIngredient{
		Ingredient:         ing,
		Availability:       0,
		AvailableStoreName: StoreNameNone,
		Own:                0,
	}
}

// MarkOwned flags the ingredient as already owned by the requesting user.
// Owned ingredients are never checked against store stock, so availability
// stays 0 regardless of what stores carry.
func (e *EnrichedIngredient) MarkOwned() {
	e.Own = 1
	e.Availability = 0
	e.AvailableStoreName = StoreNameNone
}

// MarkAvailable records the first store confirmed to stock a product of
// this ingredient's type
func (e *EnrichedIngredient) MarkAvailable(storeName string) {
	e.Availability = 1
	e.AvailableStoreName = storeName
}

// MarkUnknown flags the ingredient as unresolved after a failed
// availability lookup, distinguishing it from a confirmed absence
func (e *EnrichedIngredient) MarkUnknown() {
	e.Availability = 0
	e.AvailableStoreName = StoreNameUnknown
}
