// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/reseptori/backend/internal/domain/recipe"
	"github.com/reseptori/backend/internal/domain/store"
)

// EnrichmentService resolves a recipe and annotates each of its ingredients
// with store-level availability for a postal-code area
type EnrichmentService interface {
	EnrichRecipe(ctx context.Context, cmd EnrichRecipeCommand) (*EnrichedRecipe, error)
}

// EnrichRecipeCommand carries the inputs of one enrichment request
type EnrichRecipeCommand struct {
	PostalCode string
	// RecipeID is a positional offset into the retailer search result set
	RecipeID int
	// OwnedIngredientTypes lists ingredient-type codes the user already has
	OwnedIngredientTypes []string
}

// EnrichedRecipe is the enrichment result: the recipe plus its ingredients
// annotated with availability metadata, in original recipe order
type EnrichedRecipe struct {
	ID           int                         `json:"id"`
	Name         string                      `json:"name"`
	Ingredients  []recipe.EnrichedIngredient `json:"ingredients"`
	Instructions string                      `json:"instructions"`
	ImageURL     string                      `json:"image"`
}

// SuggestionService predicts candidate recipe ids from a set of item
// identifiers the user holds
type SuggestionService interface {
	// SuggestRecipes attempts count prediction draws and returns the
	// de-duplicated, ascending-sorted candidate recipe ids
	SuggestRecipes(ctx context.Context, itemIDs []string, count int) ([]int, error)
}

// StoreService looks up retail stores near a postal code
type StoreService interface {
	NearbyStores(ctx context.Context, postalCode string) ([]store.Store, error)
}

// PantryItem is one item the user may already hold
type PantryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// PantryService reports the user's possibly remaining ingredients
type PantryService interface {
	RemainingItems(ctx context.Context) ([]PantryItem, error)
}
