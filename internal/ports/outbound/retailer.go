// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/reseptori/backend/internal/domain/recipe"
	"github.com/reseptori/backend/internal/domain/store"
)

// RetailerGateway is the boundary to the grocery retailer's REST API.
// All four lookups are read-only request/parse pairs: no retry, no backoff,
// no caching, each call is a fresh network round trip.
type RetailerGateway interface {
	// FetchRecipe searches recipes by category filter and resolves the
	// recipe at the given position in the result list. The recipeID is a
	// result-set offset, not a stable key: it is only valid for the filter
	// combination it was issued against.
	FetchRecipe(ctx context.Context, recipeID int, mainCategory, subCategory string) (*recipe.Recipe, error)

	// FetchProductsByType returns every product carrying the given
	// ingredient-type code
	FetchProductsByType(ctx context.Context, ingredientType string) ([]store.Product, error)

	// FetchStores returns the stores matching a postal code
	FetchStores(ctx context.Context, postalCode string) ([]store.Store, error)

	// FetchAvailability returns the ids of the stores currently stocking
	// the given EAN
	FetchAvailability(ctx context.Context, ean string) ([]store.ID, error)
}
