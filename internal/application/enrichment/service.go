// Package enrichment provides the application layer for the ingredient
// availability pipeline: resolve a recipe, cross-reference each ingredient's
// substitutable products against live store inventory, and annotate the
// ingredients with availability metadata.
package enrichment

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reseptori/backend/internal/domain/recipe"
	"github.com/reseptori/backend/internal/domain/store"
	"github.com/reseptori/backend/internal/infrastructure/config"
	"github.com/reseptori/backend/internal/ports/inbound"
	"github.com/reseptori/backend/internal/ports/outbound"
)

// Service implements the enrichment and store lookup use cases
type Service struct {
	gateway       outbound.RetailerGateway
	retailerCfg   config.RetailerConfig
	maxConcurrent int
	logger        *zap.Logger
}

var (
	_ inbound.EnrichmentService = (*Service)(nil)
	_ inbound.StoreService      = (*Service)(nil)
)

// NewService creates a new enrichment service
func NewService(
	gateway outbound.RetailerGateway,
	retailerCfg config.RetailerConfig,
	enrichCfg config.EnrichmentConfig,
	logger *zap.Logger,
) *Service {
	maxConcurrent := enrichCfg.MaxConcurrentIngredients
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Service{
		gateway:       gateway,
		retailerCfg:   retailerCfg,
		maxConcurrent: maxConcurrent,
		logger:        logger.Named("enrichment-service"),
	}
}

// EnrichRecipe resolves the recipe and annotates every ingredient with
// store-level availability for the requested postal-code area.
//
// A gateway failure while resolving the stores or the recipe is fatal to
// the whole enrichment. A failure while checking one ingredient only marks
// that ingredient's availability unknown; the rest of the response stands.
// Ingredients fan out concurrently but land by index, so the output order
// always equals the recipe's original ingredient order.
func (s *Service) EnrichRecipe(ctx context.Context, cmd inbound.EnrichRecipeCommand) (*inbound.EnrichedRecipe, error) {
	ctx, span := otel.Tracer("reseptori").Start(ctx, "enrichment.EnrichRecipe")
	defer span.End()
	span.SetAttributes(
		attribute.Int("recipe.id", cmd.RecipeID),
		attribute.String("postal_code", cmd.PostalCode),
	)

	stores, err := s.gateway.FetchStores(ctx, cmd.PostalCode)
	if err != nil {
		return nil, err
	}

	rec, err := s.gateway.FetchRecipe(ctx, cmd.RecipeID, s.retailerCfg.MainCategory, s.retailerCfg.SubCategory)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]struct{}, len(cmd.OwnedIngredientTypes))
	for _, t := range cmd.OwnedIngredientTypes {
		owned[t] = struct{}{}
	}

	enriched := make([]recipe.EnrichedIngredient, len(rec.Ingredients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, ing := range rec.Ingredients {
		out := recipe.NewEnrichedIngredient(ing)

		// Owned ingredients skip the network entirely
		if _, ok := owned[ing.Type]; ok {
			out.MarkOwned()
			enriched[i] = out
			continue
		}

		i, ing := i, ing
		g.Go(func() error {
			storeName, found, err := s.findStockingStore(gctx, ing.Type, stores)
			switch {
			case err != nil:
				s.logger.Warn("Availability check failed, marking ingredient unknown",
					zap.String("ingredient_type", ing.Type),
					zap.Error(err),
				)
				out.MarkUnknown()
			case found:
				out.MarkAvailable(storeName)
			}
			enriched[i] = out
			// Per-ingredient failures never abort the group
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Recipe enriched",
		zap.Int("recipe_id", cmd.RecipeID),
		zap.String("postal_code", cmd.PostalCode),
		zap.Int("ingredients", len(enriched)),
		zap.Int("stores", len(stores)),
	)

	return &inbound.EnrichedRecipe{
		ID:           cmd.RecipeID,
		Name:         rec.Name,
		Ingredients:  enriched,
		Instructions: rec.Instructions,
		ImageURL:     rec.ImageURL,
	}, nil
}

// findStockingStore scans every product of the ingredient type against
// every resolved store and returns the first store confirmed to stock one.
// All stores are consulted before concluding absence; the scan only
// short-circuits once a match is found.
func (s *Service) findStockingStore(ctx context.Context, ingredientType string, stores []store.Store) (string, bool, error) {
	products, err := s.gateway.FetchProductsByType(ctx, ingredientType)
	if err != nil {
		return "", false, err
	}

	for _, product := range products {
		stockingIDs, err := s.gateway.FetchAvailability(ctx, product.EAN)
		if err != nil {
			return "", false, err
		}
		availability := store.Availability{EAN: product.EAN, StoreIDs: stockingIDs}
		for _, st := range stores {
			if availability.Stocks(st.ID) {
				return st.Name, true, nil
			}
		}
	}
	return "", false, nil
}

// NearbyStores returns the stores matching a postal code
func (s *Service) NearbyStores(ctx context.Context, postalCode string) ([]store.Store, error) {
	return s.gateway.FetchStores(ctx, postalCode)
}
