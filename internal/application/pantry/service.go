// Package pantry serves the user's possibly remaining ingredients.
// The item list is a static seed from configuration; there is no per-user
// pantry storage yet.
package pantry

import (
	"context"

	"go.uber.org/zap"

	"github.com/reseptori/backend/internal/infrastructure/config"
	"github.com/reseptori/backend/internal/ports/inbound"
)

// Service implements the pantry use case
type Service struct {
	items  []inbound.PantryItem
	logger *zap.Logger
}

var _ inbound.PantryService = (*Service)(nil)

// NewService builds the static pantry from configuration.
// TODO: back names and images with the product catalog instead of
// placeholders once an item database exists.
func NewService(cfg config.PantryConfig, logger *zap.Logger) *Service {
	items := make([]inbound.PantryItem, 0, len(cfg.ItemIDs))
	for _, id := range cfg.ItemIDs {
		items = append(items, inbound.PantryItem{
			ID:       id,
			Name:     "dummy name",
			ImageURL: "dummy.png",
		})
	}
	return &Service{items: items, logger: logger.Named("pantry-service")}
}

// RemainingItems returns the configured pantry items
func (s *Service) RemainingItems(ctx context.Context) ([]inbound.PantryItem, error) {
	out := make([]inbound.PantryItem, len(s.items))
	copy(out, s.items)
	return out, nil
}
