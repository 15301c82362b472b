// Package suggestion provides the application layer for recipe suggestions.
// It adapts the trained sequence classifier into the SuggestionService use
// case: a set of item ids in, a small ranked set of candidate recipe ids out.
package suggestion

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/reseptori/backend/internal/infrastructure/config"
	"github.com/reseptori/backend/internal/ports/inbound"
	"github.com/reseptori/backend/internal/ports/outbound"
	"github.com/reseptori/backend/pkg/errors"
)

// Service implements the suggestion use cases
type Service struct {
	provider outbound.ModelProvider
	cfg      config.ModelConfig
	logger   *zap.Logger
}

var _ inbound.SuggestionService = (*Service)(nil)

// NewService creates a new suggestion service
func NewService(provider outbound.ModelProvider, cfg config.ModelConfig, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   logger.Named("suggestion-service"),
	}
}

// SuggestRecipes runs count prediction draws against the classifier and
// returns the de-duplicated candidate recipe ids in ascending order.
//
// Each draw picks a random non-empty sub-collection of the items; only the
// sub-sample's LENGTH feeds the model, which always encodes the full item
// set and decodes at that step. An empty item set falls back to one random
// item id, so a cold-start request never fails.
func (s *Service) SuggestRecipes(ctx context.Context, itemIDs []string, count int) ([]int, error) {
	ctx, span := otel.Tracer("reseptori").Start(ctx, "suggestion.SuggestRecipes")
	defer span.End()

	if count < 1 {
		count = s.cfg.SuggestionDraws
	}

	items, err := parseItemIDs(itemIDs)
	if err != nil {
		return nil, err
	}

	model, err := s.provider.Model()
	if err != nil {
		return nil, errors.NewModelUnavailableError(err)
	}

	if len(items) == 0 {
		bound := s.cfg.ColdStartItemRange
		if bound < 1 || bound > model.VocabSize() {
			bound = model.VocabSize()
		}
		items = []int{rand.Intn(bound)}
		s.logger.Debug("Cold-start fallback item substituted", zap.Int("item_id", items[0]))
	}

	for _, id := range items {
		if id < 0 || id >= model.VocabSize() {
			return nil, errors.NewValidationError(
				"item id " + strconv.Itoa(id) + " outside the model's input range")
		}
	}

	seen := make(map[int]struct{}, count)
	for i := 0; i < count; i++ {
		// Sub-sample length is forced to the full length for a single
		// item, otherwise uniform in [1, len).
		length := 1
		if len(items) > 1 {
			length = 1 + rand.Intn(len(items)-1)
		}

		prediction, err := model.Infer(items, length)
		if err != nil {
			return nil, errors.Wrap(err, "inference failed")
		}
		seen[prediction] = struct{}{}
	}

	suggestions := make([]int, 0, len(seen))
	for id := range seen {
		suggestions = append(suggestions, id)
	}
	sort.Ints(suggestions)

	span.SetAttributes(
		attribute.Int("suggestion.draws", count),
		attribute.Int("suggestion.unique", len(suggestions)),
	)
	s.logger.Info("Recipe suggestions produced",
		zap.Int("items", len(items)),
		zap.Int("draws", count),
		zap.Int("unique_suggestions", len(suggestions)),
	)
	return suggestions, nil
}

// parseItemIDs converts the raw item id strings to ints, rejecting
// non-numeric entries
func parseItemIDs(itemIDs []string) ([]int, error) {
	items := make([]int, 0, len(itemIDs))
	for _, raw := range itemIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewValidationError("item id " + strconv.Quote(raw) + " is not numeric")
		}
		items = append(items, id)
	}
	return items, nil
}
