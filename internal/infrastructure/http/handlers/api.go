// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/reseptori/backend/internal/infrastructure/http/middleware"
	"github.com/reseptori/backend/internal/ports/inbound"
	"github.com/reseptori/backend/pkg/errors"
)

// defaultPostalCode is the area used when the caller does not pass one
const defaultPostalCode = "00100"

// APIHandlers handles REST API requests
type APIHandlers struct {
	enrichment inbound.EnrichmentService
	suggestion inbound.SuggestionService
	stores     inbound.StoreService
	pantry     inbound.PantryService
	validate   *validator.Validate
	logger     *zap.Logger
	version    string
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	enrichment inbound.EnrichmentService,
	suggestion inbound.SuggestionService,
	stores inbound.StoreService,
	pantry inbound.PantryService,
	logger *zap.Logger,
	version string,
) *APIHandlers {
	return &APIHandlers{
		enrichment: enrichment,
		suggestion: suggestion,
		stores:     stores,
		pantry:     pantry,
		validate:   validator.New(),
		logger:     logger.Named("api-handlers"),
		version:    version,
	}
}

// DataResponse is the compatibility envelope every endpoint answers with
type DataResponse struct {
	Data interface{} `json:"data"`
}

// GetRichRecipe handles GET /api/get_rich_recipe/{recipeID}.
// Optional query parameters: zip (postal code, default 00100) and owned
// (comma-separated ingredient-type codes the user already has).
func (h *APIHandlers) GetRichRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := strconv.Atoi(chi.URLParam(r, "recipeID"))
	if err != nil {
		h.writeError(w, r, errors.NewValidationError("recipe id must be numeric"))
		return
	}

	postalCode := r.URL.Query().Get("zip")
	if postalCode == "" {
		postalCode = defaultPostalCode
	}
	if err := h.validate.Var(postalCode, "len=5,numeric"); err != nil {
		h.writeError(w, r, errors.NewValidationError("postal code must be five digits"))
		return
	}

	var owned []string
	if raw := r.URL.Query().Get("owned"); raw != "" {
		owned = strings.Split(raw, ",")
	}

	enriched, err := h.enrichment.EnrichRecipe(r.Context(), inbound.EnrichRecipeCommand{
		PostalCode:           postalCode,
		RecipeID:             recipeID,
		OwnedIngredientTypes: owned,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, DataResponse{Data: enriched})
}

// RecipeSuggestions handles GET /api/recipe_suggestions/{items} where items
// is a comma-separated list of item ids
func (h *APIHandlers) RecipeSuggestions(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "items")

	var items []string
	if raw != "" {
		items = strings.Split(raw, ",")
	}

	suggestions, err := h.suggestion.SuggestRecipes(r.Context(), items, 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, DataResponse{Data: suggestions})
}

// GetStores handles GET /api/get_stores/{zipCode}
func (h *APIHandlers) GetStores(w http.ResponseWriter, r *http.Request) {
	zipCode := chi.URLParam(r, "zipCode")
	if err := h.validate.Var(zipCode, "len=5,numeric"); err != nil {
		h.writeError(w, r, errors.NewValidationError("postal code must be five digits"))
		return
	}

	stores, err := h.stores.NearbyStores(r.Context(), zipCode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// The frontend expects the store list wrapped in an extra array
	h.writeJSON(w, http.StatusOK, DataResponse{Data: []interface{}{stores}})
}

// PossiblyRemainingIngredients handles GET /api/possibly_remaining_ingredients/
func (h *APIHandlers) PossiblyRemainingIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := h.pantry.RemainingItems(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, DataResponse{Data: []interface{}{items}})
}

// HealthCheck handles GET /health
func (h *APIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"version":   h.version,
	})
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps an error to its HTTP status and writes the sanitized
// error envelope. Internal causes and stack traces never reach the body.
func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "request failed")
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Error("Request error",
		zap.String("request_id", requestID),
		zap.String("code", string(appErr.Code)),
		zap.String("path", r.URL.Path),
		zap.Error(appErr),
	)

	h.writeJSON(w, appErr.StatusCode(), errors.ToErrorResponse(appErr, requestID))
}
