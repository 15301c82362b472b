// Package retailer implements the RetailerGateway port against the grocery
// retailer's REST API. Each lookup is a single authenticated round trip
// followed by normalization of the raw JSON; there is no retry, backoff or
// caching layer in front of the retailer.
package retailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/reseptori/backend/internal/domain/recipe"
	"github.com/reseptori/backend/internal/domain/store"
	"github.com/reseptori/backend/internal/infrastructure/config"
	"github.com/reseptori/backend/internal/ports/outbound"
	"github.com/reseptori/backend/pkg/errors"
)

// Client implements outbound.RetailerGateway
type Client struct {
	cfg     config.RetailerConfig
	client  *http.Client
	logger  *zap.Logger
	metrics *Metrics
}

var _ outbound.RetailerGateway = (*Client)(nil)

// NewClient creates a new retailer API client. The subscription key travels
// on a wrapping RoundTripper so every request carries it without the
// individual call sites knowing.
func NewClient(cfg config.RetailerConfig, logger *zap.Logger, metrics *Metrics) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newSubscriptionKeyTransport(cfg.SubscriptionKey, nil),
		},
		logger:  logger.Named("retailer-client"),
		metrics: metrics,
	}
}

// Raw retailer wire structures. Field names follow the retailer's casing.

type searchRequest struct {
	Filters map[string]string `json:"filters"`
}

type recipeSearchResponse struct {
	Results []recipeResult `json:"results"`
}

type recipeResult struct {
	Name         string `json:"Name"`
	Instructions string `json:"Instructions"`
	Ingredients  []struct {
		SubSectionIngredients [][]rawIngredient `json:"SubSectionIngredients"`
	} `json:"Ingredients"`
	PictureUrls []struct {
		Normal string `json:"Normal"`
	} `json:"PictureUrls"`
}

// rawIngredient is one retailer ingredient row. Rows arrive as single-element
// arrays; only element zero carries data.
type rawIngredient struct {
	IngredientTypeName string  `json:"IngredientTypeName"`
	Amount             float64 `json:"Amount"`
	Unit               string  `json:"Unit"`
	IngredientType     string  `json:"IngredientType"`
}

type productSearchResponse struct {
	Results []struct {
		EAN       string `json:"ean"`
		LabelName struct {
			English string `json:"english"`
		} `json:"labelName"`
	} `json:"results"`
}

type storeSearchResponse struct {
	Results []struct {
		Name         string            `json:"Name"`
		ID           store.ID          `json:"Id"`
		Address      json.RawMessage   `json:"Address"`
		OpeningHours []json.RawMessage `json:"OpeningHours"`
	} `json:"results"`
}

type availabilityEntry struct {
	Stores []struct {
		ID store.ID `json:"id"`
	} `json:"stores"`
}

// FetchRecipe posts a category filter and resolves the recipe at position
// recipeID in the result list. The id is a result-set offset: it is only
// meaningful for the given category pair.
func (c *Client) FetchRecipe(ctx context.Context, recipeID int, mainCategory, subCategory string) (*recipe.Recipe, error) {
	body := searchRequest{Filters: map[string]string{
		"mainCategory": mainCategory,
		"subCategory":  subCategory,
	}}

	var resp recipeSearchResponse
	if err := c.post(ctx, "fetch recipe", c.cfg.RecipesURL, body, &resp); err != nil {
		return nil, err
	}

	if recipeID < 0 || recipeID >= len(resp.Results) {
		return nil, errors.NewRecipeIndexError(recipeID, len(resp.Results))
	}
	result := resp.Results[recipeID]

	if len(result.Ingredients) == 0 {
		return nil, errors.NewRetailerResponseError("fetch recipe",
			fmt.Errorf("recipe %q has no ingredient sections", result.Name))
	}

	ingredients := make([]recipe.Ingredient, 0, len(result.Ingredients[0].SubSectionIngredients))
	for _, row := range result.Ingredients[0].SubSectionIngredients {
		if len(row) == 0 {
			continue
		}
		raw := row[0]
		ingredients = append(ingredients, recipe.Ingredient{
			Name:   raw.IngredientTypeName,
			Amount: raw.Amount,
			Unit:   raw.Unit,
			Type:   raw.IngredientType,
		})
	}

	var image string
	if len(result.PictureUrls) > 0 {
		image = result.PictureUrls[0].Normal
	}

	return &recipe.Recipe{
		Name:         result.Name,
		Instructions: result.Instructions,
		ImageURL:     image,
		Ingredients:  ingredients,
	}, nil
}

// FetchProductsByType returns every product of one ingredient-type code
func (c *Client) FetchProductsByType(ctx context.Context, ingredientType string) ([]store.Product, error) {
	body := searchRequest{Filters: map[string]string{"ingredientType": ingredientType}}

	var resp productSearchResponse
	if err := c.post(ctx, "fetch products", c.cfg.ProductsURL, body, &resp); err != nil {
		return nil, err
	}

	products := make([]store.Product, 0, len(resp.Results))
	for _, r := range resp.Results {
		products = append(products, store.Product{EAN: r.EAN, Name: r.LabelName.English})
	}
	return products, nil
}

// FetchStores returns the stores matching a postal code
func (c *Client) FetchStores(ctx context.Context, postalCode string) ([]store.Store, error) {
	body := searchRequest{Filters: map[string]string{"postCode": postalCode}}

	var resp storeSearchResponse
	if err := c.post(ctx, "fetch stores", c.cfg.StoresURL, body, &resp); err != nil {
		return nil, err
	}

	stores := make([]store.Store, 0, len(resp.Results))
	for _, r := range resp.Results {
		s := store.Store{
			ID:      r.ID,
			Name:    r.Name,
			Address: r.Address,
		}
		if len(r.OpeningHours) > 0 {
			s.OpeningHours = r.OpeningHours[0]
		}
		stores = append(stores, s)
	}
	return stores, nil
}

// FetchAvailability returns the store ids currently stocking the EAN. An
// empty retailer response normalizes to zero stores rather than an error.
func (c *Client) FetchAvailability(ctx context.Context, ean string) ([]store.ID, error) {
	const op = "fetch availability"

	u, err := url.Parse(c.cfg.AvailabilityURL)
	if err != nil {
		return nil, errors.NewRetailerResponseError(op, err)
	}
	q := u.Query()
	q.Set("ean", ean)
	u.RawQuery = q.Encode()

	var entries []availabilityEntry
	if err := c.get(ctx, op, u.String(), &entries); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	ids := make([]store.ID, 0, len(entries[0].Stores))
	for _, s := range entries[0].Stores {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// post issues an authenticated POST with a JSON body and decodes the reply
func (c *Client) post(ctx context.Context, op, rawURL string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.NewRetailerResponseError(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return errors.NewRetailerResponseError(op, err)
	}

	return c.do(op, req, out)
}

// get issues an authenticated GET and decodes the reply
func (c *Client) get(ctx context.Context, op, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.NewRetailerResponseError(op, err)
	}

	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out interface{}) error {
	ctx, span := otel.Tracer("reseptori").Start(req.Context(), "retailer."+op)
	defer span.End()
	req = req.WithContext(ctx)

	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts and transport failures surface as retailer response
		// errors: the caller cannot distinguish a slow retailer from a
		// broken one.
		c.observe(op, "transport_error")
		return errors.NewRetailerResponseError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(op, fmt.Sprintf("%d", resp.StatusCode))
		c.logger.Warn("Retailer API returned non-2xx status",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
		)
		return errors.NewRetailerResponseError(op,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.observe(op, "parse_error")
		return errors.NewRetailerResponseError(op, fmt.Errorf("malformed response: %w", err))
	}

	c.observe(op, "ok")
	return nil
}

func (c *Client) observe(op, outcome string) {
	if c.metrics != nil {
		c.metrics.calls.WithLabelValues(op, outcome).Inc()
	}
}

// Metrics counts retailer round trips by operation and outcome
type Metrics struct {
	calls *prometheus.CounterVec
}

// NewMetrics creates and registers the retailer call metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	calls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retailer_api_calls_total",
			Help: "Total number of retailer API round trips",
		},
		[]string{"operation", "outcome"},
	)
	reg.MustRegister(calls)
	return &Metrics{calls: calls}
}
