// Package testutils provides fakes and data factories shared by the test
// suites
package testutils

import (
	"context"
	"fmt"

	"github.com/reseptori/backend/internal/domain/recipe"
	"github.com/reseptori/backend/internal/domain/store"
	"github.com/reseptori/backend/internal/ports/outbound"
)

// FakeGateway is a scriptable RetailerGateway. Unset functions fail the
// call, so tests only wire what they exercise.
type FakeGateway struct {
	FetchRecipeFn         func(ctx context.Context, recipeID int, mainCategory, subCategory string) (*recipe.Recipe, error)
	FetchProductsByTypeFn func(ctx context.Context, ingredientType string) ([]store.Product, error)
	FetchStoresFn         func(ctx context.Context, postalCode string) ([]store.Store, error)
	FetchAvailabilityFn   func(ctx context.Context, ean string) ([]store.ID, error)
}

var _ outbound.RetailerGateway = (*FakeGateway)(nil)

func (f *FakeGateway) FetchRecipe(ctx context.Context, recipeID int, mainCategory, subCategory string) (*recipe.Recipe, error) {
	if f.FetchRecipeFn == nil {
		return nil, fmt.Errorf("FetchRecipe not scripted")
	}
	return f.FetchRecipeFn(ctx, recipeID, mainCategory, subCategory)
}

func (f *FakeGateway) FetchProductsByType(ctx context.Context, ingredientType string) ([]store.Product, error) {
	if f.FetchProductsByTypeFn == nil {
		return nil, fmt.Errorf("FetchProductsByType not scripted")
	}
	return f.FetchProductsByTypeFn(ctx, ingredientType)
}

func (f *FakeGateway) FetchStores(ctx context.Context, postalCode string) ([]store.Store, error) {
	if f.FetchStoresFn == nil {
		return nil, fmt.Errorf("FetchStores not scripted")
	}
	return f.FetchStoresFn(ctx, postalCode)
}

func (f *FakeGateway) FetchAvailability(ctx context.Context, ean string) ([]store.ID, error) {
	if f.FetchAvailabilityFn == nil {
		return nil, fmt.Errorf("FetchAvailability not scripted")
	}
	return f.FetchAvailabilityFn(ctx, ean)
}

// FakeModel is a scriptable RecipeModel
type FakeModel struct {
	InferFn    func(items []int, decodeStep int) (int, error)
	Classes    int
	Vocabulary int

	// InferCalls records every (items, decodeStep) pair
	InferCalls []InferCall
}

// InferCall is one recorded inference invocation
type InferCall struct {
	Items      []int
	DecodeStep int
}

var _ outbound.RecipeModel = (*FakeModel)(nil)

func (f *FakeModel) Infer(items []int, decodeStep int) (int, error) {
	recorded := append([]int(nil), items...)
	f.InferCalls = append(f.InferCalls, InferCall{Items: recorded, DecodeStep: decodeStep})
	if f.InferFn == nil {
		return 0, nil
	}
	return f.InferFn(items, decodeStep)
}

func (f *FakeModel) ClassCount() int { return f.Classes }

func (f *FakeModel) VocabSize() int { return f.Vocabulary }

// FakeModelProvider hands out a fixed model or a fixed load error
type FakeModelProvider struct {
	ModelVal outbound.RecipeModel
	Err      error
}

var _ outbound.ModelProvider = (*FakeModelProvider)(nil)

func (f *FakeModelProvider) Model() (outbound.RecipeModel, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ModelVal, nil
}
