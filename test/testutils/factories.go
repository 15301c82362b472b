package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/reseptori/backend/internal/domain/recipe"
	"github.com/reseptori/backend/internal/domain/store"
)

// Factory produces randomized but well-formed domain fixtures
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory with a fixed seed for reproducible tests
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Ingredient returns a random normalized ingredient
func (f *Factory) Ingredient() recipe.Ingredient {
	return recipe.Ingredient{
		Name:   f.faker.Vegetable(),
		Amount: float64(f.faker.Number(1, 500)),
		Unit:   f.faker.RandomString([]string{"g", "dl", "kpl", "tl", "rkl"}),
		Type:   fmt.Sprintf("%d", f.faker.Number(1000, 9999)),
	}
}

// Recipe returns a random recipe with n ingredients
func (f *Factory) Recipe(n int) *recipe.Recipe {
	ingredients := make([]recipe.Ingredient, n)
	for i := range ingredients {
		ingredients[i] = f.Ingredient()
	}
	return &recipe.Recipe{
		Name:         f.faker.Dinner(),
		Instructions: f.faker.Sentence(12),
		ImageURL:     f.faker.URL(),
		Ingredients:  ingredients,
	}
}

// Store returns a random store
func (f *Factory) Store() store.Store {
	return store.Store{
		ID:   store.ID(fmt.Sprintf("N%d", f.faker.Number(100, 999))),
		Name: fmt.Sprintf("K-Market %s", f.faker.City()),
	}
}

// Stores returns n random stores
func (f *Factory) Stores(n int) []store.Store {
	stores := make([]store.Store, n)
	for i := range stores {
		stores[i] = f.Store()
	}
	return stores
}

// EAN returns a random 13-digit product code
func (f *Factory) EAN() string {
	return fmt.Sprintf("%013d", f.faker.Number(1, 999999999))
}

// Product returns a random product
func (f *Factory) Product() store.Product {
	return store.Product{
		EAN:  f.EAN(),
		Name: f.faker.Breakfast(),
	}
}
