package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/auth"
	"github.com/JhnDrwnl/appDevFinal/internal/category"
	categoryDto "github.com/JhnDrwnl/appDevFinal/internal/category/dto"
	categoryRepo "github.com/JhnDrwnl/appDevFinal/internal/category/repository"
	categoryUC "github.com/JhnDrwnl/appDevFinal/internal/category/usecase"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/blobstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	priceRuleRepo "github.com/JhnDrwnl/appDevFinal/internal/pricerule/repository"
	"github.com/JhnDrwnl/appDevFinal/internal/pricing"
	"github.com/JhnDrwnl/appDevFinal/internal/product"
	"github.com/JhnDrwnl/appDevFinal/internal/product/dto"
	productRepo "github.com/JhnDrwnl/appDevFinal/internal/product/repository"
)

type fixture struct {
	products   product.UseCase
	categories category.UseCase
	rules      *priceRuleRepo.DocRepository
	blobs      *blobstore.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	categories := categoryRepo.NewDocRepository(store)
	rules := priceRuleRepo.NewDocRepository(store)
	products := productRepo.NewDocRepository(store)
	blobs := blobstore.NewMemoryStore("http://blobs.test")
	engine := pricing.NewEngine(categories, categories, rules, rules)
	categoryService := categoryUC.NewCategoryUseCase(categories, logger.NewNop())

	return &fixture{
		products:   NewProductUseCase(products, categoryService, engine, blobs, nil, nil, logger.NewNop()),
		categories: categoryService,
		rules:      rules,
		blobs:      blobs,
	}
}

func adminCtx() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin})
}

func thumb() *dto.ImageUpload {
	return &dto.ImageUpload{FileName: "thumb.png", Data: []byte("png-bytes")}
}

func createProduct(t *testing.T, f *fixture, name string, price float64, categoryIDs ...string) *model.Product {
	t.Helper()
	p, err := f.products.CreateProduct(adminCtx(), &dto.CreateProductInput{
		Name:        name,
		Price:       price,
		CategoryIDs: categoryIDs,
		Thumbnail:   thumb(),
	})
	require.NoError(t, err)
	return p
}

func TestCreateProductRequiresThumbnail(t *testing.T) {
	f := newFixture(t)

	_, err := f.products.CreateProduct(adminCtx(), &dto.CreateProductInput{Name: "Cola", Price: 10})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.products.CreateProduct(context.Background(), &dto.CreateProductInput{Name: "Cola", Price: 10, Thumbnail: thumb()})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCreateProductIncrementsCategoryCounts(t *testing.T) {
	f := newFixture(t)
	c, err := f.categories.AddCategory(adminCtx(), &categoryDto.CreateCategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	p := createProduct(t, f, "Cola", 10, c.ID)
	require.NotNil(t, p.ThumbnailURL)
	assert.Contains(t, *p.ThumbnailURL, "http://blobs.test/products/")

	got, err := f.categories.GetCategory(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ProductCount)
}

func TestUpdateProductAdjustsCountsOnMembershipChange(t *testing.T) {
	f := newFixture(t)
	a, err := f.categories.AddCategory(adminCtx(), &categoryDto.CreateCategoryInput{Name: "A"})
	require.NoError(t, err)
	b, err := f.categories.AddCategory(adminCtx(), &categoryDto.CreateCategoryInput{Name: "B"})
	require.NoError(t, err)

	p := createProduct(t, f, "Cola", 10, a.ID)

	newCategories := []string{b.ID}
	_, err = f.products.UpdateProduct(adminCtx(), &dto.UpdateProductInput{ID: p.ID, CategoryIDs: &newCategories})
	require.NoError(t, err)

	gotA, err := f.categories.GetCategory(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotA.ProductCount)

	gotB, err := f.categories.GetCategory(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotB.ProductCount)
}

func TestDeleteProductDecrementsCounts(t *testing.T) {
	f := newFixture(t)
	c, err := f.categories.AddCategory(adminCtx(), &categoryDto.CreateCategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	p := createProduct(t, f, "Cola", 10, c.ID)
	require.NoError(t, f.products.DeleteProduct(adminCtx(), p.ID))

	_, err = f.products.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := f.categories.GetCategory(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ProductCount)

	// Deleting an already-deleted product is a no-op.
	assert.NoError(t, f.products.DeleteProduct(adminCtx(), p.ID))
}

func TestGetPricedProductAppliesCategoryRules(t *testing.T) {
	f := newFixture(t)
	c, err := f.categories.AddCategory(adminCtx(), &categoryDto.CreateCategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	rule := &model.PriceRule{ID: "summer-sale_percentage", Name: "Summer Sale", Value: 10, Type: model.RuleTypePercentage}
	_, err = f.categories.SetCategoryPriceRule(adminCtx(), c.ID, rule)
	require.NoError(t, err)

	p := createProduct(t, f, "Cola", 100, c.ID)

	priced, err := f.products.GetPricedProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, priced.OriginalPrice)
	assert.Equal(t, 90.0, priced.FinalPrice)
	require.Len(t, priced.AppliedPriceRules, 1)
	assert.Equal(t, "Summer Sale", priced.AppliedPriceRules[0].RuleName)
}

func TestListProductsFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	c, err := f.categories.AddCategory(adminCtx(), &categoryDto.CreateCategoryInput{Name: "Drinks"})
	require.NoError(t, err)

	createProduct(t, f, "Cola", 10, c.ID)
	createProduct(t, f, "Orange Juice", 12, c.ID)
	createProduct(t, f, "Bread", 5)

	byCategory, count, err := f.products.ListProducts(context.Background(), &dto.ProductFilters{CategoryID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, byCategory, 2)

	bySearch, count, err := f.products.ListProducts(context.Background(), &dto.ProductFilters{SearchQuery: "juice"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Orange Juice", bySearch[0].Name)

	page, count, err := f.products.ListProducts(context.Background(), &dto.ProductFilters{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, page, 1)
}

func TestSearchProductsByNameRanksByMatchPosition(t *testing.T) {
	f := newFixture(t)

	createProduct(t, f, "Chocolate Cola", 10)
	createProduct(t, f, "Cola", 10)
	createProduct(t, f, "Cola Zero", 10)
	createProduct(t, f, "Bread", 5)

	results, err := f.products.SearchProductsByName(context.Background(), "cola")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Cola", results[0].Name)
	assert.Equal(t, "Cola Zero", results[1].Name)
	assert.Equal(t, "Chocolate Cola", results[2].Name)
}

func TestUpdateProductImageHandling(t *testing.T) {
	f := newFixture(t)

	p, err := f.products.CreateProduct(adminCtx(), &dto.CreateProductInput{
		Name:      "Cola",
		Price:     10,
		Thumbnail: thumb(),
		Images: []dto.ImageUpload{
			{FileName: "a.png", Data: []byte("a")},
			{FileName: "b.png", Data: []byte("b")},
		},
	})
	require.NoError(t, err)
	require.Len(t, p.ImageURLs, 2)

	keep := []string{p.ImageURLs[0]}
	updated, err := f.products.UpdateProduct(adminCtx(), &dto.UpdateProductInput{
		ID:            p.ID,
		KeepImageURLs: keep,
		NewImages:     []dto.ImageUpload{{FileName: "c.png", Data: []byte("c")}},
	})
	require.NoError(t, err)
	require.Len(t, updated.ImageURLs, 2)
	assert.Equal(t, keep[0], updated.ImageURLs[0])
}
