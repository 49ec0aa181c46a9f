package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
	"github.com/JhnDrwnl/appDevFinal/internal/auth"
	"github.com/JhnDrwnl/appDevFinal/internal/category"
	"github.com/JhnDrwnl/appDevFinal/internal/model"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/blobstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/cache"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/docstore"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/logger"
	"github.com/JhnDrwnl/appDevFinal/internal/platform/search"
	"github.com/JhnDrwnl/appDevFinal/internal/product"
	"github.com/JhnDrwnl/appDevFinal/internal/product/dto"
)

const productsIndex = "products"

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

type productUseCase struct {
	repo       product.Repository
	categories category.UseCase
	engine     product.Engine
	blobs      blobstore.Store
	cache      *cache.RedisClient
	es         *search.Client
	logger     logger.ZapLogger
}

func NewProductUseCase(
	repo product.Repository,
	categories category.UseCase,
	engine product.Engine,
	blobs blobstore.Store,
	cacheClient *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		engine:     engine,
		blobs:      blobs,
		cache:      cacheClient,
		es:         es,
		logger:     log,
	}
}

func (uc *productUseCase) uploadImage(ctx context.Context, img *dto.ImageUpload) (url, path string, err error) {
	fileName := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), unsafeFileChars.ReplaceAllString(img.FileName, "_"))
	path = "products/" + fileName

	handle, err := uc.blobs.Upload(ctx, path, img.Data)
	if err != nil {
		return "", "", err
	}
	url, err = uc.blobs.GetURL(ctx, handle)
	if err != nil {
		return "", "", err
	}
	return url, handle, nil
}

func (uc *productUseCase) cleanupBlobs(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := uc.blobs.Delete(ctx, path); err != nil {
			uc.logger.Error("failed to clean up uploaded blob", zap.String("path", path), zap.Error(err))
		}
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}
	if input.Name == "" || input.Price <= 0 {
		return nil, apperrors.Validation("name and price are required")
	}
	if input.Thumbnail == nil {
		return nil, apperrors.Validation("thumbnail is required")
	}

	var uploaded []string

	thumbURL, thumbPath, err := uc.uploadImage(ctx, input.Thumbnail)
	if err != nil {
		return nil, err
	}
	uploaded = append(uploaded, thumbPath)

	now := time.Now()
	categoryIDs := input.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	p := &model.Product{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		CategoryIDs:   categoryIDs,
		Tags:          tags,
		StockQuantity: input.StockQuantity,
		ThumbnailURL:  &thumbURL,
		ThumbnailPath: &thumbPath,
		ImageURLs:     []string{},
		ImagePaths:    []string{},
	}

	for i := range input.Images {
		url, path, err := uc.uploadImage(ctx, &input.Images[i])
		if err != nil {
			uc.cleanupBlobs(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, path)
		p.ImageURLs = append(p.ImageURLs, url)
		p.ImagePaths = append(p.ImagePaths, path)
	}

	if err := uc.repo.Set(ctx, p); err != nil {
		uc.cleanupBlobs(ctx, uploaded)
		return nil, err
	}

	for _, categoryID := range p.CategoryIDs {
		if err := uc.categories.IncrementProductCount(ctx, categoryID); err != nil {
			uc.logger.Error("failed to increment product count",
				zap.String("category_id", categoryID), zap.Error(err))
		}
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"description": { "type": "text" },
				"tags": { "type": "keyword" },
				"categoryIds": { "type": "keyword" },
				"price": { "type": "double" },
				"createdAt": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productsIndex, mapping)

	if err := uc.es.Index(ctx, productsIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product " + id)
	}
	return p, nil
}

func (uc *productUseCase) GetPricedProduct(ctx context.Context, id string) (*model.PricedProduct, error) {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := uc.engine.ResolveCatalog(ctx, p)
	if err != nil {
		return nil, err
	}
	return &model.PricedProduct{
		Product:           *p,
		OriginalPrice:     res.OriginalPrice,
		FinalPrice:        res.FinalPrice,
		AppliedPriceRules: res.AppliedPriceRules,
	}, nil
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func paginate(products []model.Product, page, pageSize int) []model.Product {
	if pageSize <= 0 {
		return products
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(products) {
		return []model.Product{}
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	var cacheKey string
	if uc.cache != nil {
		key, err := uc.generateCacheKey(filters)
		if err == nil {
			cacheKey = key
			val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
			if err == nil {
				var result struct {
					Products []model.Product
					Count    int
				}
				if err := json.Unmarshal([]byte(val), &result); err == nil {
					return result.Products, result.Count, nil
				}
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, err := uc.fetchFromStore(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	count := len(products)
	products = paginate(products, filters.Page, filters.PageSize)

	if cacheKey != "" {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{Products: products, Count: count}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return products, count, nil
}

func (uc *productUseCase) fetchFromStore(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	var products []model.Product
	var err error
	if filters.CategoryID != "" {
		products, err = uc.repo.FindByCategory(ctx, filters.CategoryID)
	} else {
		products, err = uc.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	if filters.SearchQuery != "" {
		q := strings.ToLower(filters.SearchQuery)
		matched := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
				matched = append(matched, p)
			}
		}
		products = matched
	}
	return products, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "tags", "description"},
			},
		},
	}
	if filters.CategoryID != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"categoryIds": filters.CategoryID},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
	}

	res, err := uc.es.Search(ctx, productsIndex, q)
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) ListPricedProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.PricedProduct, int, error) {
	products, count, err := uc.ListProducts(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	priced := make([]model.PricedProduct, 0, len(products))
	for i := range products {
		res, err := uc.engine.ResolveCatalog(ctx, &products[i])
		if err != nil {
			return nil, 0, err
		}
		priced = append(priced, model.PricedProduct{
			Product:           products[i],
			OriginalPrice:     res.OriginalPrice,
			FinalPrice:        res.FinalPrice,
			AppliedPriceRules: res.AppliedPriceRules,
		})
	}
	return priced, count, nil
}

func diffCategories(before, after []string) (added, removed []string) {
	was := map[string]bool{}
	for _, id := range before {
		was[id] = true
	}
	is := map[string]bool{}
	for _, id := range after {
		is[id] = true
		if !was[id] {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if !is[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if !auth.IsBackOffice(ctx) {
		return nil, apperrors.ErrUnauthorized
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product " + input.ID)
	}

	var uploaded []string
	patch := docstore.Patch{"updatedAt": time.Now()}

	if input.Name != nil {
		p.Name = *input.Name
		patch["name"] = p.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
		patch["description"] = p.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, apperrors.Validation("price must be positive")
		}
		p.Price = *input.Price
		patch["price"] = p.Price
	}
	if input.Tags != nil {
		p.Tags = *input.Tags
		patch["tags"] = p.Tags
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, apperrors.Validation("stock quantity must not be negative")
		}
		p.StockQuantity = *input.StockQuantity
		patch["stockQuantity"] = p.StockQuantity
	}

	var added, removed []string
	if input.CategoryIDs != nil {
		added, removed = diffCategories(p.CategoryIDs, *input.CategoryIDs)
		p.CategoryIDs = *input.CategoryIDs
		patch["categoryIds"] = p.CategoryIDs
	}

	var obsoleteBlobs []string
	if input.Thumbnail != nil {
		url, path, err := uc.uploadImage(ctx, input.Thumbnail)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, path)
		if p.ThumbnailPath != nil {
			obsoleteBlobs = append(obsoleteBlobs, *p.ThumbnailPath)
		}
		p.ThumbnailURL = &url
		p.ThumbnailPath = &path
		patch["thumbnailURL"] = url
		patch["thumbnailPath"] = path
	} else if input.RemoveThumbnail {
		if p.ThumbnailPath != nil {
			obsoleteBlobs = append(obsoleteBlobs, *p.ThumbnailPath)
		}
		p.ThumbnailURL = nil
		p.ThumbnailPath = nil
		patch["thumbnailURL"] = docstore.DeleteField
		patch["thumbnailPath"] = docstore.DeleteField
	}

	if input.KeepImageURLs != nil || len(input.NewImages) > 0 {
		keep := map[string]bool{}
		for _, url := range input.KeepImageURLs {
			keep[url] = true
		}

		var urls, paths []string
		for i, url := range p.ImageURLs {
			if keep[url] && i < len(p.ImagePaths) {
				urls = append(urls, url)
				paths = append(paths, p.ImagePaths[i])
			} else if i < len(p.ImagePaths) {
				obsoleteBlobs = append(obsoleteBlobs, p.ImagePaths[i])
			}
		}
		for i := range input.NewImages {
			url, path, err := uc.uploadImage(ctx, &input.NewImages[i])
			if err != nil {
				uc.cleanupBlobs(ctx, uploaded)
				return nil, err
			}
			uploaded = append(uploaded, path)
			urls = append(urls, url)
			paths = append(paths, path)
		}
		if urls == nil {
			urls, paths = []string{}, []string{}
		}
		p.ImageURLs = urls
		p.ImagePaths = paths
		patch["imageURLs"] = urls
		patch["imagePaths"] = paths
	}

	if err := uc.repo.Update(ctx, p.ID, patch); err != nil {
		uc.cleanupBlobs(ctx, uploaded)
		return nil, err
	}

	// Old blobs go only after the document update sticks.
	uc.cleanupBlobs(ctx, obsoleteBlobs)

	for _, categoryID := range added {
		if err := uc.categories.IncrementProductCount(ctx, categoryID); err != nil {
			uc.logger.Error("failed to increment product count",
				zap.String("category_id", categoryID), zap.Error(err))
		}
	}
	for _, categoryID := range removed {
		if err := uc.categories.DecrementProductCount(ctx, categoryID); err != nil {
			uc.logger.Error("failed to decrement product count",
				zap.String("category_id", categoryID), zap.Error(err))
		}
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if !auth.IsBackOffice(ctx) {
		return apperrors.ErrUnauthorized
	}

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // already deleted
	}

	blobs := append([]string{}, p.ImagePaths...)
	if p.ThumbnailPath != nil {
		blobs = append(blobs, *p.ThumbnailPath)
	}
	// Losing a blob delete must not block removing the product.
	uc.cleanupBlobs(ctx, blobs)

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, categoryID := range p.CategoryIDs {
		if err := uc.categories.DecrementProductCount(ctx, categoryID); err != nil {
			uc.logger.Error("failed to decrement product count",
				zap.String("category_id", categoryID), zap.Error(err))
		}
	}

	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productsIndex, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *productUseCase) SearchProductsByName(ctx context.Context, query string) ([]model.Product, error) {
	all, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matched []model.Product
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) {
			matched = append(matched, p)
		}
	}
	// Earlier match positions rank first, name order breaks ties.
	sort.SliceStable(matched, func(i, j int) bool {
		a := strings.Index(strings.ToLower(matched[i].Name), q)
		b := strings.Index(strings.ToLower(matched[j].Name), q)
		if a == b {
			return matched[i].Name < matched[j].Name
		}
		return a < b
	})
	if len(matched) > 5 {
		matched = matched[:5]
	}
	return matched, nil
}
