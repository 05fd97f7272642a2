package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/model"
	"github.com/flicky/gourmethub-api/internal/repository"
	"github.com/flicky/gourmethub-api/internal/validation"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSlug   = errors.New("a product with this title already exists")
)

const (
	DefaultProductLimit = 12
	MaxProductLimit     = 100
	RelatedLimit        = 4
	FeaturedLimit       = 8
)

type ProductService struct {
	productRepo repository.ProductRepository
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewProductService(productRepo repository.ProductRepository, redisClient *redis.Client, cacheTTL time.Duration) *ProductService {
	return &ProductService{productRepo: productRepo, redisClient: redisClient, cacheTTL: cacheTTL}
}

// ParseProductFilter validates the query string of a catalog listing.
func ParseProductFilter(req dto.ListProductsRequest) (model.ProductFilter, validation.Errors) {
	errs := validation.Errors{}
	f := model.ProductFilter{
		Brand:     strings.TrimSpace(req.Brand),
		IsOrganic: req.IsOrganic,
		Featured:  req.Featured,
		Search:    strings.TrimSpace(req.Search),
	}

	if req.Category != "" {
		c, err := model.ParseCategory(req.Category)
		if err != nil {
			errs.Add("category", err.Error())
		} else {
			f.Category = &c
		}
	}

	sort, err := model.ParseSortOption(req.Sort)
	if err != nil {
		errs.Add("sort", err.Error())
	}
	f.Sort = sort

	f.MinPrice = parsePrice(errs, "minPrice", req.MinPrice)
	f.MaxPrice = parsePrice(errs, "maxPrice", req.MaxPrice)
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		errs.Add("maxPrice", "Maximum price must not be below minimum price")
	}

	page, limit := req.Page, req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultProductLimit
	}
	if limit > MaxProductLimit {
		limit = MaxProductLimit
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit
	return f, errs
}

func parsePrice(errs validation.Errors, field, raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		errs.Add(field, "Price must be a non-negative number")
		return nil
	}
	return &d
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	filter, errs := ParseProductFilter(req)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &dto.ProductListResponse{
		Products: dto.NewProductResponses(products),
		Total:    total,
		Page:     filter.Offset/filter.Limit + 1,
		Limit:    filter.Limit,
		Pages:    (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := productCacheKey(id)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := dto.NewProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return &resp, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// Related returns the best-rated products sharing id's category.
func (s *ProductService) Related(ctx context.Context, id uuid.UUID) ([]dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	related, err := s.productRepo.Related(ctx, product.Category, product.ID, RelatedLimit)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	return dto.NewProductResponses(related), nil
}

func (s *ProductService) Featured(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.Featured(ctx, FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return dto.NewProductResponses(products), nil
}

func (s *ProductService) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	counts, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	out := make([]dto.CategoryResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.CategoryResponse{Category: c.Category, Count: c.Count})
	}
	return out, nil
}

func (s *ProductService) Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		Images:           req.Images,
		Category:         model.Category(req.Category),
		Subcategory:      req.Subcategory,
		Brand:            req.Brand,
		Stock:            req.Stock,
		Unit:             model.Unit(req.Unit),
		Ingredients:      req.Ingredients,
		NutritionalInfo:  req.NutritionalInfo,
		IsOrganic:        req.IsOrganic,
		IsFeatured:       req.IsFeatured,
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = decimal.NewNullDecimal(*req.DiscountPrice)
	}
	if req.Allergens != nil {
		product.Allergens = make([]model.Allergen, 0, len(req.Allergens))
		for _, a := range req.Allergens {
			product.Allergens = append(product.Allergens, model.Allergen(a))
		}
	}

	product.Normalize()
	if err := product.Validate().Err(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	applyProductUpdate(product, req)
	product.Normalize()
	if err := product.Validate().Err(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.InvalidateCache(ctx, id)
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func applyProductUpdate(p *model.Product, req dto.UpdateProductRequest) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ShortDescription != nil {
		p.ShortDescription = *req.ShortDescription
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.ClearDiscount {
		p.DiscountPrice = decimal.NullDecimal{}
	} else if req.DiscountPrice != nil {
		p.DiscountPrice = decimal.NewNullDecimal(*req.DiscountPrice)
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Category != nil {
		p.Category = model.Category(*req.Category)
	}
	if req.Subcategory != nil {
		p.Subcategory = *req.Subcategory
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Unit != nil {
		p.Unit = model.Unit(*req.Unit)
	}
	if req.Ingredients != nil {
		p.Ingredients = req.Ingredients
	}
	if req.NutritionalInfo != nil {
		p.NutritionalInfo = req.NutritionalInfo
	}
	if req.Allergens != nil {
		p.Allergens = make([]model.Allergen, 0, len(req.Allergens))
		for _, a := range req.Allergens {
			p.Allergens = append(p.Allergens, model.Allergen(a))
		}
	}
	if req.IsOrganic != nil {
		p.IsOrganic = *req.IsOrganic
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.InvalidateCache(ctx, id)
	return nil
}

// AddReview attaches a review and recomputes the product rating.
func (s *ProductService) AddReview(ctx context.Context, productID, userID uuid.UUID, userName string, req dto.ReviewRequest) (*dto.ProductResponse, error) {
	review := model.Review{
		UserID:    userID.String(),
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := model.ValidateReview(review).Err(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	product.AddReview(review)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	s.InvalidateCache(ctx, productID)
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// InvalidateCache drops the cached copy of a product so the next read goes
// to the database.
func (s *ProductService) InvalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, productCacheKey(id))
	}
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}
