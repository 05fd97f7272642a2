package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/gourmethub-api/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)
	Related(ctx context.Context, category model.Category, excludeID uuid.UUID, limit int) ([]model.Product, error)
	Featured(ctx context.Context, limit int) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.CategoryCount, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
	Count(ctx context.Context) (int, error)
}

const productColumns = `id, title, slug, description, short_description, price, discount_price, images,
	category, subcategory, brand, stock, unit, ingredients, nutritional_info, allergens,
	is_organic, is_featured, rating, num_reviews, reviews, created_at, updated_at`

var productOrderBy = map[model.SortOption]string{
	model.SortPopular:   "num_reviews DESC, rating DESC, created_at DESC",
	model.SortNewest:    "created_at DESC",
	model.SortPriceAsc:  "price ASC",
	model.SortPriceDesc: "price DESC",
	model.SortRating:    "rating DESC, num_reviews DESC",
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.ShortDescription, &p.Price, &p.DiscountPrice, &p.Images,
		&p.Category, &p.Subcategory, &p.Brand, &p.Stock, &p.Unit, &p.Ingredients, &p.NutritionalInfo, &p.Allergens,
		&p.IsOrganic, &p.IsFeatured, &p.Rating, &p.NumReviews, &p.Reviews, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()
	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	query := `INSERT INTO products (id, title, slug, description, short_description, price, discount_price, images,
			  category, subcategory, brand, stock, unit, ingredients, nutritional_info, allergens,
			  is_organic, is_featured, rating, num_reviews, reviews, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW(), NOW())
			  RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Title, product.Slug, product.Description, product.ShortDescription,
		product.Price, product.DiscountPrice, product.Images, product.Category, product.Subcategory,
		product.Brand, product.Stock, product.Unit, product.Ingredients, product.NutritionalInfo,
		product.Allergens, product.IsOrganic, product.IsFeatured, product.Rating, product.NumReviews,
		product.Reviews,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

// buildProductWhere turns the filter into a WHERE clause and its arguments.
func buildProductWhere(f model.ProductFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != nil {
		add("category = $%d", *f.Category)
	}
	if f.Brand != "" {
		add("brand = $%d", f.Brand)
	}
	if f.IsOrganic != nil {
		add("is_organic = $%d", *f.IsOrganic)
	}
	if f.Featured {
		conds = append(conds, "is_featured")
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add(`title ILIKE '%%' || $%d || '%%'`, escapeLike(s))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *pgProductRepo) List(ctx context.Context, f model.ProductFilter) ([]model.Product, int, error) {
	where, args := buildProductWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	orderBy, ok := productOrderBy[f.Sort]
	if !ok {
		orderBy = productOrderBy[model.SortPopular]
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s, id LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy, n+1, n+2)

	rows, err := r.pool.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *pgProductRepo) Related(ctx context.Context, category model.Category, excludeID uuid.UUID, limit int) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = $1 AND id <> $2
		 ORDER BY rating DESC, id LIMIT $3`,
		category, excludeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	return collectProducts(rows)
}

func (r *pgProductRepo) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_featured ORDER BY rating DESC, id LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return collectProducts(rows)
}

func (r *pgProductRepo) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) AS n FROM products GROUP BY category ORDER BY n DESC, category`,
	)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET title=$2, slug=$3, description=$4, short_description=$5, price=$6,
			  discount_price=$7, images=$8, category=$9, subcategory=$10, brand=$11, stock=$12, unit=$13,
			  ingredients=$14, nutritional_info=$15, allergens=$16, is_organic=$17, is_featured=$18,
			  rating=$19, num_reviews=$20, reviews=$21, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Title, product.Slug, product.Description, product.ShortDescription,
		product.Price, product.DiscountPrice, product.Images, product.Category, product.Subcategory,
		product.Brand, product.Stock, product.Unit, product.Ingredients, product.NutritionalInfo,
		product.Allergens, product.IsOrganic, product.IsFeatured, product.Rating, product.NumReviews,
		product.Reviews,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DecrementStock lowers stock by quantity, stopping at zero. Stock is
// advisory, so running short is not an error.
func (r *pgProductRepo) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products SET stock = GREATEST(stock - $2, 0), updated_at = NOW() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
