package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error
	DeleteByID(ctx context.Context, id int64) error
}

type productRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewProductRepository(pool *pgxpool.Pool, logger *zap.Logger) ProductRepository {
	return &productRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("vinilos/product_repo"),
	}
}

const productColumns = `id, sku, slug, name, artist, description, price, image_url,
		category, format, condition, stock, min_stock, release_year, created_at, updated_at`

// sortClauses whitelists the catalog sort keys. Anything else falls back to
// newest.
var sortClauses = map[string]string{
	"newest":     "created_at DESC",
	"price_asc":  "price ASC",
	"price_desc": "price DESC",
	"name_asc":   "name ASC",
	"name_desc":  "name DESC",
}

func (r *productRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.String("search", filter.Search),
		attribute.String("sort", filter.Sort),
		attribute.Int64("page", filter.Page),
		attribute.Int64("limit", filter.Limit),
	)

	where := []string{"deleted_at IS NULL"}
	var args []interface{}
	argId := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR artist ILIKE $%d)", argId, argId))
		args = append(args, "%"+filter.Search+"%")
		argId++
	}

	if filter.Format != "" {
		where = append(where, fmt.Sprintf("format = $%d", argId))
		args = append(args, filter.Format)
		argId++
	}

	if filter.Condition != "" {
		where = append(where, fmt.Sprintf("condition = $%d", argId))
		args = append(args, filter.Condition)
		argId++
	}

	if filter.MinPrice != nil {
		where = append(where, fmt.Sprintf("price >= $%d", argId))
		args = append(args, *filter.MinPrice)
		argId++
	}

	if filter.MaxPrice != nil {
		where = append(where, fmt.Sprintf("price <= $%d", argId))
		args = append(args, *filter.MaxPrice)
		argId++
	}

	whereClause := strings.Join(where, " AND ")

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = sortClauses["newest"]
	}

	countQuery := "SELECT COUNT(*) FROM products WHERE " + whereClause

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to count products",
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, whereClause, orderBy, argId, argId+1,
	)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error getting products",
			zap.String("search", filter.Search),
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("error selecting products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			span.RecordError(err)

			ctxlog.Error(
				ctx,
				r.logger,
				"Failed to scan rows",
				zap.Error(err),
			)

			return nil, 0, fmt.Errorf("error scanning rows: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Rows iteration error",
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.SKU,
		&p.Slug,
		&p.Name,
		&p.Artist,
		&p.Description,
		&p.Price,
		&p.ImageUrl,
		&p.Category,
		&p.Format,
		&p.Condition,
		&p.Stock,
		&p.MinStock,
		&p.ReleaseYear,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1 AND deleted_at IS NULL;
	`, productColumns)

	var res domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id), &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error get by id",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting product: %w", err)
	}

	return &res, nil
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetBySlug")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", slug),
	)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE slug = $1 AND deleted_at IS NULL;
	`, productColumns)

	var res domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, slug), &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error get by slug",
			zap.String("slug", slug),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting product: %w", err)
	}

	return &res, nil
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("name", product.Name),
		attribute.String("sku", product.SKU),
	)

	query := `
		INSERT INTO products (sku, slug, name, artist, description, price, image_url,
			category, format, condition, stock, min_stock, release_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id;
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		product.SKU,
		product.Slug,
		product.Name,
		product.Artist,
		product.Description,
		product.Price,
		product.ImageUrl,
		product.Category,
		product.Format,
		product.Condition,
		product.Stock,
		product.MinStock,
		product.ReleaseYear,
	).Scan(&product.ID)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error creating product",
			zap.Error(err),
		)

		return 0, fmt.Errorf("error creating product: %w", err)
	}

	return product.ID, nil
}

func (r *productRepo) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	var updates []string
	var args []interface{}
	argId := 1

	appendUpdate := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argId))
		args = append(args, value)
		argId++
	}

	if input.Name != nil {
		appendUpdate("name", *input.Name)
	}
	if input.Artist != nil {
		appendUpdate("artist", *input.Artist)
	}
	if input.Description != nil {
		appendUpdate("description", *input.Description)
	}
	if input.Price != nil {
		appendUpdate("price", *input.Price)
	}
	if input.Stock != nil {
		appendUpdate("stock", *input.Stock)
	}
	if input.MinStock != nil {
		appendUpdate("min_stock", *input.MinStock)
	}
	if input.ImageUrl != nil {
		appendUpdate("image_url", *input.ImageUrl)
	}
	if input.Category != nil {
		appendUpdate("category", *input.Category)
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")

	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d AND deleted_at IS NULL",
		strings.Join(updates, ", "), argId,
	)
	args = append(args, id)

	commandTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to update product",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating product: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepo) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE products
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Error deleting product by id",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error deleting product by id: %v", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}
