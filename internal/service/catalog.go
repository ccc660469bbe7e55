package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

// CatalogService serves the storefront product listing and the back-office
// product CRUD.
type CatalogService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (int64, error)
	UpdateProduct(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	products repository.ProductRepository
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewCatalogService(products repository.ProductRepository, logger *zap.Logger) CatalogService {
	return &catalogService{
		products: products,
		logger:   logger,
		tracer:   otel.Tracer("vinilos/catalog_service"),
	}
}

func (s *catalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	totalPages := total / filter.Limit
	if total%filter.Limit != 0 {
		totalPages++
	}

	span.SetAttributes(
		attribute.Int64("catalog.total", total),
		attribute.Int64("catalog.page", filter.Page),
	)

	return &domain.ProductPage{
		Products: products,
		Pagination: domain.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProductBySlug")
	defer span.End()

	return s.products.GetBySlug(ctx, slug)
}

func (s *catalogService) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProductByID")
	defer span.End()

	return s.products.GetByID(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	id, err := s.products.Create(ctx, product)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	ctxlog.Info(ctx, s.logger, "product created",
		zap.Int64("id", id), zap.String("sku", product.SKU))

	return id, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if err := s.products.Update(ctx, id, input); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return s.products.GetByID(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if err := s.products.DeleteByID(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	ctxlog.Info(ctx, s.logger, "product deleted", zap.Int64("id", id))

	return nil
}
