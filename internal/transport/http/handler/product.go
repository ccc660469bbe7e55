package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/service"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/utils"
)

type ProductHandler struct {
	catalog  service.CatalogService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		logger:   logger,
		validate: validator.New(),
	}
}

// List serves the storefront catalog: filter, sort, paginate, in that
// order. Unknown sort keys fall back to newest-first.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := domain.ProductFilter{
		Search:    c.Query("search"),
		Format:    c.Query("format"),
		Condition: c.Query("condition"),
		Sort:      c.Query("sort"),
		Page:      int64(c.QueryInt("page", 1)),
		Limit:     int64(c.QueryInt("limit", 12)),
	}

	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.MaxPrice = &v
		}
	}

	page, err := h.catalog.ListProducts(c.UserContext(), filter)
	if err != nil {
		ctxlog.Error(c.UserContext(), h.logger, "list products failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(page)
}

// Get resolves the detail path param as a slug or a numeric id, matching
// what the storefront client sends from either a listing or a deep link.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	param := c.Params("slugOrId")

	var (
		product *domain.Product
		err     error
	)
	if id, convErr := strconv.ParseInt(param, 10, 64); convErr == nil {
		product, err = h.catalog.GetProductByID(c.UserContext(), id)
	} else {
		product, err = h.catalog.GetProductBySlug(c.UserContext(), param)
	}

	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "product not found",
			})
		}

		ctxlog.Error(c.UserContext(), h.logger, "get product failed",
			zap.String("product", param), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(product)
}

type createProductInput struct {
	SKU         string `json:"sku" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Name        string `json:"name" validate:"required,min=2"`
	Artist      string `json:"artist" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	ImageUrl    string `json:"image"`
	Category    string `json:"category"`
	Format      string `json:"format" validate:"required,oneof=VINYL_LP VINYL_SINGLE CD_ALBUM CASSETTE"`
	Condition   string `json:"condition" validate:"required,oneof=SEALED NEAR_MINT VERY_GOOD GOOD"`
	Stock       int64  `json:"stock" validate:"gte=0"`
	MinStock    int64  `json:"minStock" validate:"gte=0"`
	ReleaseYear int32  `json:"releaseYear"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input createProductInput

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	product := &domain.Product{
		SKU:         input.SKU,
		Slug:        input.Slug,
		Name:        input.Name,
		Artist:      input.Artist,
		Description: input.Description,
		Price:       input.Price,
		ImageUrl:    input.ImageUrl,
		Category:    input.Category,
		Format:      domain.ProductFormat(input.Format),
		Condition:   domain.ProductCondition(input.Condition),
		Stock:       input.Stock,
		MinStock:    input.MinStock,
		ReleaseYear: input.ReleaseYear,
	}

	id, err := h.catalog.CreateProduct(c.UserContext(), product)
	if err != nil {
		ctxlog.Error(c.UserContext(), h.logger, "create product failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     id,
		"status": "success",
	})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	var input domain.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), id, &input)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "product not found",
			})
		}

		ctxlog.Error(c.UserContext(), h.logger, "update product failed",
			zap.Int64("id", id), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	if err := h.catalog.DeleteProduct(c.UserContext(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "product not found",
			})
		}

		ctxlog.Error(c.UserContext(), h.logger, "delete product failed",
			zap.Int64("id", id), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}
