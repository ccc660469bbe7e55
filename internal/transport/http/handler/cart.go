package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/cart"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/service"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
)

const cartCookie = "cart_id"

// CartHandler binds the anonymous cart to a cookie. Prices on cart items
// are snapshots taken from the catalog when the item is added.
type CartHandler struct {
	carts     *cart.Store
	catalog   service.CatalogService
	cookieTTL time.Duration
	logger    *zap.Logger
}

func NewCartHandler(carts *cart.Store, catalog service.CatalogService, cookieTTL time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:     carts,
		catalog:   catalog,
		cookieTTL: cookieTTL,
		logger:    logger,
	}
}

func (h *CartHandler) cartID(c *fiber.Ctx) string {
	if id := c.Cookies(cartCookie); id != "" {
		return id
	}

	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     cartCookie,
		Value:    id,
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return id
}

func (h *CartHandler) view(c *fiber.Ctx, cartID string) error {
	items, err := h.carts.Items(c.UserContext(), cartID)
	if err != nil {
		ctxlog.Error(c.UserContext(), h.logger, "load cart failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	var totalItems int32
	var subtotal int64
	for _, item := range items {
		totalItems += item.Quantity
		subtotal += item.Price * int64(item.Quantity)
	}

	return c.JSON(fiber.Map{
		"items":      items,
		"totalItems": totalItems,
		"subtotal":   subtotal,
	})
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	return h.view(c, h.cartID(c))
}

type addItemInput struct {
	ProductID int64 `json:"productId"`
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var input addItemInput

	if err := c.BodyParser(&input); err != nil || input.ProductID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "productId is required",
		})
	}

	product, err := h.catalog.GetProductByID(c.UserContext(), input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "product not found",
			})
		}

		ctxlog.Error(c.UserContext(), h.logger, "add to cart failed",
			zap.Int64("product_id", input.ProductID), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	cartID := h.cartID(c)

	err = h.carts.AddItem(c.UserContext(), cartID, domain.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		ImageUrl: product.ImageUrl,
		Artist:   product.Artist,
		Category: product.Category,
	})
	if err != nil {
		ctxlog.Error(c.UserContext(), h.logger, "add to cart failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return h.view(c, cartID)
}

type updateQuantityInput struct {
	Quantity int32 `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	itemID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid item id",
		})
	}

	var input updateQuantityInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	cartID := h.cartID(c)

	if err := h.carts.UpdateQuantity(c.UserContext(), cartID, itemID, input.Quantity); err != nil {
		ctxlog.Error(c.UserContext(), h.logger, "update quantity failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return h.view(c, cartID)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	itemID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid item id",
		})
	}

	cartID := h.cartID(c)

	if err := h.carts.RemoveItem(c.UserContext(), cartID, itemID); err != nil {
		ctxlog.Error(c.UserContext(), h.logger, "remove item failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return h.view(c, cartID)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cartID := h.cartID(c)

	if err := h.carts.Clear(c.UserContext(), cartID); err != nil {
		ctxlog.Error(c.UserContext(), h.logger, "clear cart failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return h.view(c, cartID)
}
