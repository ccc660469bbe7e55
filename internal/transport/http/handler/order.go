package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/service"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/utils"
)

type OrderHandler struct {
	orders   service.OrderService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		logger:   logger,
		validate: validator.New(),
	}
}

type createOrderItemInput struct {
	ProductID int64  `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Artist    string `json:"artist"`
	Category  string `json:"category"`
	Price     int64  `json:"price" validate:"required,gt=0"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
	Image     string `json:"image"`
}

type createOrderInput struct {
	Customer struct {
		Email         string `json:"email" validate:"required,email"`
		FirstName     string `json:"firstName" validate:"required"`
		LastName      string `json:"lastName" validate:"required"`
		Phone         string `json:"phone" validate:"required"`
		CreateAccount bool   `json:"createAccount"`
	} `json:"customer"`
	Shipping struct {
		Street    string `json:"street" validate:"required"`
		Number    string `json:"number" validate:"required"`
		Apartment string `json:"apartment"`
		Region    string `json:"region" validate:"required"`
		City      string `json:"city" validate:"required"`
		Comuna    string `json:"comuna" validate:"required"`
		ZipCode   string `json:"zipCode"`
	} `json:"shipping"`
	Payment struct {
		Method string `json:"method" validate:"required,oneof=webpay mercadopago flow transfer"`
	} `json:"payment"`
	Items    []createOrderItemInput `json:"items" validate:"required,min=1,dive"`
	Total    int64                  `json:"total"`
	Subtotal int64                  `json:"subtotal"`
}

// Create is the single-shot order submission used by clients that skip the
// stepped checkout session and post the whole draft at once.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var input createOrderInput
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

	draft := domain.DraftOrder{
		Customer: domain.Contact{
			Email:         input.Customer.Email,
			FirstName:     input.Customer.FirstName,
			LastName:      input.Customer.LastName,
			Phone:         input.Customer.Phone,
			CreateAccount: input.Customer.CreateAccount,
		},
		Shipping: domain.Address{
			Street:    input.Shipping.Street,
			Number:    input.Shipping.Number,
			Apartment: input.Shipping.Apartment,
			Region:    input.Shipping.Region,
			City:      input.Shipping.City,
			Comuna:    input.Shipping.Comuna,
			ZipCode:   input.Shipping.ZipCode,
		},
		Payment:  domain.PaymentMethod(input.Payment.Method),
		Subtotal: input.Subtotal,
		Total:    input.Total,
	}

	for _, item := range input.Items {
		draft.Items = append(draft.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Artist:    item.Artist,
			Category:  item.Category,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageUrl:  item.Image,
		})
	}

	order, err := h.orders.PlaceOrder(c.UserContext(), draft)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyDraft):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "order has no items",
			})
		case errors.Is(err, service.ErrInvalidPayment):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown payment method",
			})
		}

		ctxlog.Error(c.UserContext(), h.logger, "create order failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
	})
}

// Get serves the public confirmation page lookup by order number.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	order, err := h.orders.GetOrder(c.UserContext(), orderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "order not found",
			})
		}

		ctxlog.Error(c.UserContext(), h.logger, "get order failed",
			zap.String("order_number", orderNumber), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(order)
}

// List is the back-office order board: optional status filter plus a
// case-sensitive substring search over number, name and email.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	search := c.Query("search")

	orders, err := h.orders.ListOrders(c.UserContext(), status, search)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown order status",
			})
		}

		ctxlog.Error(c.UserContext(), h.logger, "list orders failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  len(orders),
	})
}

type updateStatusInput struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	var input updateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), orderNumber, domain.OrderStatus(input.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown order status",
			})
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "order not found",
			})
		}

		ctxlog.Error(c.UserContext(), h.logger, "update order status failed",
			zap.String("order_number", orderNumber), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(order)
}
