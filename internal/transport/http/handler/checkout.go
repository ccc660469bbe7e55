package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/checkout"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/utils"
)

type CheckoutHandler struct {
	workflow checkout.Workflow
	logger   *zap.Logger
}

func NewCheckoutHandler(workflow checkout.Workflow, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		workflow: workflow,
		logger:   logger,
	}
}

func (h *CheckoutHandler) fail(c *fiber.Ctx, op string, err error) error {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "checkout session not found",
		})
	case errors.Is(err, checkout.ErrStepLocked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "previous checkout steps are incomplete",
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cart is empty",
		})
	}

	ctxlog.Error(c.UserContext(), h.logger, op+" failed", zap.Error(err))

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
	})
}

func (h *CheckoutHandler) Start(c *fiber.Ctx) error {
	cartID := c.Cookies(cartCookie)
	if cartID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cart is empty",
		})
	}

	session, err := h.workflow.Start(c.UserContext(), cartID)
	if err != nil {
		return h.fail(c, "start checkout", err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *CheckoutHandler) Get(c *fiber.Ctx) error {
	session, err := h.workflow.Session(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "get checkout", err)
	}

	return c.JSON(session)
}

func (h *CheckoutHandler) SetContact(c *fiber.Ctx) error {
	var input checkout.ContactInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	session, err := h.workflow.SetContact(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return h.fail(c, "set contact", err)
	}

	return c.JSON(session)
}

func (h *CheckoutHandler) SetShipping(c *fiber.Ctx) error {
	var input checkout.ShippingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	session, err := h.workflow.SetShipping(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return h.fail(c, "set shipping", err)
	}

	return c.JSON(session)
}

func (h *CheckoutHandler) SetPayment(c *fiber.Ctx) error {
	var input checkout.PaymentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	session, err := h.workflow.SetPayment(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return h.fail(c, "set payment", err)
	}

	return c.JSON(session)
}

func (h *CheckoutHandler) Review(c *fiber.Ctx) error {
	summary, err := h.workflow.Review(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "review checkout", err)
	}

	return c.JSON(summary)
}

func (h *CheckoutHandler) Confirm(c *fiber.Ctx) error {
	order, err := h.workflow.Confirm(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "confirm checkout", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
	})
}
