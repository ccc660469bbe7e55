package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/cart"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
)

var (
	// ErrStepLocked means the caller tried to submit a step before the
	// earlier ones hold validated data.
	ErrStepLocked = errors.New("previous checkout steps are incomplete")

	// ErrEmptyCart rejects review and confirmation of a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// ContactInput is step one. CreateAccount is recorded but carries no
// behavior at checkout time.
type ContactInput struct {
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"firstName" validate:"required,min=2"`
	LastName      string `json:"lastName" validate:"required,min=2"`
	Phone         string `json:"phone" validate:"required,min=8"`
	CreateAccount bool   `json:"createAccount"`
}

type ShippingInput struct {
	Street    string `json:"street" validate:"required,min=3"`
	Number    string `json:"number" validate:"required"`
	Apartment string `json:"apartment"`
	Region    string `json:"region" validate:"required"`
	City      string `json:"city" validate:"required"`
	Comuna    string `json:"comuna" validate:"required"`
	ZipCode   string `json:"zipCode"`
}

type PaymentInput struct {
	Method string `json:"method" validate:"required,oneof=webpay mercadopago flow transfer"`
}

// ReviewSummary is everything the final step renders: the draft so far plus
// the money lines computed from the live cart.
type ReviewSummary struct {
	Session  *domain.CheckoutSession `json:"session"`
	Items    []domain.CartItem       `json:"items"`
	Subtotal int64                   `json:"subtotal"`
	Shipping int64                   `json:"shipping"`
	Tax      int64                   `json:"tax"`
	Total    int64                   `json:"total"`
}

// OrderPlacer persists a validated draft and returns the stored order.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, draft domain.DraftOrder) (*domain.Order, error)
}

// Totals carries the storefront money rules into the workflow.
type Totals struct {
	FreeShippingFrom int64
	ShippingFee      int64
	TaxRate          float64
}

// Workflow drives the four checkout steps. Each step validates on entry and
// is stored server-side; the client never holds draft state.
type Workflow interface {
	Start(ctx context.Context, cartID string) (*domain.CheckoutSession, error)
	Session(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)
	SetContact(ctx context.Context, sessionID string, input ContactInput) (*domain.CheckoutSession, error)
	SetShipping(ctx context.Context, sessionID string, input ShippingInput) (*domain.CheckoutSession, error)
	SetPayment(ctx context.Context, sessionID string, input PaymentInput) (*domain.CheckoutSession, error)
	Review(ctx context.Context, sessionID string) (*ReviewSummary, error)
	Confirm(ctx context.Context, sessionID string) (*domain.Order, error)
}

type workflow struct {
	sessions SessionStorage
	carts    *cart.Store
	orders   OrderPlacer
	totals   Totals
	validate *validator.Validate
	logger   *zap.Logger
}

func NewWorkflow(sessions SessionStorage, carts *cart.Store, orders OrderPlacer, totals Totals, logger *zap.Logger) Workflow {
	return &workflow{
		sessions: sessions,
		carts:    carts,
		orders:   orders,
		totals:   totals,
		validate: validator.New(),
		logger:   logger,
	}
}

func (w *workflow) Start(ctx context.Context, cartID string) (*domain.CheckoutSession, error) {
	ctx, span := otel.Tracer("checkout-workflow").Start(ctx, "Workflow.Start")
	defer span.End()

	total, err := w.carts.TotalItems(ctx, cartID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if total == 0 {
		return nil, ErrEmptyCart
	}

	session := &domain.CheckoutSession{
		ID:        uuid.NewString(),
		CartID:    cartID,
		CreatedAt: time.Now(),
	}

	if err := w.sessions.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("checkout.session_id", session.ID))

	return session, nil
}

func (w *workflow) Session(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	return w.sessions.Get(ctx, sessionID)
}

func (w *workflow) SetContact(ctx context.Context, sessionID string, input ContactInput) (*domain.CheckoutSession, error) {
	ctx, span := otel.Tracer("checkout-workflow").Start(ctx, "Workflow.SetContact")
	defer span.End()

	if err := w.validate.Struct(input); err != nil {
		return nil, err
	}

	session, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Contact = &domain.Contact{
		Email:         input.Email,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Phone:         input.Phone,
		CreateAccount: input.CreateAccount,
	}

	if err := w.sessions.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return session, nil
}

func (w *workflow) SetShipping(ctx context.Context, sessionID string, input ShippingInput) (*domain.CheckoutSession, error) {
	ctx, span := otel.Tracer("checkout-workflow").Start(ctx, "Workflow.SetShipping")
	defer span.End()

	if err := w.validate.Struct(input); err != nil {
		return nil, err
	}

	session, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Contact == nil {
		return nil, ErrStepLocked
	}

	session.Shipping = &domain.Address{
		Street:    input.Street,
		Number:    input.Number,
		Apartment: input.Apartment,
		Region:    input.Region,
		City:      input.City,
		Comuna:    input.Comuna,
		ZipCode:   input.ZipCode,
	}

	if err := w.sessions.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return session, nil
}

func (w *workflow) SetPayment(ctx context.Context, sessionID string, input PaymentInput) (*domain.CheckoutSession, error) {
	ctx, span := otel.Tracer("checkout-workflow").Start(ctx, "Workflow.SetPayment")
	defer span.End()

	if err := w.validate.Struct(input); err != nil {
		return nil, err
	}

	session, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Contact == nil || session.Shipping == nil {
		return nil, ErrStepLocked
	}

	method := domain.PaymentMethod(input.Method)
	session.Payment = &method

	if err := w.sessions.Save(ctx, session); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return session, nil
}

func (w *workflow) Review(ctx context.Context, sessionID string) (*ReviewSummary, error) {
	ctx, span := otel.Tracer("checkout-workflow").Start(ctx, "Workflow.Review")
	defer span.End()

	session, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step() != domain.StepReview {
		return nil, ErrStepLocked
	}

	items, err := w.carts.Items(ctx, session.CartID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	draft := domain.DraftOrder{Items: cartItemsToOrderItems(items)}
	subtotal, shipping, tax, total := draft.CalculateTotals(w.totals.FreeShippingFrom, w.totals.ShippingFee, w.totals.TaxRate)

	return &ReviewSummary{
		Session:  session,
		Items:    items,
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    total,
	}, nil
}

// Confirm snapshots the cart into a draft and hands it to the order service.
// The cart and the draft session are cleaned up only after the order is
// stored; any failure leaves both intact so the customer can retry.
func (w *workflow) Confirm(ctx context.Context, sessionID string) (*domain.Order, error) {
	ctx, span := otel.Tracer("checkout-workflow").Start(ctx, "Workflow.Confirm")
	defer span.End()

	session, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step() != domain.StepReview {
		return nil, ErrStepLocked
	}

	items, err := w.carts.Items(ctx, session.CartID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	draft := domain.DraftOrder{
		Customer: *session.Contact,
		Shipping: *session.Shipping,
		Payment:  *session.Payment,
		Items:    cartItemsToOrderItems(items),
	}

	order, err := w.orders.PlaceOrder(ctx, draft)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err := w.carts.Clear(ctx, session.CartID); err != nil {
		ctxlog.Warn(ctx, w.logger, "failed to clear cart after checkout",
			zap.String("cart_id", session.CartID), zap.Error(err))
	}

	if err := w.sessions.Delete(ctx, sessionID); err != nil {
		ctxlog.Warn(ctx, w.logger, "failed to delete checkout session",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	ctxlog.Info(ctx, w.logger, "checkout confirmed",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Total))

	return order, nil
}

func cartItemsToOrderItems(items []domain.CartItem) []domain.OrderItem {
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Artist:    item.Artist,
			Category:  item.Category,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageUrl:  item.ImageUrl,
		})
	}

	return orderItems
}
