package checkout

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/cart"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
)

type fakeOrderPlacer struct {
	calls  int
	lastIn domain.DraftOrder
	err    error
}

func (f *fakeOrderPlacer) PlaceOrder(_ context.Context, draft domain.DraftOrder) (*domain.Order, error) {
	f.calls++
	f.lastIn = draft

	if f.err != nil {
		return nil, f.err
	}

	return &domain.Order{
		ID:          1,
		OrderNumber: "ORD-20260901-00001",
		Status:      domain.OrderStatusPending,
		Subtotal:    draft.Subtotal,
	}, nil
}

func testTotals() Totals {
	return Totals{FreeShippingFrom: 50000, ShippingFee: 5000, TaxRate: 0.19}
}

func newTestWorkflow(t *testing.T, placer OrderPlacer) (Workflow, *cart.Store) {
	t.Helper()

	carts := cart.NewStore(cart.NewMemoryStorage(), nil)
	wf := NewWorkflow(NewMemorySessionStorage(), carts, placer, testTotals(), zap.NewNop())

	return wf, carts
}

func validContact() ContactInput {
	return ContactInput{
		Email:     "maria@example.cl",
		FirstName: "María",
		LastName:  "González",
		Phone:     "+56912345678",
	}
}

func validShipping() ShippingInput {
	return ShippingInput{
		Street: "Av. Providencia",
		Number: "1234",
		Region: "Metropolitana",
		City:   "Santiago",
		Comuna: "Providencia",
	}
}

func fillCart(t *testing.T, carts *cart.Store, cartID string, price int64) {
	t.Helper()

	err := carts.AddItem(context.Background(), cartID, domain.CartItem{
		ID:    1,
		Name:  "Corazones",
		Price: price,
	})
	require.NoError(t, err)
}

func TestInvalidEmailNeverReachesOrderService(t *testing.T) {
	ctx := context.Background()
	placer := &fakeOrderPlacer{}
	wf, carts := newTestWorkflow(t, placer)

	fillCart(t, carts, "c1", 10000)

	session, err := wf.Start(ctx, "c1")
	require.NoError(t, err)

	contact := validContact()
	contact.Email = "not-an-email"

	_, err = wf.SetContact(ctx, session.ID, contact)
	require.Error(t, err)

	var verr validator.ValidationErrors
	require.ErrorAs(t, err, &verr)

	_, err = wf.Confirm(ctx, session.ID)
	require.ErrorIs(t, err, ErrStepLocked)
	require.Zero(t, placer.calls)
}

func TestStartRejectsEmptyCart(t *testing.T) {
	ctx := context.Background()
	wf, _ := newTestWorkflow(t, &fakeOrderPlacer{})

	_, err := wf.Start(ctx, "c1")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestStepsGateInOrder(t *testing.T) {
	ctx := context.Background()
	wf, carts := newTestWorkflow(t, &fakeOrderPlacer{})

	fillCart(t, carts, "c1", 10000)

	session, err := wf.Start(ctx, "c1")
	require.NoError(t, err)

	_, err = wf.SetShipping(ctx, session.ID, validShipping())
	require.ErrorIs(t, err, ErrStepLocked)

	_, err = wf.SetPayment(ctx, session.ID, PaymentInput{Method: "webpay"})
	require.ErrorIs(t, err, ErrStepLocked)

	_, err = wf.Review(ctx, session.ID)
	require.ErrorIs(t, err, ErrStepLocked)
}

func TestGoingBackToAnEarlierStepIsAllowed(t *testing.T) {
	ctx := context.Background()
	wf, carts := newTestWorkflow(t, &fakeOrderPlacer{})

	fillCart(t, carts, "c1", 10000)

	session, err := wf.Start(ctx, "c1")
	require.NoError(t, err)

	_, err = wf.SetContact(ctx, session.ID, validContact())
	require.NoError(t, err)
	_, err = wf.SetShipping(ctx, session.ID, validShipping())
	require.NoError(t, err)

	contact := validContact()
	contact.Phone = "+56987654321"

	updated, err := wf.SetContact(ctx, session.ID, contact)
	require.NoError(t, err)
	require.Equal(t, "+56987654321", updated.Contact.Phone)
	require.NotNil(t, updated.Shipping)
}

func TestPaymentMethodMustBeKnown(t *testing.T) {
	ctx := context.Background()
	wf, carts := newTestWorkflow(t, &fakeOrderPlacer{})

	fillCart(t, carts, "c1", 10000)

	session, err := wf.Start(ctx, "c1")
	require.NoError(t, err)

	_, err = wf.SetContact(ctx, session.ID, validContact())
	require.NoError(t, err)
	_, err = wf.SetShipping(ctx, session.ID, validShipping())
	require.NoError(t, err)

	_, err = wf.SetPayment(ctx, session.ID, PaymentInput{Method: "paypal"})

	var verr validator.ValidationErrors
	require.ErrorAs(t, err, &verr)
}

func TestReviewComputesTotals(t *testing.T) {
	ctx := context.Background()
	wf, carts := newTestWorkflow(t, &fakeOrderPlacer{})

	fillCart(t, carts, "c1", 10000)

	session, err := wf.Start(ctx, "c1")
	require.NoError(t, err)

	_, err = wf.SetContact(ctx, session.ID, validContact())
	require.NoError(t, err)
	_, err = wf.SetShipping(ctx, session.ID, validShipping())
	require.NoError(t, err)
	_, err = wf.SetPayment(ctx, session.ID, PaymentInput{Method: "webpay"})
	require.NoError(t, err)

	summary, err := wf.Review(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10000), summary.Subtotal)
	require.Equal(t, int64(5000), summary.Shipping)
	require.Equal(t, int64(1900), summary.Tax)
	require.Equal(t, int64(15000), summary.Total)
}

func TestReviewRejectsCartEmptiedMidCheckout(t *testing.T) {
	ctx := context.Background()
	wf, carts := newTestWorkflow(t, &fakeOrderPlacer{})

	fillCart(t, carts, "c1", 10000)

	session, err := wf.Start(ctx, "c1")
	require.NoError(t, err)

	_, err = wf.SetContact(ctx, session.ID, validContact())
	require.NoError(t, err)
	_, err = wf.SetShipping(ctx, session.ID, validShipping())
	require.NoError(t, err)
	_, err = wf.SetPayment(ctx, session.ID, PaymentInput{Method: "transfer"})
	require.NoError(t, err)

	// the cart can still be emptied from another tab while checkout is open
	require.NoError(t, carts.Clear(ctx, "c1"))

	_, err = wf.Review(ctx, session.ID)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestConfirmClearsCartAndSession(t *testing.T) {
	ctx := context.Background()
	placer := &fakeOrderPlacer{}
	wf, carts := newTestWorkflow(t, placer)

	fillCart(t, carts, "c1", 10000)

	session, err := wf.Start(ctx, "c1")
	require.NoError(t, err)

	_, err = wf.SetContact(ctx, session.ID, validContact())
	require.NoError(t, err)
	_, err = wf.SetShipping(ctx, session.ID, validShipping())
	require.NoError(t, err)
	_, err = wf.SetPayment(ctx, session.ID, PaymentInput{Method: "webpay"})
	require.NoError(t, err)

	order, err := wf.Confirm(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, "ORD-20260901-00001", order.OrderNumber)
	require.Equal(t, 1, placer.calls)
	require.Equal(t, domain.PaymentWebpay, placer.lastIn.Payment)
	require.Equal(t, "maria@example.cl", placer.lastIn.Customer.Email)

	items, err := carts.Items(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, items)

	_, err = wf.Session(ctx, session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConfirmFailureKeepsCartAndSession(t *testing.T) {
	ctx := context.Background()
	placer := &fakeOrderPlacer{err: context.DeadlineExceeded}
	wf, carts := newTestWorkflow(t, placer)

	fillCart(t, carts, "c1", 10000)

	session, err := wf.Start(ctx, "c1")
	require.NoError(t, err)

	_, err = wf.SetContact(ctx, session.ID, validContact())
	require.NoError(t, err)
	_, err = wf.SetShipping(ctx, session.ID, validShipping())
	require.NoError(t, err)
	_, err = wf.SetPayment(ctx, session.ID, PaymentInput{Method: "flow"})
	require.NoError(t, err)

	_, err = wf.Confirm(ctx, session.ID)
	require.Error(t, err)

	items, err := carts.Items(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	kept, err := wf.Session(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StepReview, kept.Step())
}
