package service_test

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/service"
	outboxrepo "github.com/Sebastiaaann/Tienda-Vinilos/pkg/outbox/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/testsuite"
)

type OrderServiceSuite struct {
	testsuite.BaseSuite
	orders service.OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}

	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupSuite() {
	s.SetupInfrastructure("../../migrations")

	logger := zap.NewNop()
	s.orders = service.NewOrderService(
		s.DbPool,
		repository.NewOrderRepository(s.DbPool, logger),
		outboxrepo.NewOutboxRepository(s.DbPool, logger),
		service.Pricing{FreeShippingFrom: 50000, ShippingFee: 5000, TaxRate: 0.19},
		"order_events",
		logger,
	)
}

func (s *OrderServiceSuite) TearDownSuite() {
	s.TearDownInfrastructure()
}

func (s *OrderServiceSuite) SetupTest() {
	for _, table := range []string{"order_items", "orders", "addresses", "order_counters", "outbox"} {
		s.TruncateTable(table)
	}
}

func draft(price int64, quantity int32) domain.DraftOrder {
	return domain.DraftOrder{
		Customer: domain.Contact{
			Email:     "maria@example.cl",
			FirstName: "María",
			LastName:  "González",
			Phone:     "+56912345678",
		},
		Shipping: domain.Address{
			Street: "Av. Providencia",
			Number: "1234",
			Region: "Metropolitana",
			City:   "Santiago",
			Comuna: "Providencia",
		},
		Payment: domain.PaymentWebpay,
		Items: []domain.OrderItem{
			{ProductID: 1, Name: "Corazones", Artist: "Los Prisioneros", Price: price, Quantity: quantity},
		},
	}
}

func (s *OrderServiceSuite) TestPlaceOrderBelowFreeShipping() {
	order, err := s.orders.PlaceOrder(s.Ctx, draft(10000, 1))
	s.Require().NoError(err)

	s.Equal(int64(10000), order.Subtotal)
	s.Equal(int64(5000), order.Shipping)
	s.Equal(int64(1900), order.Tax)
	s.Equal(int64(15000), order.Total)
	s.Equal(domain.OrderStatusPending, order.Status)
	s.Equal("María González", order.CustomerName)
	s.Regexp(regexp.MustCompile(`^ORD-\d{8}-\d{5}$`), order.OrderNumber)
}

func (s *OrderServiceSuite) TestPlaceOrderFreeShippingExcludesTaxFromTotal() {
	order, err := s.orders.PlaceOrder(s.Ctx, draft(30000, 2))
	s.Require().NoError(err)

	s.Equal(int64(60000), order.Subtotal)
	s.Equal(int64(0), order.Shipping)
	s.Equal(int64(11400), order.Tax)
	s.Equal(int64(60000), order.Total) // IVA is a receipt line, not an addition
}

func (s *OrderServiceSuite) TestPlaceOrderNumbersAreSequential() {
	first, err := s.orders.PlaceOrder(s.Ctx, draft(10000, 1))
	s.Require().NoError(err)

	second, err := s.orders.PlaceOrder(s.Ctx, draft(10000, 1))
	s.Require().NoError(err)

	s.NotEqual(first.OrderNumber, second.OrderNumber)
	s.Equal(first.OrderNumber[:12], second.OrderNumber[:12]) // same ORD-YYYYMMDD prefix
}

func (s *OrderServiceSuite) TestPlaceOrderWritesOutboxEvent() {
	order, err := s.orders.PlaceOrder(s.Ctx, draft(10000, 1))
	s.Require().NoError(err)

	var eventType, topic string
	var payload []byte
	err = s.DbPool.QueryRow(s.Ctx, `
		SELECT event_type, topic, payload
		FROM outbox
		WHERE aggregate_id = $1 AND published_at IS NULL
	`, order.OrderNumber).Scan(&eventType, &topic, &payload)
	s.Require().NoError(err)

	s.Equal("OrderCreated", eventType)
	s.Equal("order_events", topic)

	var event domain.OrderCreatedEvent
	s.Require().NoError(json.Unmarshal(payload, &event))
	s.Equal(order.OrderNumber, event.OrderNumber)
	s.Equal("maria@example.cl", event.CustomerEmail)
	s.Equal(int64(15000), event.Total)
	s.Require().Len(event.Items, 1)
}

func (s *OrderServiceSuite) TestPlaceOrderRejectsEmptyDraft() {
	empty := draft(10000, 1)
	empty.Items = nil

	_, err := s.orders.PlaceOrder(s.Ctx, empty)
	s.ErrorIs(err, service.ErrEmptyDraft)

	// nothing persisted
	var count int
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, "SELECT COUNT(*) FROM orders").Scan(&count))
	s.Zero(count)
}

func (s *OrderServiceSuite) TestPlaceOrderRejectsUnknownPayment() {
	bad := draft(10000, 1)
	bad.Payment = domain.PaymentMethod("paypal")

	_, err := s.orders.PlaceOrder(s.Ctx, bad)
	s.ErrorIs(err, service.ErrInvalidPayment)
}

func (s *OrderServiceSuite) TestGetOrderRoundTrip() {
	placed, err := s.orders.PlaceOrder(s.Ctx, draft(10000, 1))
	s.Require().NoError(err)

	got, err := s.orders.GetOrder(s.Ctx, placed.OrderNumber)
	s.Require().NoError(err)
	s.Equal(placed.ID, got.ID)
	s.Equal(placed.Total, got.Total)
	s.Equal("Providencia", got.Address.Comuna)
}
