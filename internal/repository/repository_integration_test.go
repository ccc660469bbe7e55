package repository_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/testsuite"
)

type RepositorySuite struct {
	testsuite.BaseSuite
	products repository.ProductRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	stats    repository.StatsRepository
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}

	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	s.SetupInfrastructure("../../migrations")

	logger := zap.NewNop()
	s.products = repository.NewProductRepository(s.DbPool, logger)
	s.orders = repository.NewOrderRepository(s.DbPool, logger)
	s.users = repository.NewUserRepository(s.DbPool, logger)
	s.stats = repository.NewStatsRepository(s.DbPool, logger)
}

func (s *RepositorySuite) TearDownSuite() {
	s.TearDownInfrastructure()
}

func (s *RepositorySuite) SetupTest() {
	for _, table := range []string{"order_items", "orders", "addresses", "order_counters", "products", "users"} {
		s.TruncateTable(table)
	}
}

func (s *RepositorySuite) inTx(fn func(tx pgx.Tx)) {
	tx, err := s.DbPool.Begin(s.Ctx)
	s.Require().NoError(err)

	fn(tx)

	s.Require().NoError(tx.Commit(s.Ctx))
}

func (s *RepositorySuite) seedOrder(orderNumber string) *domain.Order {
	order := &domain.Order{
		OrderNumber:   orderNumber,
		CustomerName:  "María González",
		CustomerEmail: "maria@example.cl",
		CustomerPhone: "+56912345678",
		Status:        domain.OrderStatusPending,
		Subtotal:      39980,
		Shipping:      5000,
		Tax:           7596,
		Total:         44980,
		PaymentMethod: domain.PaymentWebpay,
		Items: []domain.OrderItem{
			{ProductID: 1, Name: "Corazones", Artist: "Los Prisioneros", Price: 19990, Quantity: 2},
		},
		Address: domain.Address{
			Street: "Av. Providencia",
			Number: "1234",
			Region: "Metropolitana",
			City:   "Santiago",
			Comuna: "Providencia",
		},
	}

	s.inTx(func(tx pgx.Tx) {
		s.Require().NoError(s.orders.CreateOrder(s.Ctx, tx, order))
	})

	return order
}

func (s *RepositorySuite) TestOrderNumberSequence() {
	day := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	var first, second string
	s.inTx(func(tx pgx.Tx) {
		var err error
		first, err = s.orders.NextOrderNumber(s.Ctx, tx, day)
		s.Require().NoError(err)
		second, err = s.orders.NextOrderNumber(s.Ctx, tx, day)
		s.Require().NoError(err)
	})

	s.Equal("ORD-20260901-00001", first)
	s.Equal("ORD-20260901-00002", second)
	s.Regexp(regexp.MustCompile(`^ORD-\d{8}-\d{5}$`), first)

	// the counter is per calendar day
	nextDay := day.AddDate(0, 0, 1)
	s.inTx(func(tx pgx.Tx) {
		n, err := s.orders.NextOrderNumber(s.Ctx, tx, nextDay)
		s.Require().NoError(err)
		s.Equal("ORD-20260902-00001", n)
	})
}

func (s *RepositorySuite) TestCreateAndGetOrder() {
	created := s.seedOrder("ORD-20260901-00001")
	s.NotZero(created.ID)

	got, err := s.orders.GetByOrderNumber(s.Ctx, "ORD-20260901-00001")
	s.Require().NoError(err)

	s.Equal(created.OrderNumber, got.OrderNumber)
	s.Equal(domain.OrderStatusPending, got.Status)
	s.Equal(int64(39980), got.Subtotal)
	s.Equal(int64(44980), got.Total)
	s.Equal("Providencia", got.Address.Comuna)
	s.Require().Len(got.Items, 1)
	s.Equal("Corazones", got.Items[0].Name)
	s.Equal(int32(2), got.Items[0].Quantity)
	s.Nil(got.PaidAt)
}

func (s *RepositorySuite) TestGetUnknownOrder() {
	_, err := s.orders.GetByOrderNumber(s.Ctx, "ORD-20260901-99999")
	s.ErrorIs(err, repository.ErrOrderNotFound)
}

func (s *RepositorySuite) TestListFiltersAndSearch() {
	first := s.seedOrder("ORD-20260901-00001")
	s.seedOrder("ORD-20260901-00002")

	_, err := s.orders.UpdateStatus(s.Ctx, first.OrderNumber, domain.OrderStatusShipped)
	s.Require().NoError(err)

	all, err := s.orders.List(s.Ctx, "", "")
	s.Require().NoError(err)
	s.Len(all, 2)

	allAlias, err := s.orders.List(s.Ctx, "ALL", "")
	s.Require().NoError(err)
	s.Len(allAlias, 2)

	shipped, err := s.orders.List(s.Ctx, "SHIPPED", "")
	s.Require().NoError(err)
	s.Require().Len(shipped, 1)
	s.Equal(first.OrderNumber, shipped[0].OrderNumber)

	byNumber, err := s.orders.List(s.Ctx, "", "00002")
	s.Require().NoError(err)
	s.Len(byNumber, 1)

	// search matches name and email too, case-sensitively
	byName, err := s.orders.List(s.Ctx, "", "María")
	s.Require().NoError(err)
	s.Len(byName, 2)

	lowercase, err := s.orders.List(s.Ctx, "", "maría g")
	s.Require().NoError(err)
	s.Empty(lowercase)
}

func (s *RepositorySuite) TestUpdateStatusStampsPaidAtOnce() {
	order := s.seedOrder("ORD-20260901-00001")

	confirmed, err := s.orders.UpdateStatus(s.Ctx, order.OrderNumber, domain.OrderStatusConfirmed)
	s.Require().NoError(err)
	s.Require().NotNil(confirmed.PaidAt)
	firstPaidAt := *confirmed.PaidAt

	// moving through later statuses keeps the original payment time
	shipped, err := s.orders.UpdateStatus(s.Ctx, order.OrderNumber, domain.OrderStatusShipped)
	s.Require().NoError(err)
	s.Require().NotNil(shipped.PaidAt)
	s.WithinDuration(firstPaidAt, *shipped.PaidAt, time.Millisecond)

	again, err := s.orders.UpdateStatus(s.Ctx, order.OrderNumber, domain.OrderStatusConfirmed)
	s.Require().NoError(err)
	s.WithinDuration(firstPaidAt, *again.PaidAt, time.Millisecond)
}

func (s *RepositorySuite) TestUpdateStatusAllowsReactivation() {
	order := s.seedOrder("ORD-20260901-00001")

	cancelled, err := s.orders.UpdateStatus(s.Ctx, order.OrderNumber, domain.OrderStatusCancelled)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCancelled, cancelled.Status)

	back, err := s.orders.UpdateStatus(s.Ctx, order.OrderNumber, domain.OrderStatusProcessing)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusProcessing, back.Status)
}

func (s *RepositorySuite) TestUpdateStatusUnknownOrder() {
	_, err := s.orders.UpdateStatus(s.Ctx, "ORD-20260901-99999", domain.OrderStatusShipped)
	s.ErrorIs(err, repository.ErrOrderNotFound)
}

func (s *RepositorySuite) seedProduct(sku, slug, name, artist string, price int64) int64 {
	id, err := s.products.Create(s.Ctx, &domain.Product{
		SKU:       sku,
		Slug:      slug,
		Name:      name,
		Artist:    artist,
		Price:     price,
		Format:    domain.FormatVinylLP,
		Condition: domain.ConditionSealed,
		Stock:     10,
		MinStock:  2,
	})
	s.Require().NoError(err)

	return id
}

func (s *RepositorySuite) TestProductListFilterSortPaginate() {
	s.seedProduct("VIN-001", "corazones", "Corazones", "Los Prisioneros", 19990)
	s.seedProduct("VIN-002", "pateando-piedras", "Pateando Piedras", "Los Prisioneros", 24990)
	s.seedProduct("VIN-003", "unplugged", "Unplugged", "La Ley", 14990)

	page, total, err := s.products.List(s.Ctx, domain.ProductFilter{
		Search: "Prisioneros",
		Sort:   "price_asc",
		Page:   1,
		Limit:  12,
	})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(page, 2)
	s.Equal("Corazones", page[0].Name)

	minPrice := int64(15000)
	filtered, total, err := s.products.List(s.Ctx, domain.ProductFilter{
		MinPrice: &minPrice,
		Sort:     "price_desc",
		Page:     1,
		Limit:    1,
	})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(filtered, 1)
	s.Equal("Pateando Piedras", filtered[0].Name)
}

func (s *RepositorySuite) TestProductUpdateAndSoftDelete() {
	id := s.seedProduct("VIN-001", "corazones", "Corazones", "Los Prisioneros", 19990)

	newPrice := int64(17990)
	err := s.products.Update(s.Ctx, id, &domain.UpdateProductInput{Price: &newPrice})
	s.Require().NoError(err)

	updated, err := s.products.GetByID(s.Ctx, id)
	s.Require().NoError(err)
	s.Equal(int64(17990), updated.Price)
	s.Equal("Corazones", updated.Name)

	s.Require().NoError(s.products.DeleteByID(s.Ctx, id))

	_, err = s.products.GetByID(s.Ctx, id)
	s.ErrorIs(err, repository.ErrProductNotFound)

	_, total, err := s.products.List(s.Ctx, domain.ProductFilter{Page: 1, Limit: 12})
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *RepositorySuite) TestUserEmailUnique() {
	_, err := s.users.Create(s.Ctx, &domain.User{
		Email:        "admin@tiendavinilos.cl",
		Name:         "Admin",
		PasswordHash: "x",
		Role:         domain.RoleAdmin,
	})
	s.Require().NoError(err)

	_, err = s.users.Create(s.Ctx, &domain.User{
		Email:        "admin@tiendavinilos.cl",
		Name:         "Otro",
		PasswordHash: "y",
		Role:         domain.RoleUser,
	})
	s.ErrorIs(err, repository.ErrEmailTaken)

	user, err := s.users.GetByEmail(s.Ctx, "admin@tiendavinilos.cl")
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, user.Role)
}

func (s *RepositorySuite) TestDashboardAggregates() {
	order := s.seedOrder("ORD-20260901-00001")

	// paying today makes it count toward today's sales
	_, err := s.orders.UpdateStatus(s.Ctx, order.OrderNumber, domain.OrderStatusConfirmed)
	s.Require().NoError(err)

	s.seedOrder("ORD-20260901-00002") // stays PENDING

	now := time.Now()

	salesToday, err := s.stats.SalesToday(s.Ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(44980), salesToday)

	pending, err := s.stats.PendingOrders(s.Ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), pending) // PENDING and CONFIRMED both await fulfillment

	buckets, err := s.stats.SalesLast7Days(s.Ctx, now)
	s.Require().NoError(err)
	s.Require().Len(buckets, 7)
	s.Equal(int64(44980), buckets[6].Total)
	for _, b := range buckets[:6] {
		s.Zero(b.Total)
	}

	top, err := s.stats.TopProducts(s.Ctx, 5)
	s.Require().NoError(err)
	s.Require().NotEmpty(top)
	s.Equal("Corazones", top[0].Name)
	s.Equal(int64(4), top[0].UnitsSold)

	recent, err := s.stats.RecentOrders(s.Ctx, 5)
	s.Require().NoError(err)
	s.Len(recent, 2)
}

func (s *RepositorySuite) TestLowStockCount() {
	id := s.seedProduct("VIN-001", "corazones", "Corazones", "Los Prisioneros", 19990)

	low, err := s.stats.LowStockProducts(s.Ctx)
	s.Require().NoError(err)
	s.Zero(low)

	stock := int64(1)
	s.Require().NoError(s.products.Update(s.Ctx, id, &domain.UpdateProductInput{Stock: &stock}))

	low, err = s.stats.LowStockProducts(s.Ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), low)
}

