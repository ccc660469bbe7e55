package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
)

func testPricing() Pricing {
	return Pricing{FreeShippingFrom: 50000, ShippingFee: 5000, TaxRate: 0.19}
}

func TestCalculateTotals(t *testing.T) {
	pricing := testPricing()

	tests := []struct {
		name         string
		subtotal     int64
		wantShipping int64
		wantTax      int64
		wantTotal    int64
	}{
		{"empty", 0, 5000, 0, 5000},
		{"below threshold", 10000, 5000, 1900, 15000},
		{"just below threshold", 49999, 5000, 9500, 54999},
		{"at threshold", 50000, 0, 9500, 50000},
		{"above threshold", 100000, 0, 19000, 100000},
		{"sixty thousand", 60000, 0, 11400, 60000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := domain.DraftOrder{Subtotal: tt.subtotal}

			subtotal, shipping, tax, total := draft.CalculateTotals(
				pricing.FreeShippingFrom, pricing.ShippingFee, pricing.TaxRate)

			require.Equal(t, tt.subtotal, subtotal)
			require.Equal(t, tt.wantShipping, shipping)
			require.Equal(t, tt.wantTax, tax)
			require.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestCalculateTotalsSumsItems(t *testing.T) {
	draft := domain.DraftOrder{
		Items: []domain.OrderItem{
			{Price: 19990, Quantity: 2},
			{Price: 12990, Quantity: 1},
		},
	}

	subtotal, shipping, tax, total := draft.CalculateTotals(50000, 5000, 0.19)

	require.Equal(t, int64(52970), subtotal)
	require.Equal(t, int64(0), shipping)
	require.Equal(t, int64(10064), tax) // round(52970 * 0.19)
	require.Equal(t, int64(52970), total)
}

func TestCalculateTotalsRoundsTaxHalfUp(t *testing.T) {
	// 0.19 * 3 = 0.57 -> 1 after rounding
	draft := domain.DraftOrder{Subtotal: 3}

	_, _, tax, _ := draft.CalculateTotals(50000, 5000, 0.19)
	require.Equal(t, int64(1), tax)
}
