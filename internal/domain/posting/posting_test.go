package posting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name         string
		line         Line
		wantDiscount string
		wantTotal    string
	}{
		{"sin descuento", Line{Quantity: d("2"), Price: d("100")}, "0", "200"},
		{"monto y porcentaje", Line{Quantity: d("3"), Price: d("10"), DiscountAmount: d("2"), DiscountPercent: d("10")}, "5", "25"},
		{"descuento mayor al bruto", Line{Quantity: d("1"), Price: d("5"), DiscountAmount: d("9")}, "5", "0"},
		{"cantidad fraccionaria", Line{Quantity: d("0.5"), Price: d("3.33")}, "0", "1.67"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disc, total := LineTotal(tt.line)
			assert.True(t, d(tt.wantDiscount).Equal(disc), "discount %s", disc)
			assert.True(t, d(tt.wantTotal).Equal(total), "total %s", total)
		})
	}
}

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{Quantity: d("2"), Price: d("100")},
		{Quantity: d("1"), Price: d("50"), DiscountPercent: d("10")},
	}
	totals, lineTotals := ComputeTotals(lines, d("5"), d("10"))

	assert.True(t, d("245").Equal(totals.Subtotal))
	assert.True(t, d("29.5").Equal(totals.Discount))
	assert.True(t, d("215.5").Equal(totals.Total))
	assert.Len(t, lineTotals, 2)
	assert.True(t, d("45").Equal(lineTotals[1]))
}

func TestHeaderDiscount_CappedAtSubtotal(t *testing.T) {
	assert.True(t, d("100").Equal(HeaderDiscount(d("100"), d("80"), d("50"))))
}

func TestBalanceAndChange(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Balance(d("200"), d("250"))))
	assert.True(t, d("50").Equal(Change(d("250"), d("200"))))
	assert.True(t, d("500").Equal(Balance(d("500"), decimal.Zero)))
	assert.True(t, decimal.Zero.Equal(Change(decimal.Zero, d("500"))))
}

func TestDecrement_ClampsAtZero(t *testing.T) {
	next, short := Decrement(d("3"), d("5"))
	assert.True(t, next.IsZero())
	assert.True(t, d("2").Equal(short))

	next, short = Decrement(d("3"), d("1"))
	assert.True(t, d("2").Equal(next))
	assert.True(t, short.IsZero())
}

func TestApply_NegativeAdjustment(t *testing.T) {
	next, short := Apply(d("4"), d("-1.5"))
	assert.True(t, d("2.5").Equal(next))
	assert.True(t, short.IsZero())
}

func TestNumbers(t *testing.T) {
	day := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "SALE-20260307-0001", DailyNumber(PrefixSale, day, 1))
	assert.Equal(t, "RCP-20260307-0123", DailyNumber(PrefixReceipt, day, 123))
	assert.Equal(t, "PRD00000042", Barcode(42))
}
