package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDiscount_Apply(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		amount string
		price  string
		want   string
	}{
		{"porcentaje", DiscountPercentage, "10", "250", "225"},
		{"porcentaje redondea", DiscountPercentage, "15", "9.99", "8.49"},
		{"porcentaje total", DiscountPercentage, "100", "40", "0"},
		{"fijo", DiscountFixed, "30", "100", "70"},
		{"fijo con piso", DiscountFixed, "500", "100", "0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disc := Discount{Type: tt.typ, Amount: d(tt.amount)}
			got := disc.Apply(d(tt.price))
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestDiscount_Status(t *testing.T) {
	day := func(s string) time.Time {
		v, err := time.Parse(time.DateOnly, s)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
	disc := Discount{StartDate: day("2026-03-10"), EndDate: day("2026-03-20"), IsActive: true}
	afternoon := func(s string) time.Time { return day(s).Add(15 * time.Hour) }

	assert.Equal(t, DiscountStatusUpcoming, disc.Status(afternoon("2026-03-09")))
	assert.Equal(t, DiscountStatusActive, disc.Status(afternoon("2026-03-10")))
	assert.Equal(t, DiscountStatusActive, disc.Status(afternoon("2026-03-20")))
	assert.Equal(t, DiscountStatusExpired, disc.Status(afternoon("2026-03-21")))

	disc.IsActive = false
	assert.Equal(t, DiscountStatusInactive, disc.Status(afternoon("2026-03-15")))
	assert.Equal(t, DiscountStatusExpired, disc.Status(afternoon("2026-04-01")))
}

func TestProduct_PriceFor(t *testing.T) {
	p := Product{ID: "p1", SellingPrice: d("100"), WholesalePrice: d("80"), WholesaleMinQty: d("5")}
	negotiated := &CompanyPrice{ProductID: "p1", Price: d("90")}

	assert.True(t, d("100").Equal(p.PriceFor(SaleTypeRetail, d("10"), nil)))
	assert.True(t, d("100").Equal(p.PriceFor(SaleTypeWholesale, d("4"), nil)))
	assert.True(t, d("80").Equal(p.PriceFor(SaleTypeWholesale, d("5"), nil)))
	assert.True(t, d("90").Equal(p.PriceFor(SaleTypeRetail, d("1"), negotiated)))
	assert.True(t, d("90").Equal(p.PriceFor(SaleTypeWholesale, d("5"), negotiated)))

	other := &CompanyPrice{ProductID: "p2", Price: d("1")}
	assert.True(t, d("100").Equal(p.PriceFor(SaleTypeRetail, d("1"), other)))
}

func TestValidExpenseCategory(t *testing.T) {
	assert.True(t, ValidExpenseCategory(ExpenseRent))
	assert.True(t, ValidExpenseCategory(ExpenseOther))
	assert.False(t, ValidExpenseCategory("food"))
	assert.False(t, ValidExpenseCategory(""))
}
