package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

func TestRender_ProducesPDF(t *testing.T) {
	r := NewReceiptRenderer(language.Und)
	receipt := &entity.Receipt{
		ReceiptNumber: "RCP-20260314-0001",
		Content: entity.ReceiptContent{
			Company:       entity.ReceiptCompany{Name: "Mi Tienda", Currency: "KES", Footer: "Vuelva pronto"},
			SaleNumber:    "SALE-20260314-0001",
			Date:          time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
			CustomerName:  "Cliente de mostrador",
			SaleType:      entity.SaleTypeRetail,
			PaymentMethod: "cash",
			Lines: []entity.ReceiptLine{
				{Name: "Pan", BatchNumber: "B1", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)},
			},
			Subtotal:   decimal.NewFromInt(200),
			Total:      decimal.NewFromInt(200),
			AmountPaid: decimal.NewFromInt(250),
			Change:     decimal.NewFromInt(50),
		},
	}

	out, err := r.Render(receipt)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMoney_LocalizedGrouping(t *testing.T) {
	es := NewReceiptRenderer(language.Spanish)
	en := NewReceiptRenderer(language.English)
	v := decimal.RequireFromString("1234567.5")

	assert.Equal(t, "1.234.567,50", es.money(v))
	assert.Equal(t, "1,234,567.50", en.money(v))
	assert.Equal(t, "KES 1,234,567.50", en.currency("KES", v))
}
