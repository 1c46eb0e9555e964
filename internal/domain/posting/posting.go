// Package posting reúne las reglas puras del registro de ventas y compras:
// totales por línea, saldos, vuelto, recorte de existencias y numeración diaria.
package posting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Prefijos de numeración.
const (
	PrefixSale     = "SALE"
	PrefixPurchase = "INV"
	PrefixPending  = "PEND"
	PrefixReceipt  = "RCP"
	PrefixReturn   = "RET"
)

// Claves de secuencia. Las diarias se combinan con la fecha; la de códigos de barra es global.
const (
	SeqSale     = "sale"
	SeqPurchase = "purchase"
	SeqPending  = "pending_purchase"
	SeqReceipt  = "receipt"
	SeqReturn   = "purchase_return"
	SeqBarcode  = "product_barcode"
)

var hundred = decimal.NewFromInt(100)

// Line datos de una línea necesarios para calcular su total.
type Line struct {
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Totals totales de cabecera calculados en el servidor.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Money redondea a dos decimales.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal devuelve el descuento y el total de una línea:
// total = qty*price - discount_amount - qty*price*discount_percent/100, nunca negativo.
func LineTotal(l Line) (discount, total decimal.Decimal) {
	gross := l.Quantity.Mul(l.Price)
	discount = l.DiscountAmount.Add(gross.Mul(l.DiscountPercent).Div(hundred))
	if discount.GreaterThan(gross) {
		discount = gross
	}
	return Money(discount), Money(gross.Sub(discount))
}

// HeaderDiscount descuento de cabecera sobre el subtotal, limitado al subtotal.
func HeaderDiscount(subtotal, amount, percent decimal.Decimal) decimal.Decimal {
	d := amount.Add(subtotal.Mul(percent).Div(hundred))
	if d.GreaterThan(subtotal) {
		d = subtotal
	}
	return Money(d)
}

// ComputeTotals suma las líneas y aplica el descuento de cabecera.
// Devuelve también el total de cada línea en el mismo orden.
func ComputeTotals(lines []Line, discountAmount, discountPercent decimal.Decimal) (Totals, []decimal.Decimal) {
	subtotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, len(lines))
	for i, l := range lines {
		_, t := LineTotal(l)
		lineTotals[i] = t
		subtotal = subtotal.Add(t)
	}
	discount := HeaderDiscount(subtotal, discountAmount, discountPercent)
	return Totals{
		Subtotal: Money(subtotal),
		Discount: discount,
		Total:    Money(subtotal.Sub(discount)),
	}, lineTotals
}

// Balance saldo de una venta: max(total - pagado, 0).
func Balance(total, paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(total.Sub(paid), decimal.Zero)
}

// Change vuelto a entregar: max(pagado - total, 0).
func Change(paid, total decimal.Decimal) decimal.Decimal {
	return decimal.Max(paid.Sub(total), decimal.Zero)
}

// Apply suma delta (con signo) a current sin bajar de cero.
// shortfall es la parte de la salida que no pudo cubrirse (cero si alcanzó).
func Apply(current, delta decimal.Decimal) (next, shortfall decimal.Decimal) {
	next = current.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, next.Neg()
	}
	return next, decimal.Zero
}

// Decrement resta qty de current recortando en cero.
func Decrement(current, qty decimal.Decimal) (next, shortfall decimal.Decimal) {
	return Apply(current, qty.Neg())
}

// DailyNumber arma un número PREFIX-YYYYMMDD-NNNN.
func DailyNumber(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), seq)
}

// Barcode código de barras automático PRD########.
func Barcode(seq int64) string {
	return fmt.Sprintf("PRD%08d", seq)
}
