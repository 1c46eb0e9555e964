// Package pdf genera la versión imprimible de los recibos de venta.
//
// Layout de la página (ancho A5 para impresoras de mostrador):
//
//	┌──────────────────────────────────────────────┐
//	│  Tienda + NIT          │  N° Recibo + Fecha   │
//	│  Dirección / Tel / Email                     │
//	│  Cliente + tipo de venta + forma de pago     │
//	│  TABLA: Cant | Producto | Precio | Total     │
//	│  TOTALES: Subtotal / Descuento / Total /     │
//	│           Pagado / Cambio / Saldo            │
//	│  QR con el número de recibo + pie            │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReceiptRenderer dibuja recibos con Maroto v2. Los montos se formatean según el idioma.
type ReceiptRenderer struct {
	printer *message.Printer
}

// NewReceiptRenderer construye el renderer; tag vacío usa español.
func NewReceiptRenderer(tag language.Tag) *ReceiptRenderer {
	if tag == language.Und {
		tag = language.Spanish
	}
	return &ReceiptRenderer{printer: message.NewPrinter(tag)}
}

// Render genera el PDF del recibo y devuelve sus bytes.
func (r *ReceiptRenderer) Render(receipt *entity.Receipt) ([]byte, error) {
	c := receipt.Content
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Recibo "+receipt.ReceiptNumber, true).
		WithAuthor(c.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(shopRow(c.Company))
	m.AddRows(customerRow(c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(r.lineRows(c)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(r.totalsRow(c))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(receipt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (r *ReceiptRenderer) headerRow(receipt *entity.Receipt) core.Row {
	c := receipt.Content
	tax := ""
	if c.Company.TaxNumber != "" {
		tax = "NIT: " + c.Company.TaxNumber
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(c.Company.Name, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1}),
			text.New(tax, props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(receipt.ReceiptNumber, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 6}),
			text.New("Fecha: "+c.Date.Format("02/01/2006 15:04"), props.Text{Size: 7, Align: align.Right, Top: 12, Color: colorGray}),
		),
	)
}

func shopRow(shop entity.ReceiptCompany) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
			nonEmpty(shop.Address, "-"),
			nonEmpty(shop.Phone, "-"),
			nonEmpty(shop.Email, "-"),
		), props.Text{Size: 7, Top: 2, Color: colorGray}),
	))
}

func customerRow(c entity.ReceiptContent) core.Row {
	kind := "Contado"
	if c.IsCredit {
		kind = "Crédito"
	}
	return row.New(12).Add(
		col.New(7).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(c.CustomerName, props.Text{Style: fontstyle.Bold, Size: 9, Top: 5}),
		),
		col.New(5).Add(
			text.New("Venta "+c.SaleNumber, props.Text{Size: 7, Align: align.Right, Top: 1}),
			text.New(fmt.Sprintf("%s · %s · %s", kind, c.SaleType, c.PaymentMethod), props.Text{Size: 7, Align: align.Right, Top: 6, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Precio", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (r *ReceiptRenderer) lineRows(c entity.ReceiptContent) []core.Row {
	out := make([]core.Row, 0, len(c.Lines))
	for _, l := range c.Lines {
		name := l.Name
		if l.BatchNumber != "" {
			name += " (lote " + l.BatchNumber + ")"
		}
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(l.Quantity.String(), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(r.money(l.Price), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(r.money(l.Total), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func (r *ReceiptRenderer) totalsRow(c entity.ReceiptContent) core.Row {
	labels := []string{"Subtotal:", "Descuento:", "TOTAL:", "Pagado:", "Cambio:", "Saldo:"}
	values := []decimal.Decimal{c.Subtotal, c.Discount, c.Total, c.AmountPaid, c.Change, c.Balance}

	left := col.New(4)
	right := col.New(3)
	for i, label := range labels {
		top := float64(i * 5)
		if label == "TOTAL:" {
			left.Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 2, Top: top}))
			right.Add(text.New(r.currency(c.Company.Currency, values[i]), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 1, Top: top}))
			continue
		}
		left.Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2, Top: top}))
		right.Add(text.New(r.money(values[i]), props.Text{Size: 8, Align: align.Right, Right: 1, Top: top}))
	}
	return row.New(32).Add(col.New(5), left, right)
}

func footerRow(receipt *entity.Receipt) core.Row {
	footer := nonEmpty(receipt.Content.Company.Footer, "Gracias por su compra")
	return row.New(30).Add(
		col.New(4).Add(code.NewQr(receipt.ReceiptNumber, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New(footer, props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Left: 3, Color: colorPrimary}),
			text.New("Conserve este recibo como comprobante de pago.", props.Text{Size: 7, Top: 14, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separador de miles y dos decimales según el idioma del printer.
func (r *ReceiptRenderer) money(v decimal.Decimal) string {
	return r.printer.Sprintf("%.2f", v.Round(2).InexactFloat64())
}

func (r *ReceiptRenderer) currency(code string, v decimal.Decimal) string {
	if code == "" {
		return r.money(v)
	}
	return code + " " + r.money(v)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
