package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
)

// catalogRow producto leído del CSV junto con el nombre de su categoría.
type catalogRow struct {
	Category string
	Product  dto.CreateProductRequest
}

var decimalColumns = []string{
	"purchase_price", "selling_price", "wholesale_price", "wholesale_min_qty", "quantity", "reorder_level",
}

// readCatalog lee un CSV con cabecera. Solo "name" es obligatoria; el resto de columnas
// (barcode, category, description y las de decimalColumns) son opcionales y en cualquier orden.
// Con latin1 el archivo se decodifica desde ISO-8859-1 (exportaciones de Excel en Windows).
func readCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("la cabecera no tiene la columna name")
	}

	var rows []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if field("name") == "" {
			continue
		}
		nums := make(map[string]decimal.Decimal, len(decimalColumns))
		for _, c := range decimalColumns {
			v, err := parseAmount(field(c))
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %s: %w", line, c, err)
			}
			nums[c] = v
		}
		rows = append(rows, catalogRow{
			Category: field("category"),
			Product: dto.CreateProductRequest{
				Name:            field("name"),
				Barcode:         field("barcode"),
				Description:     field("description"),
				PurchasePrice:   nums["purchase_price"],
				SellingPrice:    nums["selling_price"],
				WholesalePrice:  nums["wholesale_price"],
				WholesaleMinQty: nums["wholesale_min_qty"],
				Quantity:        nums["quantity"],
				ReorderLevel:    nums["reorder_level"],
			},
		})
	}
	return rows, nil
}

// parseAmount acepta "1234.5" y "1234,5". Vacío es cero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
