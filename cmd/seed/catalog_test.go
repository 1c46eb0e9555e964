package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadCatalog_ColumnsInAnyOrder(t *testing.T) {
	in := "selling_price,name,quantity,category\n" +
		"2.50,Pan,10,Panadería\n" +
		",,5,\n" +
		"\"1,75\",Leche,,Lácteos\n"

	rows, err := readCatalog(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Pan", rows[0].Product.Name)
	assert.Equal(t, "Panadería", rows[0].Category)
	assert.True(t, decimal.RequireFromString("2.5").Equal(rows[0].Product.SellingPrice))
	assert.True(t, decimal.NewFromInt(10).Equal(rows[0].Product.Quantity))

	assert.True(t, decimal.RequireFromString("1.75").Equal(rows[1].Product.SellingPrice))
	assert.True(t, rows[1].Product.Quantity.IsZero())
}

func TestReadCatalog_Latin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("name,category\nAzúcar,Despensa\n")
	require.NoError(t, err)

	rows, err := readCatalog(bytes.NewBufferString(encoded), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Azúcar", rows[0].Product.Name)
}

func TestReadCatalog_Errors(t *testing.T) {
	_, err := readCatalog(strings.NewReader("barcode,price\n123,1\n"), false)
	assert.Error(t, err)

	_, err = readCatalog(strings.NewReader("name,quantity\nPan,diez\n"), false)
	assert.ErrorContains(t, err, "línea 2")
}
