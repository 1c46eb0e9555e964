package entity

import "time"

// Company es la identidad de la tienda que aparece en recibos.
// Se carga una vez por petición y se pasa explícitamente a las operaciones que la necesitan.
type Company struct {
	ID            string
	Name          string
	TaxNumber     string
	Address       string
	Phone         string
	Email         string
	Currency      string
	ReceiptFooter string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DefaultCompany es la configuración inicial cuando la tienda aún no tiene datos.
func DefaultCompany() Company {
	return Company{
		Name:          "Mi Tienda",
		Currency:      "KES",
		ReceiptFooter: "Gracias por su compra",
	}
}
