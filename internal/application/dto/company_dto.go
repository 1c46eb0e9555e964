package dto

import "time"

// UpdateCompanyRequest entrada para actualizar los datos de la tienda (campos opcionales).
type UpdateCompanyRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxNumber     *string `json:"tax_number" validate:"omitempty,max=50"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Currency      *string `json:"currency" validate:"omitempty,len=3"`
	ReceiptFooter *string `json:"receipt_footer" validate:"omitempty,max=500"`
}

// CompanyResponse datos de la tienda.
type CompanyResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TaxNumber     string    `json:"tax_number"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Currency      string    `json:"currency"`
	ReceiptFooter string    `json:"receipt_footer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
