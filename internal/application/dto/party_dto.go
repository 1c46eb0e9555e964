package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest body para POST /api/customers.
type CustomerRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Phone       string          `json:"phone,omitempty" validate:"max=30"`
	Email       string          `json:"email,omitempty" validate:"omitempty,email"`
	Address     string          `json:"address,omitempty" validate:"max=300"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	Address     string          `json:"address,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SupplierRequest body para POST /api/suppliers.
type SupplierRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	ContactPerson string `json:"contact_person,omitempty" validate:"max=200"`
	Phone         string `json:"phone,omitempty" validate:"max=30"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Address       string `json:"address,omitempty" validate:"max=300"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ContactPerson string          `json:"contact_person,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}
