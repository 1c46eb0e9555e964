package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// CompanyUseCase administra los datos de la tienda (una sola por instalación).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Current devuelve la tienda configurada; si no existe la crea con los valores por defecto.
func (uc *CompanyUseCase) Current(ctx context.Context) (entity.Company, error) {
	c, err := uc.repo.GetDefault(ctx)
	if err != nil {
		return entity.Company{}, err
	}
	if c != nil {
		return *c, nil
	}
	def := entity.DefaultCompany()
	now := time.Now()
	def.ID = uuid.New().String()
	def.CreatedAt = now
	def.UpdatedAt = now
	if err := uc.repo.Create(ctx, &def); err != nil {
		// Otra petición la creó primero.
		if errors.Is(err, domain.ErrDuplicate) {
			if c, err := uc.repo.GetDefault(ctx); err == nil && c != nil {
				return *c, nil
			}
		}
		return entity.Company{}, err
	}
	return def, nil
}

// Get datos de la tienda en formato de respuesta.
func (uc *CompanyUseCase) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	c, err := uc.Current(ctx)
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(&c), nil
}

// Update modifica los campos enviados.
func (uc *CompanyUseCase) Update(ctx context.Context, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	c, err := uc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.TaxNumber != nil {
		c.TaxNumber = *in.TaxNumber
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Currency != nil {
		c.Currency = strings.ToUpper(*in.Currency)
	}
	if in.ReceiptFooter != nil {
		c.ReceiptFooter = *in.ReceiptFooter
	}
	if c.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, &c); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(&c), nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:            c.ID,
		Name:          c.Name,
		TaxNumber:     c.TaxNumber,
		Address:       c.Address,
		Phone:         c.Phone,
		Email:         c.Email,
		Currency:      c.Currency,
		ReceiptFooter: c.ReceiptFooter,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
