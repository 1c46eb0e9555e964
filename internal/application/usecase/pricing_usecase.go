package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// AddDiscount crea una campaña y rebaja en la misma transacción el precio de venta de los
// productos elegidos y de todos los de las categorías elegidas. Un producto alcanzado por
// ambas vías se rebaja una sola vez. Desactivar la campaña después no restaura precios.
func (uc *ProductUseCase) AddDiscount(ctx context.Context, in dto.DiscountRequest) (*dto.DiscountResponse, error) {
	discount := &entity.Discount{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		Amount:      in.Amount,
		StartDate:   entity.Day(in.StartDate),
		EndDate:     entity.Day(in.EndDate),
		ProductIDs:  uniqueIDs(in.ProductIDs),
		CategoryIDs: uniqueIDs(in.CategoryIDs),
		IsActive:    true,
		CreatedAt:   uc.now(),
	}
	if err := validDiscount(discount); err != nil {
		return nil, err
	}

	var repriced int
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		targets := append([]string(nil), discount.ProductIDs...)
		for _, id := range discount.CategoryIDs {
			cat, err := s.Categories().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if cat == nil {
				return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
			}
			products, err := s.Products().ListByCategory(ctx, id)
			if err != nil {
				return err
			}
			for _, p := range products {
				targets = append(targets, p.ID)
			}
		}
		targets = uniqueIDs(targets)
		for _, id := range targets {
			p, err := s.Products().GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
			}
			p.SellingPrice = discount.Apply(p.SellingPrice)
			p.UpdatedAt = discount.CreatedAt
			if err := s.Products().Update(ctx, p); err != nil {
				return err
			}
		}
		repriced = len(targets)
		return s.Discounts().Create(ctx, discount)
	})
	if err != nil {
		return nil, err
	}
	out := uc.toDiscountResponse(discount)
	out.Repriced = repriced
	return out, nil
}

// ToggleDiscount invierte la bandera activa de la campaña.
func (uc *ProductUseCase) ToggleDiscount(ctx context.Context, id string) (*dto.DiscountResponse, error) {
	var out *entity.Discount
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		d, err := s.Discounts().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("%w: descuento %s", domain.ErrNotFound, id)
		}
		d.IsActive = !d.IsActive
		if err := s.Discounts().SetActive(ctx, id, d.IsActive); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toDiscountResponse(out), nil
}

// ListDiscounts lista campañas; status (active, upcoming, expired, inactive) filtra por su estado de hoy.
func (uc *ProductUseCase) ListDiscounts(ctx context.Context, status string) ([]dto.DiscountResponse, error) {
	switch status {
	case "", entity.DiscountStatusActive, entity.DiscountStatusUpcoming, entity.DiscountStatusExpired, entity.DiscountStatusInactive:
	default:
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	list, err := uc.store.Discounts().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DiscountResponse, 0, len(list))
	for _, d := range list {
		r := uc.toDiscountResponse(d)
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

// SetCompanyPrice fija (o reemplaza) el precio negociado de un producto para una compañía.
func (uc *ProductUseCase) SetCompanyPrice(ctx context.Context, in dto.CompanyPriceRequest) (*dto.CompanyPriceResponse, error) {
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	now := uc.now()
	cp := &entity.CompanyPrice{
		ID:        uuid.New().String(),
		CompanyID: in.CompanyID,
		ProductID: in.ProductID,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		company, err := s.Companies().GetByID(ctx, cp.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: compañía %s", domain.ErrNotFound, cp.CompanyID)
		}
		product, err := s.Products().GetByID(ctx, cp.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, cp.ProductID)
		}
		return s.CompanyPrices().Upsert(ctx, cp)
	})
	if err != nil {
		return nil, err
	}
	return toCompanyPriceResponse(cp), nil
}

// ListCompanyPrices lista los precios negociados de una compañía (todas si companyID es vacío).
func (uc *ProductUseCase) ListCompanyPrices(ctx context.Context, companyID string) ([]dto.CompanyPriceResponse, error) {
	list, err := uc.store.CompanyPrices().List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyPriceResponse, 0, len(list))
	for _, cp := range list {
		out = append(out, *toCompanyPriceResponse(cp))
	}
	return out, nil
}

// DeleteCompanyPrice elimina un precio negociado; el producto vuelve a su precio de catálogo.
func (uc *ProductUseCase) DeleteCompanyPrice(ctx context.Context, id string) error {
	return uc.store.CompanyPrices().Delete(ctx, id)
}

// Pricing devuelve los precios del producto y el precio final para companyID
// (el negociado si existe, si no el de venta al detalle).
func (uc *ProductUseCase) Pricing(ctx context.Context, productID, companyID string) (*dto.ProductPricingResponse, error) {
	product, err := uc.store.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	negotiated, err := uc.negotiatedPrice(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductPricingResponse{
		ProductID:       product.ID,
		SellingPrice:    product.SellingPrice,
		WholesalePrice:  product.WholesalePrice,
		WholesaleMinQty: product.WholesaleMinQty,
		CompanyPrice:    negotiated != nil,
		FinalPrice:      product.PriceFor(entity.SaleTypeRetail, decimal.NewFromInt(1), negotiated),
		Quantity:        product.Quantity,
	}, nil
}

func (uc *ProductUseCase) negotiatedPrice(ctx context.Context, companyID, productID string) (*entity.CompanyPrice, error) {
	if companyID == "" {
		return nil, nil
	}
	return uc.store.CompanyPrices().Get(ctx, companyID, productID)
}

func validDiscount(d *entity.Discount) error {
	if d.Name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !entity.ValidDiscountType(d.Type) {
		return fmt.Errorf("%w: tipo de descuento %q", domain.ErrInvalidInput, d.Type)
	}
	if !d.Amount.IsPositive() {
		return fmt.Errorf("%w: el monto del descuento debe ser positivo", domain.ErrInvalidInput)
	}
	if d.Type == entity.DiscountPercentage && d.Amount.GreaterThan(hundred) {
		return fmt.Errorf("%w: el porcentaje no puede superar 100", domain.ErrInvalidInput)
	}
	if d.StartDate.IsZero() || d.EndDate.Before(d.StartDate) {
		return fmt.Errorf("%w: la fecha de fin es anterior a la de inicio", domain.ErrInvalidInput)
	}
	return nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (uc *ProductUseCase) toDiscountResponse(d *entity.Discount) *dto.DiscountResponse {
	return &dto.DiscountResponse{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Amount:      d.Amount,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		ProductIDs:  d.ProductIDs,
		CategoryIDs: d.CategoryIDs,
		IsActive:    d.IsActive,
		Status:      d.Status(uc.now()),
		CreatedAt:   d.CreatedAt,
	}
}

func toCompanyPriceResponse(cp *entity.CompanyPrice) *dto.CompanyPriceResponse {
	return &dto.CompanyPriceResponse{
		ID:        cp.ID,
		CompanyID: cp.CompanyID,
		ProductID: cp.ProductID,
		Price:     cp.Price,
		UpdatedAt: cp.UpdatedAt,
	}
}
