package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/posting"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Quantity y PurchasePrice solo cambian al registrar
// ventas, compras o movimientos; aquí se fijan únicamente al crear.
type ProductUseCase struct {
	tx    repository.TxRunner
	store repository.Store
	now   func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, store repository.Store) *ProductUseCase {
	return &ProductUseCase{tx: tx, store: store, now: time.Now}
}

// Create crea un producto. Sin código de barras se asigna PRD######## del contador global.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validPrices(in.PurchasePrice, in.SellingPrice, in.WholesalePrice, in.WholesaleMinQty, in.Quantity, in.ReorderLevel); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(in.Name),
		Barcode:         strings.TrimSpace(in.Barcode),
		CategoryID:      in.CategoryID,
		Description:     in.Description,
		PurchasePrice:   in.PurchasePrice,
		SellingPrice:    in.SellingPrice,
		WholesalePrice:  in.WholesalePrice,
		WholesaleMinQty: in.WholesaleMinQty,
		Quantity:        in.Quantity,
		ReorderLevel:    in.ReorderLevel,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if product.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		if product.CategoryID != "" {
			cat, err := s.Categories().GetByID(ctx, product.CategoryID)
			if err != nil {
				return err
			}
			if cat == nil {
				return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, product.CategoryID)
			}
		}
		if product.Barcode == "" {
			seq, err := s.Sequences().Next(ctx, posting.SeqBarcode, time.Time{})
			if err != nil {
				return err
			}
			product.Barcode = posting.Barcode(seq)
		} else {
			existing, err := s.Products().GetByBarcode(ctx, product.Barcode)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: código de barras %s", domain.ErrDuplicate, product.Barcode)
			}
		}
		return s.Products().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// GetByBarcode busca un producto por su código exacto (lector del punto de venta).
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	product, err := uc.store.Products().GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: código de barras %s", domain.ErrNotFound, barcode)
	}
	return toProductResponse(product), nil
}

// Details devuelve el producto con el precio aplicable al tipo de venta y sus lotes con existencia.
// Si la compañía tiene un precio negociado para el producto, ese es el precio aplicable.
func (uc *ProductUseCase) Details(ctx context.Context, id, companyID, saleType string, qty decimal.Decimal) (*dto.ProductDetailsResponse, error) {
	if saleType == "" {
		saleType = entity.SaleTypeRetail
	}
	if saleType != entity.SaleTypeRetail && saleType != entity.SaleTypeWholesale {
		return nil, fmt.Errorf("%w: tipo de venta %q", domain.ErrInvalidInput, saleType)
	}
	if !qty.IsPositive() {
		qty = decimal.NewFromInt(1)
	}
	product, err := uc.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	negotiated, err := uc.negotiatedPrice(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	batches, err := uc.store.Batches().ListByProduct(ctx, id, true)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := &dto.ProductDetailsResponse{
		ProductResponse: *toProductResponse(product),
		SaleType:        saleType,
		Price:           product.PriceFor(saleType, qty, negotiated),
		Batches:         make([]dto.BatchResponse, 0, len(batches)),
	}
	for _, b := range batches {
		out.Batches = append(out.Batches, dto.BatchResponse{
			ID:            b.ID,
			ProductID:     b.ProductID,
			BatchNumber:   b.BatchNumber,
			Quantity:      b.Quantity,
			PurchasePrice: b.PurchasePrice,
			ExpiryDate:    b.ExpiryDate,
			IsExpired:     b.IsExpired(now),
			ReceivedDate:  b.ReceivedDate,
		})
	}
	return out, nil
}

// Update actualiza un producto. No toca existencias ni precio de compra.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var out *entity.Product
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		product, err := s.Products().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Barcode != nil && *in.Barcode != product.Barcode {
			existing, err := s.Products().GetByBarcode(ctx, *in.Barcode)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: código de barras %s", domain.ErrDuplicate, *in.Barcode)
			}
			product.Barcode = *in.Barcode
		}
		if in.CategoryID != nil {
			product.CategoryID = *in.CategoryID
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.SellingPrice != nil {
			product.SellingPrice = *in.SellingPrice
		}
		if in.WholesalePrice != nil {
			product.WholesalePrice = *in.WholesalePrice
		}
		if in.WholesaleMinQty != nil {
			product.WholesaleMinQty = *in.WholesaleMinQty
		}
		if in.ReorderLevel != nil {
			product.ReorderLevel = *in.ReorderLevel
		}
		if in.IsActive != nil {
			product.IsActive = *in.IsActive
		}
		if product.Name == "" {
			return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		if err := validPrices(product.SellingPrice, product.WholesalePrice, product.WholesaleMinQty, product.ReorderLevel); err != nil {
			return err
		}
		product.UpdatedAt = uc.now()
		if err := s.Products().Update(ctx, product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

// Search busca productos activos por nombre o código (sin distinguir mayúsculas).
func (uc *ProductUseCase) Search(ctx context.Context, query string, limit int) ([]dto.ProductResponse, error) {
	list, err := uc.store.Products().Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.Normalize()
	list, err := uc.store.Products().List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

func validPrices(values ...decimal.Decimal) error {
	for _, v := range values {
		if v.IsNegative() {
			return fmt.Errorf("%w: precios y cantidades no pueden ser negativos", domain.ErrInvalidInput)
		}
	}
	return nil
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Barcode:         p.Barcode,
		CategoryID:      p.CategoryID,
		Description:     p.Description,
		PurchasePrice:   p.PurchasePrice,
		SellingPrice:    p.SellingPrice,
		WholesalePrice:  p.WholesalePrice,
		WholesaleMinQty: p.WholesaleMinQty,
		Quantity:        p.Quantity,
		ReorderLevel:    p.ReorderLevel,
		NeedsReorder:    p.NeedsReorder(),
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
