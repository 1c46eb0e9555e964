package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/posting"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// idealFactor existencia ideal como múltiplo del nivel de reorden.
var idealFactor = decimal.RequireFromString("1.5")

// ReplenishmentUseCase arma la lista de reposición a partir de los productos bajo su nivel de reorden.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
}

func NewReplenishmentUseCase(products repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products}
}

// GenerateReplenishmentList devuelve los productos a reponer, el de mayor déficit primero,
// con la cantidad sugerida hasta la existencia ideal y su costo al último precio de compra.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReorderSuggestionResponse, error) {
	list, err := uc.products.ListBelowReorder(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReorderSuggestionResponse, 0, len(list))
	for i, p := range list {
		ideal := p.ReorderLevel.Mul(idealFactor)
		suggested := decimal.Max(ideal.Sub(p.Quantity), decimal.Zero)
		out = append(out, dto.ReorderSuggestionResponse{
			ProductID:          p.ID,
			Barcode:            p.Barcode,
			ProductName:        p.Name,
			CurrentStock:       p.Quantity,
			ReorderLevel:       p.ReorderLevel,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           p.PurchasePrice,
			EstimatedOrderCost: posting.Money(suggested.Mul(p.PurchasePrice)),
			Priority:           i + 1, // 1 = más urgente
		})
	}
	return out, nil
}
