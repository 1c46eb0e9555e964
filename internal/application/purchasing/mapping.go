package purchasing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/posting"
)

func toPurchaseDraft(in dto.PostPurchaseRequest, names map[string]string) entity.PurchaseDraft {
	d := entity.PurchaseDraft{
		Version:        entity.DraftVersion,
		SupplierID:     in.SupplierID,
		InvoiceNumber:  in.InvoiceNumber,
		PaymentMethod:  in.PaymentMethod,
		IsPaid:         in.IsPaid,
		DiscountAmount: in.DiscountAmount,
		Notes:          in.Notes,
		Lines:          make([]entity.PurchaseDraftLine, len(in.Items)),
	}
	for i, l := range in.Items {
		d.Lines[i] = entity.PurchaseDraftLine{
			ProductID:   l.ProductID,
			ProductName: names[l.ProductID],
			Quantity:    l.Quantity,
			Price:       l.Price,
			BatchNumber: l.BatchNumber,
			ExpiryDate:  l.ExpiryDate,
		}
	}
	return d
}

func fromPurchaseDraft(d entity.PurchaseDraft) dto.PostPurchaseRequest {
	in := dto.PostPurchaseRequest{
		SupplierID:     d.SupplierID,
		InvoiceNumber:  d.InvoiceNumber,
		PaymentMethod:  d.PaymentMethod,
		IsPaid:         d.IsPaid,
		DiscountAmount: d.DiscountAmount,
		Notes:          d.Notes,
		Items:          make([]dto.PurchaseLineRequest, len(d.Lines)),
	}
	for i, l := range d.Lines {
		in.Items[i] = dto.PurchaseLineRequest{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.Price,
			BatchNumber: l.BatchNumber,
			ExpiryDate:  l.ExpiryDate,
		}
	}
	return in
}

func draftSubtotal(d entity.PurchaseDraft) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range d.Lines {
		sum = sum.Add(l.Quantity.Mul(l.Price))
	}
	return posting.Money(sum)
}

func toPendingPurchaseResponse(pp *entity.PendingPurchase) *dto.PendingPurchaseResponse {
	return &dto.PendingPurchaseResponse{
		ID:                  pp.ID,
		DraftNumber:         pp.DraftNumber,
		UserID:              pp.UserID,
		SupplierID:          pp.SupplierID,
		Status:              pp.Status,
		CompletedPurchaseID: pp.CompletedPurchaseID,
		ItemCount:           len(pp.Draft.Lines),
		Subtotal:            pp.Subtotal,
		Draft:               fromPurchaseDraft(pp.Draft),
		CreatedAt:           pp.CreatedAt,
		UpdatedAt:           pp.UpdatedAt,
	}
}

func toPurchaseResponse(p *entity.Purchase, items []*entity.PurchaseItem, batchNumbers map[string]string, paid decimal.Decimal) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:                 p.ID,
		InvoiceNumber:      p.InvoiceNumber,
		SupplierID:         p.SupplierID,
		UserID:             p.UserID,
		Subtotal:           p.Subtotal,
		DiscountAmount:     p.DiscountAmount,
		Total:              p.Total,
		ItemCount:          p.ItemCount,
		IsPaid:             p.IsPaid,
		PaymentMethod:      p.PaymentMethod,
		TotalPaid:          paid,
		BalanceDue:         posting.Balance(p.Total, paid),
		Notes:              p.Notes,
		IsReturn:           p.IsReturn,
		OriginalPurchaseID: p.OriginalPurchaseID,
		ReturnReason:       p.ReturnReason,
		ReturnStatus:       p.ReturnStatus,
		Items:              make([]dto.PurchaseItemResponse, 0, len(items)),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			BatchID:     it.BatchID,
			BatchNumber: batchNumbers[it.BatchID],
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       it.Total,
		})
	}
	return out
}
