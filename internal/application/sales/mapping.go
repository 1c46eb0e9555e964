package sales

import (
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

func toPaymentDetails(d dto.PaymentDetailsDTO) entity.PaymentDetails {
	return entity.PaymentDetails{
		Cash:         d.Cash,
		Mpesa:        d.Mpesa,
		Card:         d.Card,
		Cheque:       d.Cheque,
		MpesaCode:    d.MpesaCode,
		CardRef:      d.CardRef,
		ChequeNumber: d.ChequeNumber,
	}
}

func fromPaymentDetails(d entity.PaymentDetails) dto.PaymentDetailsDTO {
	return dto.PaymentDetailsDTO{
		Cash:         d.Cash,
		Mpesa:        d.Mpesa,
		Card:         d.Card,
		Cheque:       d.Cheque,
		MpesaCode:    d.MpesaCode,
		CardRef:      d.CardRef,
		ChequeNumber: d.ChequeNumber,
	}
}

// toSaleDraft congela el request como borrador tipado en la versión actual.
func toSaleDraft(in dto.PostSaleRequest) entity.SaleDraft {
	d := entity.SaleDraft{
		Version:         entity.DraftVersion,
		CustomerID:      in.CustomerID,
		SaleType:        in.SaleType,
		PaymentMethod:   in.PaymentMethod,
		AmountPaid:      in.AmountPaid,
		IsCredit:        in.IsCredit,
		DiscountAmount:  in.DiscountAmount,
		DiscountPercent: in.DiscountPercent,
		PaymentDetails:  toPaymentDetails(in.PaymentDetails),
		Notes:           in.Notes,
		Lines:           make([]entity.SaleDraftLine, len(in.Items)),
	}
	for i, l := range in.Items {
		d.Lines[i] = entity.SaleDraftLine{
			ProductID:       l.ProductID,
			BatchID:         l.BatchID,
			Quantity:        l.Quantity,
			Price:           l.Price,
			DiscountAmount:  l.DiscountAmount,
			DiscountPercent: l.DiscountPercent,
		}
	}
	return d
}

func fromSaleDraft(d entity.SaleDraft) dto.PostSaleRequest {
	in := dto.PostSaleRequest{
		CustomerID:      d.CustomerID,
		SaleType:        d.SaleType,
		PaymentMethod:   d.PaymentMethod,
		AmountPaid:      d.AmountPaid,
		IsCredit:        d.IsCredit,
		DiscountAmount:  d.DiscountAmount,
		DiscountPercent: d.DiscountPercent,
		PaymentDetails:  fromPaymentDetails(d.PaymentDetails),
		Notes:           d.Notes,
		Items:           make([]dto.SaleLineRequest, len(d.Lines)),
	}
	for i, l := range d.Lines {
		in.Items[i] = dto.SaleLineRequest{
			ProductID:       l.ProductID,
			BatchID:         l.BatchID,
			Quantity:        l.Quantity,
			Price:           l.Price,
			DiscountAmount:  l.DiscountAmount,
			DiscountPercent: l.DiscountPercent,
		}
	}
	return in
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem, payments []*entity.CustomerPayment) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:              s.ID,
		SaleNumber:      s.SaleNumber,
		CustomerID:      s.CustomerID,
		UserID:          s.UserID,
		SaleType:        s.SaleType,
		Subtotal:        s.Subtotal,
		DiscountAmount:  s.DiscountAmount,
		DiscountPercent: s.DiscountPercent,
		Total:           s.Total,
		PaymentMethod:   s.PaymentMethod,
		AmountPaid:      s.AmountPaid,
		Balance:         s.Balance,
		IsCredit:        s.IsCredit,
		IsPaid:          s.IsPaid,
		PaymentDetails:  fromPaymentDetails(s.PaymentDetails),
		Notes:           s.Notes,
		Items:           make([]dto.SaleItemResponse, 0, len(items)),
		Payments:        make([]dto.CustomerPaymentResponse, 0, len(payments)),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			BatchID:         it.BatchID,
			Quantity:        it.Quantity,
			Price:           it.Price,
			DiscountAmount:  it.DiscountAmount,
			DiscountPercent: it.DiscountPercent,
			Total:           it.Total,
		})
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.CustomerPaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			PaymentMethod: p.PaymentMethod,
			Reference:     p.Reference,
			Notes:         p.Notes,
			CreatedAt:     p.CreatedAt,
		})
	}
	return out
}

func toReceiptResponse(r *entity.Receipt) *dto.ReceiptResponse {
	return &dto.ReceiptResponse{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		SaleID:        r.SaleID,
		IsPrinted:     r.IsPrinted,
		Content:       r.Content,
		CreatedAt:     r.CreatedAt,
	}
}
