package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/posting"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// ReceiptUseCase genera recibos numerados (RCP-YYYYMMDD-NNNN) y su PDF.
type ReceiptUseCase struct {
	tx       repository.TxRunner
	store    repository.Store
	renderer ReceiptRenderer
	log      *logger.Logger
	now      func() time.Time
}

func NewReceiptUseCase(tx repository.TxRunner, store repository.Store, renderer ReceiptRenderer, log *logger.Logger) *ReceiptUseCase {
	return &ReceiptUseCase{tx: tx, store: store, renderer: renderer, log: log, now: time.Now}
}

// Generate congela el contenido actual de la venta en un recibo nuevo.
// Una venta puede tener varios recibos (reimpresiones tras editarla).
func (uc *ReceiptUseCase) Generate(ctx context.Context, shop entity.Company, userID, saleID string) (*dto.ReceiptResponse, error) {
	var out *entity.Receipt
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		sale, err := s.Sales().GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		content, err := loadReceiptContent(ctx, s, shop, sale)
		if err != nil {
			return err
		}
		now := uc.now()
		seq, err := s.Sequences().Next(ctx, posting.SeqReceipt, now)
		if err != nil {
			return err
		}
		out = &entity.Receipt{
			ID:            uuid.New().String(),
			ReceiptNumber: posting.DailyNumber(posting.PrefixReceipt, now, seq),
			SaleID:        sale.ID,
			UserID:        userID,
			Content:       content,
			CreatedAt:     now,
		}
		return s.Receipts().Create(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("receipt_number", out.ReceiptNumber).Str("sale_number", out.Content.SaleNumber).Msg("recibo generado")
	return toReceiptResponse(out), nil
}

func (uc *ReceiptUseCase) Get(ctx context.Context, id string) (*dto.ReceiptResponse, error) {
	r, err := uc.store.Receipts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: recibo %s", domain.ErrNotFound, id)
	}
	return toReceiptResponse(r), nil
}

// RenderPDF genera el PDF del recibo y lo marca como impreso.
func (uc *ReceiptUseCase) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", errors.New("no hay generador de PDF configurado")
	}
	r, err := uc.store.Receipts().GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if r == nil {
		return nil, "", fmt.Errorf("%w: recibo %s", domain.ErrNotFound, id)
	}
	pdf, err := uc.renderer.Render(r)
	if err != nil {
		return nil, "", fmt.Errorf("generando PDF del recibo %s: %w", r.ReceiptNumber, err)
	}
	if !r.IsPrinted {
		if err := uc.store.Receipts().MarkPrinted(ctx, r.ID); err != nil {
			return nil, "", err
		}
	}
	return pdf, r.ReceiptNumber, nil
}

// loadReceiptContent resuelve líneas, productos, lotes y cliente de una venta registrada.
func loadReceiptContent(ctx context.Context, s repository.Store, shop entity.Company, sale *entity.Sale) (entity.ReceiptContent, error) {
	items, err := s.Sales().ListItems(ctx, sale.ID)
	if err != nil {
		return entity.ReceiptContent{}, err
	}
	products := make(map[string]*entity.Product, len(items))
	batches := make(map[string]*entity.Batch)
	for _, it := range items {
		if _, ok := products[it.ProductID]; !ok {
			p, err := s.Products().GetByID(ctx, it.ProductID)
			if err != nil {
				return entity.ReceiptContent{}, err
			}
			if p != nil {
				products[it.ProductID] = p
			}
		}
		if it.BatchID != "" {
			if _, ok := batches[it.BatchID]; !ok {
				b, err := s.Batches().GetByID(ctx, it.BatchID)
				if err != nil {
					return entity.ReceiptContent{}, err
				}
				if b != nil {
					batches[it.BatchID] = b
				}
			}
		}
	}
	var customer *entity.Customer
	if sale.CustomerID != "" {
		if customer, err = s.Customers().GetByID(ctx, sale.CustomerID); err != nil {
			return entity.ReceiptContent{}, err
		}
	}
	return buildReceipt(shop, sale, items, products, batches, customer), nil
}
