// Package inventory mantiene lotes y registra ajustes manuales de existencias.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/posting"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// StockUseCase registra movimientos de existencias de forma transaccional, con bloqueo de
// fila (SELECT FOR UPDATE) sobre producto y lote. Ninguna existencia queda negativa.
type StockUseCase struct {
	tx    repository.TxRunner
	store repository.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx repository.TxRunner, store repository.Store, log *logger.Logger) *StockUseCase {
	return &StockUseCase{tx: tx, store: store, log: log, now: time.Now}
}

// AddBatch crea un lote y suma su cantidad al producto.
func (uc *StockUseCase) AddBatch(ctx context.Context, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.BatchNumber == "" || in.Quantity.IsNegative() || in.PurchasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: número, cantidad o precio del lote inválido", domain.ErrInvalidInput)
	}
	now := uc.now()
	batch := &entity.Batch{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		BatchNumber:   in.BatchNumber,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
		ExpiryDate:    in.ExpiryDate,
		ReceivedDate:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		product, err := s.Products().GetByIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		existing, err := s.Batches().GetByNumberForUpdate(ctx, in.ProductID, in.BatchNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: el lote %s ya existe para el producto", domain.ErrDuplicate, in.BatchNumber)
		}
		if err := s.Batches().Create(ctx, batch); err != nil {
			return err
		}
		next, _ := posting.Apply(product.Quantity, in.Quantity)
		return s.Products().UpdateQuantity(ctx, product.ID, next)
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch, now), nil
}

// EditBatch actualiza el lote; si cambia la cantidad, el producto se ajusta por la diferencia
// (recortando en cero).
func (uc *StockUseCase) EditBatch(ctx context.Context, id string, in dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	if in.Quantity != nil && in.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	if in.PurchasePrice != nil && in.PurchasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	var out *entity.Batch
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		// El producto se bloquea antes que el lote, igual que al registrar ventas.
		current, err := s.Batches().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
		product, err := s.Products().GetByIDForUpdate(ctx, current.ProductID)
		if err != nil {
			return err
		}
		batch, err := s.Batches().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || batch == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}

		if in.BatchNumber != nil {
			batch.BatchNumber = *in.BatchNumber
		}
		if in.PurchasePrice != nil {
			batch.PurchasePrice = *in.PurchasePrice
		}
		if in.ExpiryDate != nil {
			batch.ExpiryDate = in.ExpiryDate
		}
		delta := decimal.Zero
		if in.Quantity != nil {
			delta = in.Quantity.Sub(batch.Quantity)
			batch.Quantity = *in.Quantity
		}
		if err := s.Batches().Update(ctx, batch); err != nil {
			return err
		}
		if !delta.IsZero() {
			next, short := posting.Apply(product.Quantity, delta)
			if short.IsPositive() {
				uc.log.Warn().Str("product", product.Name).Str("shortfall", short.String()).
					Msg("el ajuste del lote supera la existencia del producto; se recorta a cero")
			}
			if err := s.Products().UpdateQuantity(ctx, product.ID, next); err != nil {
				return err
			}
		}
		out = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponse(out, uc.now()), nil
}

// ListBatches lotes de un producto; onlyAvailable filtra los que tienen existencia.
func (uc *StockUseCase) ListBatches(ctx context.Context, productID string, onlyAvailable bool) ([]dto.BatchResponse, error) {
	list, err := uc.store.Batches().ListByProduct(ctx, productID, onlyAvailable)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBatchResponse(b, now))
	}
	return out, nil
}

// MovementInput entrada de RecordMovement.
// Para in/out Quantity es positiva; para adjustment lleva signo.
type MovementInput struct {
	UserID       string
	ProductID    string
	BatchID      string
	MovementType string
	Quantity     decimal.Decimal
	Reference    string
	Notes        string
}

// RecordMovement bloquea producto y lote, aplica el movimiento según su tipo y lo anota en el diario.
func (uc *StockUseCase) RecordMovement(ctx context.Context, userID string, in dto.StockMovementRequest) (*dto.StockMovementResponse, error) {
	input := MovementInput{
		UserID:       userID,
		ProductID:    in.ProductID,
		BatchID:      in.BatchID,
		MovementType: in.MovementType,
		Quantity:     in.Quantity,
		Reference:    in.Reference,
		Notes:        in.Notes,
	}
	switch input.MovementType {
	case entity.MovementIn, entity.MovementOut:
		if !input.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
		}
	case entity.MovementAdjustment:
		if input.Quantity.IsZero() {
			return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, input.MovementType)
	}

	now := uc.now()
	var out *dto.StockMovementResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		product, err := s.Products().GetByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, input.ProductID)
		}
		var batch *entity.Batch
		if input.BatchID != "" {
			if batch, err = s.Batches().GetByIDForUpdate(ctx, input.BatchID); err != nil {
				return err
			}
			if batch == nil || batch.ProductID != product.ID {
				return fmt.Errorf("%w: lote %s", domain.ErrNotFound, input.BatchID)
			}
		}

		var delta decimal.Decimal
		switch input.MovementType {
		case entity.MovementIn:
			delta = input.Quantity
		case entity.MovementOut:
			delta = input.Quantity.Neg()
		case entity.MovementAdjustment:
			delta = input.Quantity
		}
		if err := uc.apply(ctx, s, product, batch, delta); err != nil {
			return err
		}

		j := &entity.StockJournal{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			BatchID:      input.BatchID,
			MovementType: input.MovementType,
			Quantity:     input.Quantity,
			Reference:    input.Reference,
			Notes:        input.Notes,
			UserID:       input.UserID,
			CreatedAt:    now,
		}
		if err := s.StockJournal().Create(ctx, j); err != nil {
			return err
		}
		out = toMovementResponse(j)
		out.ProductQuantity = product.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", input.ProductID).Str("type", input.MovementType).
		Str("quantity", input.Quantity.String()).Msg("movimiento de existencias registrado")
	return out, nil
}

// apply suma delta (con signo) a producto y lote, recortando en cero.
func (uc *StockUseCase) apply(ctx context.Context, s repository.Store, product *entity.Product, batch *entity.Batch, delta decimal.Decimal) error {
	next, short := posting.Apply(product.Quantity, delta)
	if short.IsPositive() {
		uc.log.Warn().Str("product", product.Name).Str("shortfall", short.String()).
			Msg("la salida supera la existencia; se recorta a cero")
	}
	product.Quantity = next
	if err := s.Products().UpdateQuantity(ctx, product.ID, next); err != nil {
		return err
	}
	if batch == nil {
		return nil
	}
	batch.Quantity, _ = posting.Apply(batch.Quantity, delta)
	return s.Batches().UpdateQuantity(ctx, batch.ID, batch.Quantity)
}

// ListMovements diario de existencias (productID vacío = todos), más recientes primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, productID string, limit int) ([]dto.StockMovementResponse, error) {
	list, err := uc.store.StockJournal().ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, j := range list {
		out = append(out, *toMovementResponse(j))
	}
	return out, nil
}

func toBatchResponse(b *entity.Batch, now time.Time) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:            b.ID,
		ProductID:     b.ProductID,
		BatchNumber:   b.BatchNumber,
		Quantity:      b.Quantity,
		PurchasePrice: b.PurchasePrice,
		ExpiryDate:    b.ExpiryDate,
		IsExpired:     b.IsExpired(now),
		ReceivedDate:  b.ReceivedDate,
	}
}

func toMovementResponse(j *entity.StockJournal) *dto.StockMovementResponse {
	return &dto.StockMovementResponse{
		ID:           j.ID,
		ProductID:    j.ProductID,
		BatchID:      j.BatchID,
		MovementType: j.MovementType,
		Quantity:     j.Quantity,
		Reference:    j.Reference,
		Notes:        j.Notes,
		CreatedAt:    j.CreatedAt,
	}
}
