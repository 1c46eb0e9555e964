package purchasing

import (
	"context"
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

// PendingPurchaseUseCase borradores de compra numerados PEND-YYYYMMDD-NNNN.
type PendingPurchaseUseCase struct {
	tx     repository.TxRunner
	store  repository.Store
	poster *poster
	log    *logger.Logger
	now    func() time.Time
}

func NewPendingPurchaseUseCase(tx repository.TxRunner, store repository.Store, log *logger.Logger) *PendingPurchaseUseCase {
	return &PendingPurchaseUseCase{
		tx:     tx,
		store:  store,
		poster: &poster{log: log, now: time.Now},
		log:    log,
		now:    time.Now,
	}
}

// Save crea (id vacío) o reemplaza un borrador. Guarda el nombre de cada producto para mostrarlo
// aunque el producto cambie después.
func (uc *PendingPurchaseUseCase) Save(ctx context.Context, userID, id string, in dto.PostPurchaseRequest) (*dto.PendingPurchaseResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el borrador no tiene líneas", domain.ErrInvalidInput)
	}
	now := uc.now()

	var out *entity.PendingPurchase
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		names := make(map[string]string, len(in.Items))
		for _, l := range in.Items {
			p, err := s.Products().GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
			}
			names[p.ID] = p.Name
		}
		draft := toPurchaseDraft(in, names)

		if id == "" {
			seq, err := s.Sequences().Next(ctx, posting.SeqPending, now)
			if err != nil {
				return err
			}
			out = &entity.PendingPurchase{
				ID:          uuid.New().String(),
				DraftNumber: posting.DailyNumber(posting.PrefixPending, now, seq),
				UserID:      userID,
				SupplierID:  in.SupplierID,
				Draft:       draft,
				Subtotal:    draftSubtotal(draft),
				Status:      entity.PendingStatusPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			return s.PendingPurchases().Create(ctx, out)
		}
		pp, err := ownedPendingPurchase(ctx, s, userID, id)
		if err != nil {
			return err
		}
		pp.SupplierID = in.SupplierID
		pp.Draft = draft
		pp.Subtotal = draftSubtotal(draft)
		pp.UpdatedAt = now
		out = pp
		return s.PendingPurchases().Update(ctx, pp)
	})
	if err != nil {
		return nil, err
	}
	return toPendingPurchaseResponse(out), nil
}

func (uc *PendingPurchaseUseCase) List(ctx context.Context, userID, status string) ([]dto.PendingPurchaseResponse, error) {
	list, err := uc.store.PendingPurchases().ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendingPurchaseResponse, 0, len(list))
	for _, pp := range list {
		out = append(out, *toPendingPurchaseResponse(pp))
	}
	return out, nil
}

func (uc *PendingPurchaseUseCase) Get(ctx context.Context, userID, id string) (*dto.PendingPurchaseResponse, error) {
	pp, err := uc.store.PendingPurchases().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pp == nil || pp.UserID != userID {
		return nil, fmt.Errorf("%w: borrador %s", domain.ErrNotFound, id)
	}
	return toPendingPurchaseResponse(pp), nil
}

// Complete registra la compra del borrador y lo marca completado en la misma transacción.
// Si falla el borrador sigue pendiente.
func (uc *PendingPurchaseUseCase) Complete(ctx context.Context, userID, id string) (*dto.PostPurchaseResponse, error) {
	var out *dto.PostPurchaseResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		pp, err := ownedPendingPurchase(ctx, s, userID, id)
		if err != nil {
			return err
		}
		in := fromPurchaseDraft(pp.Draft)
		if err := validatePurchase(&in); err != nil {
			return err
		}
		in.PendingPurchaseID = pp.ID
		out, err = uc.poster.post(ctx, s, userID, nil, in)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("pending_purchase_id", id).Msg("no se pudo completar el borrador; sigue pendiente")
		return nil, err
	}
	uc.log.Info().Str("pending_purchase_id", id).Str("invoice_number", out.InvoiceNumber).Msg("borrador de compra completado")
	return out, nil
}

// Cancel marca el borrador como cancelado; se conserva para consulta.
func (uc *PendingPurchaseUseCase) Cancel(ctx context.Context, userID, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		pp, err := ownedPendingPurchase(ctx, s, userID, id)
		if err != nil {
			return err
		}
		pp.Status = entity.PendingStatusCanceled
		pp.UpdatedAt = uc.now()
		return s.PendingPurchases().Update(ctx, pp)
	})
}

// Delete borra un borrador que no se completó.
func (uc *PendingPurchaseUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		pp, err := s.PendingPurchases().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if pp == nil || pp.UserID != userID {
			return fmt.Errorf("%w: borrador %s", domain.ErrNotFound, id)
		}
		if pp.Status == entity.PendingStatusCompleted {
			return fmt.Errorf("%w: el borrador ya se completó", domain.ErrInvalidState)
		}
		return s.PendingPurchases().Delete(ctx, pp.ID)
	})
}

func ownedPendingPurchase(ctx context.Context, s repository.Store, userID, id string) (*entity.PendingPurchase, error) {
	pp, err := s.PendingPurchases().GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if pp == nil || pp.UserID != userID {
		return nil, fmt.Errorf("%w: borrador %s", domain.ErrNotFound, id)
	}
	if !pp.IsPending() {
		return nil, fmt.Errorf("%w: el borrador está %s", domain.ErrInvalidState, pp.Status)
	}
	return pp, nil
}
