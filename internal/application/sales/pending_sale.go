package sales

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

// PendingSaleUseCase guarda ventas a medio armar y las completa más tarde con el mismo
// motor de registro que PostSale.
type PendingSaleUseCase struct {
	tx     repository.TxRunner
	store  repository.Store
	poster *poster
	log    *logger.Logger
	now    func() time.Time
}

func NewPendingSaleUseCase(tx repository.TxRunner, store repository.Store, opts Options, log *logger.Logger) *PendingSaleUseCase {
	return &PendingSaleUseCase{
		tx:     tx,
		store:  store,
		poster: &poster{opts: opts, log: log, now: time.Now},
		log:    log,
		now:    time.Now,
	}
}

// Save crea (id vacío) o reemplaza un borrador del usuario. Solo se exige que haya líneas;
// el resto se valida al completarlo.
func (uc *PendingSaleUseCase) Save(ctx context.Context, userID, id string, in dto.PostSaleRequest) (*dto.PendingSaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el borrador no tiene líneas", domain.ErrInvalidInput)
	}
	draft := toSaleDraft(in)
	now := uc.now()

	var out *entity.PendingSale
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		if id == "" {
			out = &entity.PendingSale{
				ID:         uuid.New().String(),
				UserID:     userID,
				CustomerID: in.CustomerID,
				Draft:      draft,
				Status:     entity.PendingStatusPending,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			return s.PendingSales().Create(ctx, out)
		}
		ps, err := ownedPendingSale(ctx, s, userID, id)
		if err != nil {
			return err
		}
		ps.CustomerID = in.CustomerID
		ps.Draft = draft
		ps.UpdatedAt = now
		out = ps
		return s.PendingSales().Update(ctx, ps)
	})
	if err != nil {
		return nil, err
	}
	return toPendingSaleResponse(out), nil
}

// List borradores del usuario; status vacío devuelve todos.
func (uc *PendingSaleUseCase) List(ctx context.Context, userID, status string) ([]dto.PendingSaleResponse, error) {
	list, err := uc.store.PendingSales().ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendingSaleResponse, 0, len(list))
	for _, ps := range list {
		out = append(out, *toPendingSaleResponse(ps))
	}
	return out, nil
}

func (uc *PendingSaleUseCase) Get(ctx context.Context, userID, id string) (*dto.PendingSaleResponse, error) {
	ps, err := uc.store.PendingSales().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ps == nil || ps.UserID != userID {
		return nil, fmt.Errorf("%w: borrador %s", domain.ErrNotFound, id)
	}
	return toPendingSaleResponse(ps), nil
}

// Delete borra un borrador pendiente del usuario.
func (uc *PendingSaleUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		ps, err := ownedPendingSale(ctx, s, userID, id)
		if err != nil {
			return err
		}
		return s.PendingSales().Delete(ctx, ps.ID)
	})
}

// Complete registra la venta guardada en el borrador y lo marca completado en la misma
// transacción. Si el registro falla el borrador sigue pendiente.
func (uc *PendingSaleUseCase) Complete(ctx context.Context, shop entity.Company, userID, id string) (*dto.PostSaleResponse, error) {
	var out *dto.PostSaleResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		ps, err := ownedPendingSale(ctx, s, userID, id)
		if err != nil {
			return err
		}
		in := fromSaleDraft(ps.Draft)
		if err := validateSale(&in); err != nil {
			return err
		}
		out, err = uc.poster.post(ctx, s, shop, userID, nil, in)
		if err != nil {
			return err
		}
		ps.Status = entity.PendingStatusCompleted
		ps.CompletedSaleID = out.SaleID
		ps.UpdatedAt = uc.now()
		return s.PendingSales().Update(ctx, ps)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("pending_sale_id", id).Msg("no se pudo completar el borrador; sigue pendiente")
		return nil, err
	}
	uc.log.Info().Str("pending_sale_id", id).Str("sale_number", out.SaleNumber).Msg("borrador de venta completado")
	return out, nil
}

// ownedPendingSale bloquea el borrador y verifica dueño y estado.
func ownedPendingSale(ctx context.Context, s repository.Store, userID, id string) (*entity.PendingSale, error) {
	ps, err := s.PendingSales().GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if ps == nil || ps.UserID != userID {
		return nil, fmt.Errorf("%w: borrador %s", domain.ErrNotFound, id)
	}
	if !ps.IsPending() {
		return nil, fmt.Errorf("%w: el borrador está %s", domain.ErrInvalidState, ps.Status)
	}
	return ps, nil
}

func toPendingSaleResponse(ps *entity.PendingSale) *dto.PendingSaleResponse {
	subtotal := decimal.Zero
	for _, l := range ps.Draft.Lines {
		subtotal = subtotal.Add(l.Quantity.Mul(l.Price))
	}
	return &dto.PendingSaleResponse{
		ID:              ps.ID,
		UserID:          ps.UserID,
		CustomerID:      ps.CustomerID,
		Status:          ps.Status,
		CompletedSaleID: ps.CompletedSaleID,
		ItemCount:       len(ps.Draft.Lines),
		Subtotal:        posting.Money(subtotal),
		Draft:           fromSaleDraft(ps.Draft),
		CreatedAt:       ps.CreatedAt,
		UpdatedAt:       ps.UpdatedAt,
	}
}
