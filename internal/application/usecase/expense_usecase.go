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
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ExpenseUseCase registro y consulta de gastos operativos.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
	now  func() time.Time
}

func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, now: time.Now}
}

// Create registra un gasto a nombre de userID.
func (uc *ExpenseUseCase) Create(ctx context.Context, userID string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	if err := validExpense(in); err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.Expense{
		ID:          uuid.New().String(),
		Date:        entity.Day(in.Date),
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.ExpenseResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: gasto %s", domain.ErrNotFound, id)
	}
	return toExpenseResponse(e), nil
}

// Update reemplaza los datos del gasto; el usuario que lo registró no cambia.
func (uc *ExpenseUseCase) Update(ctx context.Context, id string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	if err := validExpense(in); err != nil {
		return nil, err
	}
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: gasto %s", domain.ErrNotFound, id)
	}
	e.Date = entity.Day(in.Date)
	e.Category = in.Category
	e.Description = strings.TrimSpace(in.Description)
	e.Amount = in.Amount
	e.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return toExpenseResponse(e), nil
}

func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List gastos del filtro con el total y el desglose por categoría.
func (uc *ExpenseUseCase) List(ctx context.Context, in dto.ExpenseFilterRequest) (*dto.ExpenseListResponse, error) {
	filter := repository.ExpenseFilter{Category: in.Category}
	var err error
	if filter.From, err = parseDay(in.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseDay(in.To); err != nil {
		return nil, err
	}
	if filter.Category != "" && !entity.ValidExpenseCategory(filter.Category) {
		return nil, fmt.Errorf("%w: categoría de gasto %q", domain.ErrInvalidInput, filter.Category)
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.ExpenseListResponse{
		Expenses:   make([]dto.ExpenseResponse, 0, len(list)),
		Total:      decimal.Zero,
		ByCategory: map[string]decimal.Decimal{},
	}
	for _, e := range list {
		out.Expenses = append(out.Expenses, *toExpenseResponse(e))
		out.Total = out.Total.Add(e.Amount)
		out.ByCategory[e.Category] = out.ByCategory[e.Category].Add(e.Amount)
	}
	return out, nil
}

func validExpense(in dto.ExpenseRequest) error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: la fecha es obligatoria", domain.ErrInvalidInput)
	}
	if !entity.ValidExpenseCategory(in.Category) {
		return fmt.Errorf("%w: categoría de gasto %q", domain.ErrInvalidInput, in.Category)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: el monto debe ser positivo", domain.ErrInvalidInput)
	}
	return nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (use AAAA-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:          e.ID,
		Date:        e.Date,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt,
	}
}
