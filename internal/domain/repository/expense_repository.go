package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ExpenseFilter acota el listado de gastos. Los campos vacíos no filtran; From y To son inclusivos.
type ExpenseFilter struct {
	From     time.Time
	To       time.Time
	Category string
}

// ExpenseRepository persiste gastos operativos.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id string) error
	// List gastos del filtro, el más reciente primero.
	List(ctx context.Context, filter ExpenseFilter) ([]*entity.Expense, error)
}
