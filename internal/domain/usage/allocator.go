package usage

import (
	"context"
	"fmt"

	"github.com/Spok95/clinic-backend/internal/domain/stock"
)

// Tx расширяет транзакцию журнала операциями аллокатора.
type Tx interface {
	stock.Tx
	VisitExists(ctx context.Context, id int64) (bool, error)
	InsertUsage(ctx context.Context, u Usage) (Usage, error)
}

type Runner interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Allocator привязывает списания медикаментов к визиту.
// Весь запрос (все позиции) выполняется одной транзакцией:
// отказ по любой позиции откатывает и списания, и записи использования.
type Allocator struct {
	db     Runner
	ledger *stock.Ledger
}

func NewAllocator(db Runner, ledger *stock.Ledger) *Allocator {
	return &Allocator{db: db, ledger: ledger}
}

// Allocate списывает каждую позицию через журнал и сохраняет записи
// использования. Возвращает созданные записи в порядке позиций запроса.
func (a *Allocator) Allocate(ctx context.Context, visitID int64, items []Item) ([]Usage, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty allocation request", stock.ErrInvalidQuantity)
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: medication id=%d: %v",
				stock.ErrInvalidQuantity, it.MedicationID, it.Quantity)
		}
	}

	var out []Usage
	err := a.db.WithinTx(ctx, func(tx Tx) error {
		ok, err := tx.VisitExists(ctx, visitID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: visit id=%d", stock.ErrNotFound, visitID)
		}

		out = out[:0]
		for _, it := range items {
			vid := visitID
			if _, _, err := a.ledger.ApplyInTx(ctx, tx, it.MedicationID, &vid, it.Quantity, stock.ChangeDecrease); err != nil {
				return err
			}
			u, err := tx.InsertUsage(ctx, Usage{
				VisitID:      visitID,
				MedicationID: it.MedicationID,
				Quantity:     it.Quantity,
			})
			if err != nil {
				return err
			}
			out = append(out, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
