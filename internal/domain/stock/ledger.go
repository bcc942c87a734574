package stock

import (
	"context"
	"fmt"

	"github.com/Spok95/clinic-backend/internal/domain/medications"
)

// Tx — операции над остатком внутри одной транзакции хранилища.
// Реализация обязана удерживать блокировку строки медикамента
// от MedicationForUpdate до конца транзакции.
type Tx interface {
	// MedicationForUpdate читает медикамент с эксклюзивной блокировкой.
	// (nil, nil) — медикамента нет.
	MedicationForUpdate(ctx context.Context, id int64) (*medications.Medication, error)
	SaveStock(ctx context.Context, id int64, qty float64) error
	AppendLog(ctx context.Context, e Entry) (Entry, error)
}

// Runner исполняет fn атомарно: либо фиксируются все изменения, либо никакие.
type Runner interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	Log(ctx context.Context, medicationID int64) ([]Entry, error)
}

// Ledger — единственная точка изменения остатков. Каждое изменение
// пишет запись журнала в той же транзакции, что и сам остаток.
type Ledger struct {
	db Runner
}

func NewLedger(db Runner) *Ledger { return &Ledger{db: db} }

// Consume списывает qty медикамента в счёт визита.
func (l *Ledger) Consume(ctx context.Context, medicationID, visitID int64, qty float64) (*medications.Medication, *Entry, error) {
	var (
		med   *medications.Medication
		entry *Entry
	)
	err := l.db.WithinTx(ctx, func(tx Tx) error {
		var err error
		med, entry, err = l.ApplyInTx(ctx, tx, medicationID, &visitID, qty, ChangeDecrease)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return med, entry, nil
}

// Restock приходует qty медикамента без привязки к визиту.
func (l *Ledger) Restock(ctx context.Context, medicationID int64, qty float64) (*medications.Medication, *Entry, error) {
	var (
		med   *medications.Medication
		entry *Entry
	)
	err := l.db.WithinTx(ctx, func(tx Tx) error {
		var err error
		med, entry, err = l.ApplyInTx(ctx, tx, medicationID, nil, qty, ChangeIncrease)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return med, entry, nil
}

// ApplyInTx выполняет изменение остатка внутри уже открытой транзакции.
// Используется аллокатором, чтобы списание и запись использования
// фиксировались одним коммитом.
func (l *Ledger) ApplyInTx(ctx context.Context, tx Tx, medicationID int64, visitID *int64, qty float64, ct ChangeType) (*medications.Medication, *Entry, error) {
	if qty <= 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidQuantity, qty)
	}

	med, err := tx.MedicationForUpdate(ctx, medicationID)
	if err != nil {
		return nil, nil, err
	}
	if med == nil {
		return nil, nil, fmt.Errorf("%w: medication id=%d", ErrNotFound, medicationID)
	}

	prev := med.StockQuantity
	var next float64
	switch ct {
	case ChangeDecrease:
		if qty > prev {
			return nil, nil, fmt.Errorf("%w: medication %q: requested %v, on hand %v",
				ErrInsufficientStock, med.ShortName, qty, prev)
		}
		next = prev - qty
	case ChangeIncrease:
		next = prev + qty
	default:
		return nil, nil, fmt.Errorf("unknown change type %q", ct)
	}

	if err := tx.SaveStock(ctx, medicationID, next); err != nil {
		return nil, nil, err
	}
	entry, err := tx.AppendLog(ctx, Entry{
		MedicationID:    medicationID,
		VisitID:         visitID,
		ChangeType:      ct,
		QuantityChanged: qty,
		PreviousStock:   prev,
		NewStock:        next,
	})
	if err != nil {
		return nil, nil, err
	}

	med.StockQuantity = next
	return med, &entry, nil
}

// History возвращает журнал медикамента в порядке применения изменений.
func (l *Ledger) History(ctx context.Context, medicationID int64) ([]Entry, error) {
	return l.db.Log(ctx, medicationID)
}
