package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/Spok95/clinic-backend/internal/domain/medications"
	"github.com/Spok95/clinic-backend/internal/domain/stock"
	"github.com/Spok95/clinic-backend/internal/domain/usage"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Store — Postgres-реализация транзакционных хранилищ журнала и аллокатора.
// Сериализация по медикаменту обеспечивается SELECT ... FOR UPDATE,
// конфликты транзакций повторяются ограниченное число раз.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) Stock() stock.Runner { return stockStore{s} }
func (s *Store) Usage() usage.Runner { return usageStore{s} }

func (s *Store) run(ctx context.Context, fn func(ops *TxOps) error) error {
	b := retry.WithMaxRetries(3, retry.NewExponential(25*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := s.attempt(ctx, fn)
		if isTxConflict(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *Store) attempt(ctx context.Context, fn func(ops *TxOps) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&TxOps{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// 40001 — serialization_failure, 40P01 — deadlock_detected
func isTxConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// TxOps реализует usage.Tx поверх открытой pgx-транзакции.
type TxOps struct {
	tx pgx.Tx
}

func (t *TxOps) MedicationForUpdate(ctx context.Context, id int64) (*medications.Medication, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT id, short_name, full_name, unit, price_per_unit, stock_quantity, created_at
		FROM medications
		WHERE id = $1
		FOR UPDATE
	`, id)
	var m medications.Medication
	if err := row.Scan(&m.ID, &m.ShortName, &m.FullName, &m.Unit, &m.PricePerUnit, &m.StockQuantity, &m.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (t *TxOps) SaveStock(ctx context.Context, id int64, qty float64) error {
	_, err := t.tx.Exec(ctx, `UPDATE medications SET stock_quantity=$2 WHERE id=$1`, id, qty)
	return err
}

func (t *TxOps) AppendLog(ctx context.Context, e stock.Entry) (stock.Entry, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO medication_stock_log
			(medication_id, visit_id, change_type, quantity_changed, previous_stock, new_stock)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`, e.MedicationID, e.VisitID, string(e.ChangeType), e.QuantityChanged, e.PreviousStock, e.NewStock)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return stock.Entry{}, err
	}
	return e, nil
}

func (t *TxOps) VisitExists(ctx context.Context, id int64) (bool, error) {
	row := t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM visits WHERE id=$1)`, id)
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (t *TxOps) InsertUsage(ctx context.Context, u usage.Usage) (usage.Usage, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO medication_usages (visit_id, medication_id, quantity)
		VALUES ($1,$2,$3)
		RETURNING id, created_at
	`, u.VisitID, u.MedicationID, u.Quantity)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return usage.Usage{}, err
	}
	return u, nil
}

type stockStore struct{ s *Store }

func (r stockStore) WithinTx(ctx context.Context, fn func(tx stock.Tx) error) error {
	return r.s.run(ctx, func(ops *TxOps) error { return fn(ops) })
}

func (r stockStore) Log(ctx context.Context, medicationID int64) ([]stock.Entry, error) {
	rows, err := r.s.pool.Query(ctx, `
		SELECT id, medication_id, visit_id, change_type, quantity_changed, previous_stock, new_stock, created_at
		FROM medication_stock_log
		WHERE medication_id = $1
		ORDER BY id
	`, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stock.Entry
	for rows.Next() {
		var e stock.Entry
		var ct string
		if err := rows.Scan(&e.ID, &e.MedicationID, &e.VisitID, &ct, &e.QuantityChanged, &e.PreviousStock, &e.NewStock, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ChangeType = stock.ChangeType(ct)
		out = append(out, e)
	}
	return out, rows.Err()
}

type usageStore struct{ s *Store }

func (r usageStore) WithinTx(ctx context.Context, fn func(tx usage.Tx) error) error {
	return r.s.run(ctx, func(ops *TxOps) error { return fn(ops) })
}
