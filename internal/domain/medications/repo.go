package medications

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/clinic-backend/internal/domain/dosage"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, shortName, fullName, unit string, pricePerUnit float64) (*Medication, error) {
	// единица обязана быть в таблице классов, иначе распределение по дням невозможно
	if !dosage.KnownUnit(unit) {
		return nil, fmt.Errorf("%w: %q", dosage.ErrUnknownUnit, unit)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO medications (short_name, full_name, unit, price_per_unit, stock_quantity)
		VALUES ($1,$2,$3,$4,0)
		RETURNING id, short_name, full_name, unit, price_per_unit, stock_quantity, created_at
	`, shortName, fullName, unit, pricePerUnit)

	var m Medication
	if err := row.Scan(&m.ID, &m.ShortName, &m.FullName, &m.Unit, &m.PricePerUnit, &m.StockQuantity, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Medication, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, short_name, full_name, unit, price_per_unit, stock_quantity, created_at
		FROM medications
		WHERE id = $1
	`, id)
	var m Medication
	if err := row.Scan(&m.ID, &m.ShortName, &m.FullName, &m.Unit, &m.PricePerUnit, &m.StockQuantity, &m.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) List(ctx context.Context) ([]Medication, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, short_name, full_name, unit, price_per_unit, stock_quantity, created_at
		FROM medications
		ORDER BY short_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Medication
	for rows.Next() {
		var m Medication
		if err := rows.Scan(&m.ID, &m.ShortName, &m.FullName, &m.Unit, &m.PricePerUnit, &m.StockQuantity, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) UpdatePrice(ctx context.Context, id int64, pricePerUnit float64) (*Medication, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE medications SET price_per_unit=$2
		WHERE id=$1
		RETURNING id, short_name, full_name, unit, price_per_unit, stock_quantity, created_at
	`, id, pricePerUnit)
	var m Medication
	if err := row.Scan(&m.ID, &m.ShortName, &m.FullName, &m.Unit, &m.PricePerUnit, &m.StockQuantity, &m.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medications WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ConsumptionTotals — суммарный расход по журналу за период, для акта списания.
func (r *Repo) ConsumptionTotals(ctx context.Context, from, to string) ([]ConsumptionTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.short_name, m.full_name, m.unit, SUM(l.quantity_changed), m.price_per_unit
		FROM medication_stock_log l
		JOIN medications m ON m.id = l.medication_id
		WHERE l.change_type = 'DECREASE'
		  AND l.created_at >= $1::date
		  AND l.created_at < ($2::date + INTERVAL '1 day')
		GROUP BY m.id, m.short_name, m.full_name, m.unit, m.price_per_unit
		ORDER BY m.short_name
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConsumptionTotal
	for rows.Next() {
		var t ConsumptionTotal
		if err := rows.Scan(&t.MedicationID, &t.ShortName, &t.FullName, &t.Unit, &t.Quantity, &t.PricePerUnit); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
