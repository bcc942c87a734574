package patients

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name, phone string, birthDate, rank, unit string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (name, phone, birth_date, rank, unit)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, name, phone, birth_date, rank, unit, created_at
	`, name, phone, birthDate, rank, unit)

	var p Patient
	if err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.BirthDate, &p.Rank, &p.Unit, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, birth_date, rank, unit, created_at
		FROM patients WHERE id=$1
	`, id)
	var p Patient
	if err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.BirthDate, &p.Rank, &p.Unit, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, birth_date, rank, unit, created_at
		FROM patients ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.BirthDate, &p.Rank, &p.Unit, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
