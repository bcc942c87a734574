package facilities

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name string) (*Facility, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO facilities (name) VALUES ($1)
		RETURNING id, name, created_at
	`, name)
	var f Facility
	if err := row.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Facility, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM facilities WHERE id=$1`, id)
	var f Facility
	if err := row.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repo) List(ctx context.Context) ([]Facility, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM facilities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
