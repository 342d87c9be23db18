package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paulorsp2021/usuario/internal/domain/entity"
	"github.com/paulorsp2021/usuario/internal/domain/repository"
)

type AddressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

func (r *AddressRepository) Create(a *entity.Address) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO addresses (street, number, city, complement, postal_code, state, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, a.Street, a.Number, a.City, a.Complement, a.PostalCode, a.State, a.UserID)
	return row.Scan(&a.ID)
}

func (r *AddressRepository) GetByID(id int64) (*entity.Address, error) {
	ctx := context.Background()
	a := &entity.Address{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, street, number, city, complement, postal_code, state, user_id
		FROM addresses
		WHERE id = $1
	`, id)
	if err := row.Scan(&a.ID, &a.Street, &a.Number, &a.City, &a.Complement, &a.PostalCode, &a.State, &a.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AddressRepository) Update(a *entity.Address) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE addresses
		SET street = $1, number = $2, city = $3, complement = $4, postal_code = $5, state = $6
		WHERE id = $7
	`, a.Street, a.Number, a.City, a.Complement, a.PostalCode, a.State, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AddressRepository = (*AddressRepository)(nil)
