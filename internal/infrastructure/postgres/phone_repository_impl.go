package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paulorsp2021/usuario/internal/domain/entity"
	"github.com/paulorsp2021/usuario/internal/domain/repository"
)

type PhoneRepository struct {
	pool *pgxpool.Pool
}

func NewPhoneRepository(pool *pgxpool.Pool) *PhoneRepository {
	return &PhoneRepository{pool: pool}
}

func (r *PhoneRepository) Create(p *entity.Phone) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO phones (number, area_code, user_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, p.Number, p.AreaCode, p.UserID)
	return row.Scan(&p.ID)
}

func (r *PhoneRepository) GetByID(id int64) (*entity.Phone, error) {
	ctx := context.Background()
	p := &entity.Phone{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, number, area_code, user_id
		FROM phones
		WHERE id = $1
	`, id)
	if err := row.Scan(&p.ID, &p.Number, &p.AreaCode, &p.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PhoneRepository) Update(p *entity.Phone) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE phones
		SET number = $1, area_code = $2
		WHERE id = $3
	`, p.Number, p.AreaCode, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PhoneRepository = (*PhoneRepository)(nil)
