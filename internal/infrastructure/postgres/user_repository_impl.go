package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paulorsp2021/usuario/internal/domain/entity"
	"github.com/paulorsp2021/usuario/internal/domain/repository"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts the user row and any supplied addresses/phones in one
// transaction. The unique index on email surfaces as ErrDuplicate.
func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	for i := range u.Addresses {
		a := &u.Addresses[i]
		a.UserID = u.ID
		row := tx.QueryRow(ctx, `
			INSERT INTO addresses (street, number, city, complement, postal_code, state, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, a.Street, a.Number, a.City, a.Complement, a.PostalCode, a.State, a.UserID)
		if err := row.Scan(&a.ID); err != nil {
			return err
		}
	}
	for i := range u.Phones {
		p := &u.Phones[i]
		p.UserID = u.ID
		row := tx.QueryRow(ctx, `
			INSERT INTO phones (number, area_code, user_id)
			VALUES ($1, $2, $3)
			RETURNING id
		`, p.Number, p.AreaCode, p.UserID)
		if err := row.Scan(&p.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	addresses, err := r.addressesForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Addresses = addresses

	phones, err := r.phonesForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Phones = phones

	return u, nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	ctx := context.Background()
	var exists bool
	row := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteByEmail is idempotent: deleting an absent email is not an error.
// Owned addresses and phones are removed by ON DELETE CASCADE.
func (r *UserRepository) DeleteByEmail(email string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	return err
}

// Update writes the scalar columns only; owned collections are managed
// through their own repositories.
func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, password = $3, updated_at = $4
		WHERE id = $5
	`, u.Name, u.Email, u.Password, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) addressesForUser(ctx context.Context, userID int64) ([]entity.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, street, number, city, complement, postal_code, state, user_id
		FROM addresses
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Address
	for rows.Next() {
		var a entity.Address
		if err := rows.Scan(&a.ID, &a.Street, &a.Number, &a.City, &a.Complement, &a.PostalCode, &a.State, &a.UserID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *UserRepository) phonesForUser(ctx context.Context, userID int64) ([]entity.Phone, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, number, area_code, user_id
		FROM phones
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Phone
	for rows.Next() {
		var p entity.Phone
		if err := rows.Scan(&p.ID, &p.Number, &p.AreaCode, &p.UserID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
