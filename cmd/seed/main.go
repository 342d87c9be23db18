package main

import (
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/paulorsp2021/usuario/config"
	"github.com/paulorsp2021/usuario/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@usuario.dev"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO addresses (street, number, city, complement, postal_code, state, user_id)
		SELECT 'Avenida Paulista', 1000, 'Sao Paulo', 'apto 12', '01310-100', 'SP', $1
		WHERE NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1)
	`, id)
	if err != nil {
		log.Fatalf("failed to seed address: %v", err)
	}

	log.Printf("seeded user %s (id=%d)", email, id)
}
