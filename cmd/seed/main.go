package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/mezshop/shop-api/config"
	"github.com/mezshop/shop-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@mezshop.dev"
	password := "demo12345"
	name := "Demo Shopkeeper"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var ownerID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&ownerID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", ownerID, email, password)

	products := []struct {
		title       string
		description string
		priceCents  int64
	}{
		{"A Book", "An interesting read about all kinds of things.", 1299},
		{"A Mug", "Holds roughly one coffee's worth of coffee.", 899},
		{"A Poster", "Brightens any wall it lands on.", 1950},
	}
	for _, p := range products {
		var id string
		err := db.QueryRow(`
			INSERT INTO products (owner_id, title, description, price_cents, image_url)
			VALUES ($1, $2, $3, $4, '')
			ON CONFLICT DO NOTHING
			RETURNING id
		`, ownerID, p.title, p.description, p.priceCents).Scan(&id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			log.Fatalf("failed to seed product %q: %v", p.title, err)
		}
		fmt.Printf("seeded product: id=%s title=%q\n", id, p.title)
	}
}
