package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"kairos-voice/pkg/utils"
)

// PostgresRepo reads businesses and customers from Postgres.
//
// Expected tables:
// - businesses(id, business_name, ai_services jsonb)
// - customers(id, full_name, phone) with UNIQUE(phone)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetBusiness(ctx context.Context, id string) (Business, error) {
	const q = `
SELECT id, business_name, COALESCE(ai_services, '[]'::jsonb)
FROM businesses
WHERE id = $1
`
	var b Business
	var rawServices []byte
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Name, &rawServices); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		return Business{}, fmt.Errorf("directory: get business: %w", err)
	}

	// A malformed catalog should not fail the lookup; the call proceeds with
	// an empty catalog and bookings resolve to price 0.
	if err := json.Unmarshal(rawServices, &b.Services); err != nil {
		b.Services = nil
	}
	return b, nil
}

// GetOrCreateCustomer resolves a customer by phone, inserting one when
// missing. The select and insert run in one transaction so a concurrent
// resolve for the same phone cannot observe the gap between them.
func (r *PostgresRepo) GetOrCreateCustomer(ctx context.Context, phone, fullName string) (Customer, error) {
	const sel = `
SELECT id, full_name, phone
FROM customers
WHERE phone = $1
`
	const ins = `
INSERT INTO customers (full_name, phone)
VALUES ($1, $2)
ON CONFLICT (phone) DO UPDATE SET full_name = customers.full_name
RETURNING id, full_name, phone
`
	var c Customer
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, sel, phone).Scan(&c.ID, &c.FullName, &c.Phone)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("directory: lookup customer: %w", err)
		}
		if err := tx.QueryRowContext(ctx, ins, fullName, phone).Scan(&c.ID, &c.FullName, &c.Phone); err != nil {
			return fmt.Errorf("directory: create customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}
