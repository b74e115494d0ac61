package booking

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo writes appointments to Postgres.
//
// Expected table:
// - appointments(id, business_id, customer_id, customer_name, customer_phone,
//   date, time, service_id, price, status)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, a Appointment) error {
	const q = `
INSERT INTO appointments
	(business_id, customer_id, customer_name, customer_phone, date, time, service_id, price, status)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)
`
	if _, err := r.db.ExecContext(ctx, q,
		a.BusinessID,
		a.CustomerID,
		a.CustomerName,
		a.CustomerPhone,
		a.Date,
		a.Time,
		a.ServiceID,
		a.Price,
		a.Status,
	); err != nil {
		return fmt.Errorf("booking: insert appointment: %w", err)
	}
	return nil
}
