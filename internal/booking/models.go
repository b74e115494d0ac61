package booking

import "context"

// Appointment is the record written when a booking directive is honored.
// Date and Time stay exactly as the model emitted them ("YYYY-MM-DD" and
// "HH:MM"); timezone interpretation happens only at the calendar boundary.
type Appointment struct {
	ID            string `json:"id,omitempty" db:"id"`
	BusinessID    string `json:"business_id" db:"business_id"`
	CustomerID    string `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName  string `json:"customer_name" db:"customer_name"`
	CustomerPhone string `json:"customer_phone" db:"customer_phone"`

	Date      string `json:"date" db:"date"`
	Time      string `json:"time" db:"time"`
	ServiceID string `json:"service_id" db:"service_id"`
	Price     int64  `json:"price" db:"price"`

	Status Status `json:"status" db:"status"`
}

type Status string

// StatusConfirmed is the only status the engine writes; cancellations happen
// outside the call flow.
const StatusConfirmed Status = "confirmed"

// Repository is the persistence contract for appointments.
// It is append-only from the engine's point of view.
type Repository interface {
	Create(ctx context.Context, a Appointment) error
}
