package booking

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory repository useful for tests and early development.
type MemoryRepo struct {
	mu sync.Mutex

	Appointments []Appointment
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Create(ctx context.Context, a Appointment) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.Appointments = append(r.Appointments, a)
	return nil
}

// All returns a snapshot of recorded appointments.
func (r *MemoryRepo) All() []Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Appointment, len(r.Appointments))
	copy(out, r.Appointments)
	return out
}
