package directory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory repository useful for tests and early development.
type MemoryRepo struct {
	mu sync.Mutex

	Businesses []Business
	Customers  []Customer
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) GetBusiness(ctx context.Context, id string) (Business, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.Businesses {
		if b.ID == id {
			return b, nil
		}
	}
	return Business{}, ErrNotFound
}

func (r *MemoryRepo) GetOrCreateCustomer(ctx context.Context, phone, fullName string) (Customer, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	c := Customer{ID: uuid.NewString(), FullName: fullName, Phone: phone}
	r.Customers = append(r.Customers, c)
	return c, nil
}
