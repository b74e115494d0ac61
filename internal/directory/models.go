package directory

import (
	"context"
	"errors"
)

// Business is a tenant that can be called on behalf of. Its service catalog
// is stored as JSON (column ai_services) and is fixed per call session: it
// is fetched once at call initiation and never refreshed mid-call.
type Business struct {
	ID       string    `json:"id"`
	Name     string    `json:"business_name"`
	Services []Service `json:"services"`
}

// Service is one bookable catalog entry. Price is whole lira.
type Service struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type Customer struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

var ErrNotFound = errors.New("directory: not found")

// Repository is the persistence contract for businesses and customers.
type Repository interface {
	// GetBusiness returns the business and its service catalog.
	GetBusiness(ctx context.Context, id string) (Business, error)

	// GetOrCreateCustomer resolves a customer by phone, creating the record
	// when none exists. Phone must already be normalized.
	GetOrCreateCustomer(ctx context.Context, phone, fullName string) (Customer, error)
}
