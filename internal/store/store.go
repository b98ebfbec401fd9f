// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/umurima-rw/umurima/internal/domain"
)

// GraduateQuery filters the graduate search. Empty location fields are
// unconstrained; ServiceType is always required. Only available graduates
// whose expertise covers the service type are returned.
type GraduateQuery struct {
	ServiceType  domain.ServiceType
	ProvinceCode string
	DistrictCode string
	SectorCode   string
	CellCode     string
}

// Repository defines the interface for persisting farmers, graduates and
// service requests. Lookups return (nil, nil) when no record exists.
type Repository interface {
	// GetFarmer retrieves a farmer by phone number.
	GetFarmer(ctx context.Context, phone string) (*domain.Farmer, error)

	// UpsertFarmer creates or updates a farmer record keyed by phone.
	UpsertFarmer(ctx context.Context, farmer *domain.Farmer) error

	// GetGraduate retrieves a graduate by phone number.
	GetGraduate(ctx context.Context, phone string) (*domain.Graduate, error)

	// UpsertGraduate creates or updates a graduate record keyed by phone.
	UpsertGraduate(ctx context.Context, grad *domain.Graduate) error

	// FindAvailableGraduates returns available graduates matching the query,
	// ordered by creation time then phone.
	FindAvailableGraduates(ctx context.Context, q GraduateQuery) ([]*domain.Graduate, error)

	// CreateServiceRequest persists a new service request.
	CreateServiceRequest(ctx context.Context, req *domain.ServiceRequest) error

	// GetServiceRequest retrieves a service request by id.
	GetServiceRequest(ctx context.Context, id string) (*domain.ServiceRequest, error)

	// ListRequestsByPhone returns a farmer's most recent requests, newest first.
	ListRequestsByPhone(ctx context.Context, phone string, limit int) ([]*domain.ServiceRequest, error)

	// UpdateRequestStatus moves a request through its lifecycle, enforcing
	// the transition table and stamping the matching timestamp.
	UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
