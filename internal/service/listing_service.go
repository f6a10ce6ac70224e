package service

import (
	"context"

	"github.com/spec-kit/ghostname-service/internal/domain"
)

// ListingService serves the public roster of committed names.
type ListingService struct {
	store ReservationStore
}

// NewListingService creates the service.
func NewListingService(store ReservationStore) *ListingService {
	return &ListingService{store: store}
}

// ListClaimedNames returns every owned name ordered by name.
func (s *ListingService) ListClaimedNames(ctx context.Context) ([]*domain.GhostName, error) {
	names, err := s.store.Ghosts().ListOwned(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []*domain.GhostName{}
	}
	return names, nil
}
