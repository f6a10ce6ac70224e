package dto

import (
	"time"

	"github.com/spec-kit/ghostname-service/internal/domain"
)

// ClaimedNameResponse is one entry of the public roster.
type ClaimedNameResponse struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	OwnerFirstName string `json:"owner_first_name"`
	OwnerLastName  string `json:"owner_last_name"`
}

// CandidateResponse is a name currently held for the caller.
type CandidateResponse struct {
	UniqueID    string    `json:"unique_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HeldAt      time.Time `json:"held_at"`
}

// OfferResponse lists the caller's candidates. Available is false when the pool
// has nothing left to offer.
type OfferResponse struct {
	Available  bool                `json:"available"`
	ReservedAt time.Time           `json:"reserved_at"`
	Candidates []CandidateResponse `json:"candidates"`
}

// SelectRequest commits one of the offered candidates.
type SelectRequest struct {
	UniqueID   string `json:"unique_id"`
	ReservedAt string `json:"reserved_at"`
}

// OwnedNameResponse describes a committed name.
type OwnedNameResponse struct {
	UniqueID    string    `json:"unique_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ClaimedAt   time.Time `json:"claimed_at"`
}

// SelectionResponse returns the committed name with the refreshed account.
type SelectionResponse struct {
	GhostName OwnedNameResponse `json:"ghost_name"`
	Account   UserResponse      `json:"account"`
}

// NewClaimedNameResponses maps owned names onto the public roster.
func NewClaimedNameResponses(names []*domain.GhostName) []ClaimedNameResponse {
	out := make([]ClaimedNameResponse, 0, len(names))
	for _, g := range names {
		first, last := g.Claim.OwnerName()
		out = append(out, ClaimedNameResponse{
			Name:           g.Name,
			Description:    g.Description,
			OwnerFirstName: first,
			OwnerLastName:  last,
		})
	}
	return out
}

// NewOfferResponse maps held candidates.
func NewOfferResponse(names []*domain.GhostName, reservedAt time.Time) OfferResponse {
	resp := OfferResponse{
		Available:  len(names) > 0,
		ReservedAt: reservedAt,
		Candidates: make([]CandidateResponse, 0, len(names)),
	}
	for _, g := range names {
		resp.Candidates = append(resp.Candidates, CandidateResponse{
			UniqueID:    g.UniqueID,
			Name:        g.Name,
			Description: g.Description,
			HeldAt:      g.Claim.Since(),
		})
	}
	return resp
}

// NewOwnedNameResponse maps a committed name.
func NewOwnedNameResponse(g *domain.GhostName) OwnedNameResponse {
	return OwnedNameResponse{
		UniqueID:    g.UniqueID,
		Name:        g.Name,
		Description: g.Description,
		ClaimedAt:   g.Claim.Since(),
	}
}
