package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ghostname-service/internal/api/dto"
	"github.com/spec-kit/ghostname-service/internal/auth"
	"github.com/spec-kit/ghostname-service/internal/service"
	apperrors "github.com/spec-kit/ghostname-service/pkg/util/errorutil"
)

// GhostNamesHandler exposes the roster, the candidate offer and the commit.
type GhostNamesHandler struct {
	listing *service.ListingService
	alloc   *service.AllocationService
	commit  *service.CommitService
	now     service.Clock
}

// NewGhostNamesHandler constructs handler.
func NewGhostNamesHandler(listing *service.ListingService, alloc *service.AllocationService, commit *service.CommitService, now service.Clock) *GhostNamesHandler {
	if now == nil {
		now = service.SystemClock
	}
	return &GhostNamesHandler{listing: listing, alloc: alloc, commit: commit, now: now}
}

// List handles GET /ghost-names.
func (h *GhostNamesHandler) List(c *fiber.Ctx) error {
	names, err := h.listing.ListClaimedNames(c.UserContext())
	if err != nil {
		return serviceError(err, "ghost names", nil)
	}
	return c.JSON(fiber.Map{
		"data":  dto.NewClaimedNameResponses(names),
		"count": len(names),
	})
}

// Offer handles GET /ghost-names/offer.
func (h *GhostNamesHandler) Offer(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	now := h.now()
	names, err := h.alloc.OfferCandidates(c.UserContext(), principal.Email(), now)
	if err != nil {
		return serviceError(err, "ghost names", nil)
	}
	return c.JSON(fiber.Map{"data": dto.NewOfferResponse(names, now)})
}

// Select handles POST /ghost-names/select.
func (h *GhostNamesHandler) Select(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.UniqueID = strings.TrimSpace(req.UniqueID)
	if req.UniqueID == "" {
		return apperrors.NewValidationError("unique_id required", map[string]any{"unique_id": "required"})
	}

	var reservedAt time.Time
	if req.ReservedAt != "" {
		parsed, err := time.Parse(time.RFC3339Nano, req.ReservedAt)
		if err != nil {
			return apperrors.NewValidationError("reserved_at must be an RFC 3339 timestamp", map[string]any{"reserved_at": req.ReservedAt})
		}
		reservedAt = parsed.UTC()
	}

	sel, err := h.commit.CommitSelection(c.UserContext(), req.UniqueID, reservedAt, principal.Email())
	if err != nil {
		return serviceError(err, "ghost name", map[string]any{"unique_id": req.UniqueID})
	}
	return c.JSON(fiber.Map{"data": dto.SelectionResponse{
		GhostName: dto.NewOwnedNameResponse(sel.Ghost),
		Account:   dto.NewUserResponse(sel.User),
	}})
}
