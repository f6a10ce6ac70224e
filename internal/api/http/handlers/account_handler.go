package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ghostname-service/internal/api/dto"
	"github.com/spec-kit/ghostname-service/internal/auth"
	"github.com/spec-kit/ghostname-service/internal/service"
	apperrors "github.com/spec-kit/ghostname-service/pkg/util/errorutil"
)

// AccountHandler exposes the caller's user record.
type AccountHandler struct {
	users *service.UserService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(users *service.UserService) *AccountHandler {
	return &AccountHandler{users: users}
}

// Session handles POST /account/session: the first verified request creates the
// user, later ones return it unchanged.
func (h *AccountHandler) Session(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.users.UpsertUser(c.UserContext(), principal.Email())
	if err != nil {
		return serviceError(err, "user", nil)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Get handles GET /account.
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.users.GetUser(c.UserContext(), principal.Email())
	if err != nil {
		return serviceError(err, "user", nil)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /account/profile.
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateProfile(c.UserContext(), principal.Email(), req.FirstName, req.LastName)
	if err != nil {
		return serviceError(err, "user", nil)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
