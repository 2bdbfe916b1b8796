package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/usecases"
)

// RegisterHandler creates an account.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		user, err := deps.Users.Register(c.UserContext(), req)
		if err != nil {
			return mapError(c, err)
		}
		c.Location("/v1/users/" + user.Username)
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// LoginHandler checks an email/password pair and returns the account.
func LoginHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		user, err := deps.Users.Authenticate(c.UserContext(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return errUnauthorized(c, "invalid credentials")
			}
			return mapError(c, err)
		}
		return c.JSON(user)
	}
}

// GetUserHandler returns a user by username.
func GetUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := deps.Users.GetByUsername(c.UserContext(), c.Params("username"))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(user)
	}
}

// SwitchRoleHandler moves a user between employee and employer.
func SwitchRoleHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Role string `json:"role"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		user, err := deps.Users.SwitchRole(c.UserContext(), c.Params("username"), req.Role)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(user)
	}
}

// DashboardHandler renders the home screen for a user. Employees pass their
// position as lat/lon to see nearby jobs.
func DashboardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		center, err := queryCenter(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		view, err := deps.Users.Dashboard(c.UserContext(), c.Params("username"), center)
		if err != nil {
			return mapError(c, err)
		}
		c.Set("Cache-Control", "private, no-store")
		return c.JSON(view)
	}
}
