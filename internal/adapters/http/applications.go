package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/pkg/metrics"
)

// ApplyHandler submits an application from the acting employee.
func ApplyHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Message string `json:"message"`
	}
	return func(c *fiber.Ctx) error {
		email, ok := actingEmail(c)
		if !ok {
			return nil
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		app, err := deps.Applications.Apply(c.UserContext(), c.Params("id"), email, req.Message)
		if err != nil {
			return mapError(c, err)
		}
		metrics.ApplicationsSubmitted.Inc()
		return c.Status(fiber.StatusCreated).JSON(app)
	}
}

// JobApplicationsHandler lists the applications received by a job.
func JobApplicationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apps, err := deps.Applications.ListForJob(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(paginate(c, apps))
	}
}

// ReviewApplicationHandler accepts or rejects an application.
func ReviewApplicationHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Decision string `json:"decision"`
	}
	return func(c *fiber.Ctx) error {
		email, ok := actingEmail(c)
		if !ok {
			return nil
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		app, err := deps.Applications.Review(c.UserContext(), c.Params("id"), email, domain.ApplicationStatus(req.Decision))
		if err != nil {
			return mapError(c, err)
		}
		metrics.ApplicationsReviewed.WithLabelValues(string(app.Status)).Inc()
		return c.JSON(app)
	}
}

// ApplicantApplicationsHandler lists an employee's applications, accepted first.
func ApplicantApplicationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apps, err := deps.Applications.ListForApplicant(c.UserContext(), c.Params("email"))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(paginate(c, apps))
	}
}
