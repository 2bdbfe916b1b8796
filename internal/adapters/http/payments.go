package http

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/core/ports"
	"github.com/samirrijal/quickcash/internal/pkg/metrics"
	"github.com/samirrijal/quickcash/internal/pkg/telemetry"
)

// PayJobHandler pays the hired employee of a completed job. With a workflow
// engine configured the payout runs asynchronously and the response is 202.
func PayJobHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Amount float64 `json:"amount"`
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
		if req.Amount <= 0 {
			return errBadRequest(c, "amount must be positive")
		}
		jobID := c.Params("id")

		ctx, span := telemetry.Tracer(telemetry.TracerName).Start(c.UserContext(), telemetry.SpanPayJob)
		defer span.End()
		span.SetAttributes(attribute.String("job.id", jobID))

		if deps.Workflows != nil {
			runID, err := deps.Workflows.StartJobPayment(ctx, ports.JobPaymentRequest{
				JobID:         jobID,
				EmployerEmail: email,
				Amount:        req.Amount,
			})
			if err != nil {
				span.RecordError(err)
				return mapError(c, err)
			}
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status":      "processing",
				"workflow_id": runID,
			})
		}

		payment, err := deps.Payments.Pay(ctx, jobID, email, req.Amount)
		if err != nil {
			span.RecordError(err)
			metrics.PaymentsProcessed.WithLabelValues(string(domain.PaymentFailed)).Inc()
			return mapError(c, err)
		}
		metrics.PaymentsProcessed.WithLabelValues(string(payment.Status)).Inc()
		return c.Status(fiber.StatusCreated).JSON(payment)
	}
}

// JobPaymentsHandler lists the payouts recorded for a job.
func JobPaymentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payments, err := deps.Payments.ListForJob(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}
		c.Set("Cache-Control", "private, no-store")
		return c.JSON(payments)
	}
}
