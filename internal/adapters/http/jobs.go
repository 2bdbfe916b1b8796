package http

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/quickcash/internal/core/domain"
	"github.com/samirrijal/quickcash/internal/pkg/metrics"
	"github.com/samirrijal/quickcash/internal/pkg/telemetry"
)

type postJobRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Salary      float64          `json:"salary"`
	Location    *domain.GeoPoint `json:"location"`
}

// PostJobHandler creates a job for the acting employer.
func PostJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := actingEmail(c)
		if !ok {
			return nil
		}

		var req postJobRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if loc := req.Location; loc != nil && (loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180) {
			return errBadRequest(c, "location is out of range")
		}

		job, err := deps.Jobs.Post(c.UserContext(), &domain.Job{
			Name:          req.Name,
			Description:   req.Description,
			Category:      req.Category,
			EmployerEmail: email,
			Salary:        req.Salary,
			Location:      req.Location,
		})
		if err != nil {
			return mapError(c, err)
		}

		metrics.JobsPosted.WithLabelValues(job.Category).Inc()
		c.Location("/v1/jobs/" + job.ID)
		return c.Status(fiber.StatusCreated).JSON(job)
	}
}

// GetJobHandler returns a single job by ID.
func GetJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		job, err := deps.Jobs.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(job)
	}
}

// NearbyJobsHandler returns open jobs within radius_km of lat/lon, closest first.
func NearbyJobsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		center, err := queryCenter(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if center == nil {
			return errBadRequest(c, "lat and lon are required")
		}
		radius, err := queryRadius(c, deps.MapRadiusKm)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		limit := c.QueryInt("limit", 50)

		ctx, span := telemetry.Tracer(telemetry.TracerName).Start(c.UserContext(), telemetry.SpanNearbyJobs)
		defer span.End()
		span.SetAttributes(
			attribute.Float64("geo.lat", center.Lat),
			attribute.Float64("geo.lon", center.Lon),
			attribute.Float64("geo.radius_km", radius),
		)

		jobs, err := deps.Jobs.Nearby(ctx, *center, radius, limit)
		if err != nil {
			span.RecordError(err)
			return mapError(c, err)
		}
		span.SetAttributes(attribute.Int("jobs.count", len(jobs)))
		metrics.NearbyResults.Observe(float64(len(jobs)))

		return c.JSON(fiber.Map{
			"center":    center,
			"radius_km": radius,
			"jobs":      jobs,
		})
	}
}

// BrowseJobsHandler lists open jobs, closest first when lat/lon are given.
func BrowseJobsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		center, err := queryCenter(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		jobs, err := deps.Jobs.Browse(c.UserContext(), center)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(paginate(c, jobs))
	}
}

// SearchJobsHandler matches open jobs by name and category, ordered by
// distance when lat/lon are given.
func SearchJobsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		center, err := queryCenter(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		ctx, span := telemetry.Tracer(telemetry.TracerName).Start(c.UserContext(), telemetry.SpanSearchJobs)
		defer span.End()

		jobs, err := deps.Jobs.Search(ctx, c.Query("q"), c.Query("category"), center)
		if err != nil {
			span.RecordError(err)
			return mapError(c, err)
		}
		return c.JSON(paginate(c, jobs))
	}
}

// EmployerJobsHandler lists every job posted by an employer.
func EmployerJobsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobs, err := deps.Jobs.ListByEmployer(c.UserContext(), c.Params("email"))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(paginate(c, jobs))
	}
}

// CompleteJobHandler marks a job completed.
func CompleteJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := actingEmail(c)
		if !ok {
			return nil
		}
		job, err := deps.Jobs.Complete(c.UserContext(), c.Params("id"), email)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(job)
	}
}

// CloseJobHandler stops a job from taking applications.
func CloseJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := actingEmail(c)
		if !ok {
			return nil
		}
		job, err := deps.Jobs.Close(c.UserContext(), c.Params("id"), email)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(job)
	}
}

// DeleteJobHandler removes a job.
func DeleteJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := actingEmail(c)
		if !ok {
			return nil
		}
		if err := deps.Jobs.Delete(c.UserContext(), c.Params("id"), email); err != nil {
			return mapError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
