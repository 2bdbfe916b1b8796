package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/quickcash/internal/adapters/postgres"
	"github.com/samirrijal/quickcash/internal/adapters/valkey"
	"github.com/samirrijal/quickcash/internal/core/ports"
	"github.com/samirrijal/quickcash/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Jobs         *usecases.JobService
	Applications *usecases.ApplicationService
	Users        *usecases.UserService
	Payments     *usecases.PaymentService
	// Workflows, when set, runs payouts asynchronously.
	Workflows ports.WorkflowStarter

	// MapRadiusKm is the default radius of /v1/jobs/nearby.
	MapRadiusKm float64

	NATS  *nats.Conn
	DB    *postgres.DB
	Cache *valkey.Cache
}
