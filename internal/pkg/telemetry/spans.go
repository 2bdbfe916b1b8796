package telemetry

// Span names used for instrumentation.
const (
	TracerName = "github.com/samirrijal/quickcash"

	SpanNearbyJobs = "jobs.nearby"
	SpanSearchJobs = "jobs.search"
	SpanPayJob     = "payments.pay"
)
