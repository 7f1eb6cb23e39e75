package navigation

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zjrosen/thingdock/internal/navigation"

// tracer returns the navigation tracer from the global provider. Until a
// provider is installed the global one is a no-op.
func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
