// Package rtrace wraps the OpenTelemetry tracing API
// for the handful of spans the middleware records.
package rtrace

import (
	otelattr "go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	otpnoop "go.opentelemetry.io/otel/trace/noop"
)

type TracerProvider = oteltrace.TracerProvider

type Tracer = oteltrace.Tracer

type Span = oteltrace.Span

type KeyValueAttr = otelattr.KeyValue

// InstrumentationName is the tracer name used for all spans from this module.
const InstrumentationName = "github.com/gordian-engine/rxepic"

// NopTracerProvider returns the otel no-op tracer provider.
// This is intended to use as a fallback when a nil tracer provider is given.
func NopTracerProvider() TracerProvider {
	return otpnoop.NewTracerProvider()
}

// NewTracer returns the module's tracer from tp,
// falling back to the no-op provider if tp is nil.
func NewTracer(tp TracerProvider) Tracer {
	if tp == nil {
		tp = NopTracerProvider()
	}
	return tp.Tracer(InstrumentationName)
}

// WithAttributes is an alias to [oteltrace.WithAttributes]
// to allow consumers to only reference the rtrace package.
func WithAttributes(attrs ...KeyValueAttr) oteltrace.SpanStartEventOption {
	return oteltrace.WithAttributes(attrs...)
}

// SpanError sets the given span to error status,
// with detail from err.Error().
func SpanError(span Span, err error) {
	span.SetStatus(otelcodes.Error, err.Error())
}

// ErrorAttr returns an attribute with the key "err"
// and the lazily evaluated value of err's Error() method.
func ErrorAttr(err error) KeyValueAttr {
	return otelattr.Stringer("err", errStringer{err: err})
}

type errStringer struct {
	err error
}

func (e errStringer) String() string {
	return e.err.Error()
}

// MiddlewareIDAttr identifies the middleware instance a span belongs to.
func MiddlewareIDAttr(id string) KeyValueAttr {
	return otelattr.String("rxepic.middleware.id", id)
}

// PatchCountAttr records the number of patches in a transition.
func PatchCountAttr(n int) KeyValueAttr {
	return otelattr.Int("rxepic.transition.patches", n)
}

// EpicAttr records the name of the root epic.
func EpicAttr(name string) KeyValueAttr {
	return otelattr.String("rxepic.epic", name)
}
