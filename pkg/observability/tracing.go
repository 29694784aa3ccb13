package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer provides distributed tracing capabilities. A disabled tracer runs
// the wrapped functions without opening segments.
type Tracer struct {
	serviceName string
	enabled     bool
}

// NewTracer creates a new tracer instance
func NewTracer(serviceName string, enabled bool) *Tracer {
	return &Tracer{
		serviceName: serviceName,
		enabled:     enabled,
	}
}

// Enabled reports whether segments are recorded
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Middleware opens one X-Ray segment per HTTP request. Inside Lambda, or
// when a segment is already on the context, it opens a subsegment instead,
// since Lambda owns the root segment.
func (t *Tracer) Middleware(next http.Handler) http.Handler {
	if !t.Enabled() {
		return next
	}

	segmented := xray.Handler(xray.NewFixedSegmentNamer(t.serviceName), next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !inSegment(r.Context()) {
			segmented.ServeHTTP(w, r)
			return
		}

		ctx, seg := xray.BeginSubsegment(r.Context(), t.serviceName+".http")
		next.ServeHTTP(w, r.WithContext(ctx))
		if seg != nil {
			seg.Close(nil)
		}
	})
}

// inSegment reports whether ctx already belongs to a trace: an open segment,
// or the trace header aws-lambda-go puts on every invocation context.
func inSegment(ctx context.Context) bool {
	if xray.GetSegment(ctx) != nil {
		return true
	}
	return ctx.Value(xray.LambdaTraceHeaderKey) != nil
}

// TraceFunction wraps a function in a subsegment of the current segment
func (t *Tracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	if !t.Enabled() || xray.GetSegment(ctx) == nil {
		return fn(ctx)
	}

	ctx, seg := xray.BeginSubsegment(ctx, fmt.Sprintf("%s.%s", t.serviceName, name))
	err := fn(ctx)
	if seg != nil {
		seg.Close(err)
	}
	return err
}

// AddAnnotation adds an indexed annotation to the current segment
func (t *Tracer) AddAnnotation(ctx context.Context, key string, value string) {
	if !t.Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// RecordError records an error in the current segment
func (t *Tracer) RecordError(ctx context.Context, err error) {
	if !t.Enabled() || err == nil {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddError(err)
	}
}
