package trace

import "context"

type ctxKey struct{}

// binding is what a context carries: the tracer and the innermost open span.
type binding struct {
	tracer Tracer
	span   uint64
}

func lookup(ctx context.Context) binding {
	if ctx != nil {
		if b, ok := ctx.Value(ctxKey{}).(binding); ok {
			return b
		}
	}
	return binding{tracer: Nop}
}

// FromContext returns the context's tracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	return lookup(ctx).tracer
}

// WithTracer attaches t, keeping the current span id.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	b := lookup(ctx)
	b.tracer = t
	return context.WithValue(ctx, ctxKey{}, b)
}

// SpanID returns the id of the innermost span started with Start, 0 at the
// root.
func SpanID(ctx context.Context) uint64 {
	return lookup(ctx).span
}

// WithSpan makes id the parent of spans started from the returned context.
func WithSpan(ctx context.Context, id uint64) context.Context {
	b := lookup(ctx)
	b.span = id
	return context.WithValue(ctx, ctxKey{}, b)
}

// Start begins a span under the context's current span and returns a context
// whose children nest below it. Disabled scopes return ctx unchanged.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	b := lookup(ctx)
	sp := Begin(b.tracer, scope, name, b.span)
	if sp.id == 0 {
		return ctx, sp
	}
	return WithSpan(ctx, sp.id), sp
}

// Pointf emits an instant event below the context's current span.
func Pointf(ctx context.Context, scope Scope, name, detail string) {
	b := lookup(ctx)
	Point(b.tracer, scope, name, detail, b.span)
}
