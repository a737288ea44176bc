package tracker

import "context"

type contextKey struct{}

// WithContext returns a copy of ctx carrying t.
func WithContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext returns the tracker stored by Middleware or WithContext.
func FromContext(ctx context.Context) (*Tracker, bool) {
	t, ok := ctx.Value(contextKey{}).(*Tracker)
	return t, ok && t != nil
}
