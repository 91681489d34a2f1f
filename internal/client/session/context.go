package session

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying m. If ctx already carries a
// Manager, ctx is returned unchanged: there is one session per application.
func NewContext(ctx context.Context, m *Manager) context.Context {
	if _, ok := FromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, m)
}

func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(ctxKey{}).(*Manager)
	return m, ok && m != nil
}
