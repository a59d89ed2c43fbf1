package domain

import "context"

type authSurfaceKey struct{}

// WithAuthSurface marks ctx as originating from a sign-in or sign-out flow.
// Requests made with it surface 401 responses directly instead of refreshing.
func WithAuthSurface(ctx context.Context) context.Context {
	return context.WithValue(ctx, authSurfaceKey{}, true)
}

// OnAuthSurface reports whether ctx was marked by WithAuthSurface.
func OnAuthSurface(ctx context.Context) bool {
	v, _ := ctx.Value(authSurfaceKey{}).(bool)
	return v
}
