// Package viewer carries the identity of the requesting user through a request.
package viewer

import "context"

// Viewer is the requesting identity. The zero value is an anonymous viewer.
type Viewer struct {
	id string
}

// New creates a viewer for the given user ID. An empty ID yields an anonymous viewer.
func New(id string) Viewer {
	return Viewer{id: id}
}

// Anonymous returns the unauthenticated viewer.
func Anonymous() Viewer { return Viewer{} }

// ID returns the user ID, empty for anonymous viewers.
func (v Viewer) ID() string { return v.id }

// Authenticated reports whether the viewer carries an identity.
func (v Viewer) Authenticated() bool { return v.id != "" }

type ctxKey struct{}

// NewContext stores the viewer in the context.
func NewContext(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, ctxKey{}, v)
}

// FromContext returns the viewer stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Viewer {
	if v, ok := ctx.Value(ctxKey{}).(Viewer); ok {
		return v
	}
	return Anonymous()
}
