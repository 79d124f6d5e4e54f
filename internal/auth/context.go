package auth

import "context"

type ownerCtxKey struct{}

// ContextWithOwner returns a copy of ctx carrying the signed in user's ID.
func ContextWithOwner(ctx context.Context, owner int) context.Context {
	return context.WithValue(ctx, ownerCtxKey{}, owner)
}

func OwnerFromContext(ctx context.Context) (int, bool) {
	owner, ok := ctx.Value(ownerCtxKey{}).(int)
	return owner, ok
}
