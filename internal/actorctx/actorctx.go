// Package actorctx carries the authenticated principal on a request
// context, so code below the HTTP layer can know who is acting without
// depending on gin.
package actorctx

import "context"

type ctxKey struct{}

var emailKey ctxKey

func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

func UserEmailFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(emailKey).(string)
	return v, ok && v != ""
}
