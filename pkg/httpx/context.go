package httpx

import "context"

type ctxKey string

const (
	CtxKeySessionToken ctxKey = "session_token"
	CtxKeyEmail        ctxKey = "email"
)

// SessionToken returns the bearer token stored by SessionMiddleware.
func SessionToken(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeySessionToken).(string)
	return v
}

// SessionEmail returns the identity resolved by SessionMiddleware.
func SessionEmail(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyEmail).(string)
	return v
}

// WithSession stores a session token and its resolved email on ctx.
func WithSession(ctx context.Context, token, email string) context.Context {
	ctx = context.WithValue(ctx, CtxKeySessionToken, token)
	return context.WithValue(ctx, CtxKeyEmail, email)
}
