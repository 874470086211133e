package genctx

import "context"

type ctxKey string

const (
	keyRID       ctxKey = "headshot_rid"
	keySessionID ctxKey = "headshot_session_id"
)

// WithRID stores correlation id for generation logs.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns correlation id if present.
func RID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}

// WithSessionID stores the studio session id for generation logs.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keySessionID, id)
}

// SessionID returns session id if present.
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(keySessionID).(string)
	return v
}
