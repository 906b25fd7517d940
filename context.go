package sessionclient

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a caller-supplied request identifier to ctx. The
// client stamps it on the X-Request-ID header and on every audit event for
// that request; when absent a fresh identifier is generated per request.
//
//	Docs: docs/audit.md
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}
