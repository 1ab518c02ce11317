package eventlog

import (
	"context"
)

// Request metadata attached to every audit event
type Source struct {
	IPAddress string
	UserAgent string
}

type sourceKey struct{}

func WithSource(ctx context.Context, src Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

// SourceFromContext returns empty source if none was set
func SourceFromContext(ctx context.Context) Source {
	src, _ := ctx.Value(sourceKey{}).(Source)
	return src
}
