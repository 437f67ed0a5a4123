package bootstrap

import "context"

// AuditLog is a single operational audit entry. Meta carries
// action-specific fields and may be nil.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
