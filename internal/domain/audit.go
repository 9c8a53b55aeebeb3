package domain

import "context"

type AuditRepository interface {
	RecordAudit(ctx context.Context, entry *AuditEntry) error
	ListAuditEntries(ctx context.Context, limit, offset int) ([]AuditEntry, error)
}
