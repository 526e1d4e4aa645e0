package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLogger appends auth events (logins, resets, signups) to the audit_log
// table. Write failures are the caller's to ignore; auditing never blocks an
// auth operation.
type AuditLogger struct {
	pool *pgxpool.Pool
}

func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

func (a *AuditLogger) Insert(ctx context.Context, userID, email, action, ip, userAgent string, metadata map[string]any) error {
	if a == nil || a.pool == nil {
		return nil
	}
	md, _ := json.Marshal(metadata)
	_, err := a.pool.Exec(ctx, `
		INSERT INTO audit_log (user_id, email, action, ip, user_agent, metadata)
		VALUES (NULLIF($1, '')::uuid, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), $6)
	`, userID, email, action, ip, userAgent, md)
	return err
}
