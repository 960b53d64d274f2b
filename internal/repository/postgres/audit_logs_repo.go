package postgres

import (
	"context"

	"github.com/baharkarakas/film-catalog/internal/models"
)

type auditLogsRepo struct{ q querier }

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	if l.Details == nil {
		l.Details = map[string]any{}
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO audit_logs(entity_type, entity_id, action, details) VALUES($1,$2,$3,$4)`,
		l.EntityType, l.EntityID, l.Action, l.Details)
	return mapErr(err, "audit log")
}

func (r *auditLogsRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id::text, entity_type, entity_id, action, details, created_at
		 FROM audit_logs WHERE entity_type=$1 AND entity_id=$2 ORDER BY created_at`, entityType, entityID)
	if err != nil {
		return nil, mapErr(err, "audit log")
	}
	defer rows.Close()
	out := []models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.Action, &l.Details, &l.CreatedAt); err != nil {
			return nil, mapErr(err, "audit log")
		}
		out = append(out, l)
	}
	return out, mapErr(rows.Err(), "audit log")
}
