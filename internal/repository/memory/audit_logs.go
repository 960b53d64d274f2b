package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/baharkarakas/film-catalog/internal/models"
)

type auditLogsRepo struct{ v *view }

func (r *auditLogsRepo) Create(_ context.Context, l models.AuditLog) error {
	st, release := r.v.acquire()
	defer release()

	l.ID = uuid.NewString()
	l.CreatedAt = r.v.now()
	st.audit = append(st.audit, l)
	return nil
}

func (r *auditLogsRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]models.AuditLog, error) {
	st, release := r.v.acquire()
	defer release()

	out := []models.AuditLog{}
	for _, l := range st.audit {
		if l.EntityType == entityType && l.EntityID != nil && *l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}
