package readstore

import (
	"context"

	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/usecase/queries"
)

const listTechniciansSQL = `
SELECT u.id, u.name, u.email, u.phone,
	count(j.id) FILTER (WHERE j.status IN ('QUEUED', 'IN_PROGRESS', 'BLOCKED'))::int AS open_jobs
FROM users u
LEFT JOIN jobs j ON j.technician_id = u.id
WHERE u.role = 'TECHNICIAN' AND u.is_active
GROUP BY u.id, u.name, u.email, u.phone
ORDER BY u.name, u.id`

type TechnicianReadStore struct {
	db db.DBTX
}

func NewTechnicianReadStore(dbtx db.DBTX) *TechnicianReadStore {
	return &TechnicianReadStore{db: dbtx}
}

func (r *TechnicianReadStore) List(ctx context.Context) ([]*queries.TechnicianView, error) {
	rows, err := r.db.Query(ctx, listTechniciansSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list technicians", err)
	}
	defer rows.Close()

	var out []*queries.TechnicianView
	for rows.Next() {
		var v queries.TechnicianView
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.OpenJobs); err != nil {
			return nil, infra.WrapRepoErr("failed to scan technician", err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate technicians", err)
	}
	return out, nil
}
