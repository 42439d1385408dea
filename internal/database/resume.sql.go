package database

import (
	"context"

	"github.com/google/uuid"
)

const getResumesBySession = `-- name: GetResumesBySession :many
SELECT id, original_filename, mime, object_key FROM resumes
WHERE session_id=$1 AND upload_status='uploaded'
ORDER BY created_at, id
`

type GetResumesBySessionRow struct {
	ID               uuid.UUID
	OriginalFilename string
	Mime             string
	ObjectKey        string
}

func (q *Queries) GetResumesBySession(ctx context.Context, sessionID uuid.UUID) ([]GetResumesBySessionRow, error) {
	rows, err := q.db.QueryContext(ctx, getResumesBySession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetResumesBySessionRow
	for rows.Next() {
		var i GetResumesBySessionRow
		if err := rows.Scan(
			&i.ID,
			&i.OriginalFilename,
			&i.Mime,
			&i.ObjectKey,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
