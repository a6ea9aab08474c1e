package sqlite

import (
	"context"
	"fmt"

	"github.com/oakheart/signon/internal/signon/domain"
)

type sessionsRepo struct {
	q     querier
	table string
}

const sessionColumns = `id, user_id, token, created_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (?, ?, ?, ?)`,
		r.table, sessionColumns,
	)

	_, err := r.q.ExecContext(ctx, query, s.ID, s.UserID, s.Token, s.CreatedAt)
	return mapConflict(err)
}

func (r *sessionsRepo) GetSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE token = ?`, sessionColumns, r.table)

	var s domain.Session
	err := r.q.QueryRowContext(ctx, query, token).Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) CountSessionsForUser(ctx context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = ?`, r.table)

	var count int64
	if err := r.q.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
