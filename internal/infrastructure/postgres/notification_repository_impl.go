package postgres

import (
	"context"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
)

const notificationColumns = `id::text, COALESCE(from_user_id::text, ''), to_user_id::text, content, type, is_seen,
	created_at, updated_at`

type NotificationRepository struct {
	q querier
}

func scanNotification(row interface{ Scan(dest ...any) error }) (*entity.Notification, error) {
	n := &entity.Notification{}
	var typ string
	if err := row.Scan(&n.ID, &n.FromUserID, &n.ToUserID, &n.Content, &typ, &n.IsSeen,
		&n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	n.Type = entity.NotificationType(typ)
	return n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	var from any
	if n.FromUserID != "" {
		from = n.FromUserID
	}
	row := r.q.QueryRow(ctx, `
		INSERT INTO notifications (from_user_id, to_user_id, content, type, is_seen)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at, updated_at
	`, from, n.ToUserID, n.Content, string(n.Type), n.IsSeen)

	return mapError(row.Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt))
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	return scanNotification(r.q.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
}

func (r *NotificationRepository) MarkSeen(ctx context.Context, id string) error {
	res, err := r.q.Exec(ctx, `UPDATE notifications SET is_seen = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) ListFeed(ctx context.Context, userID string, offset, limit int) ([]entity.Notification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE to_user_id = $1
		ORDER BY is_seen ASC, created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, mapError(rows.Err())
}

func (r *NotificationRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE to_user_id = $1`, userID).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
