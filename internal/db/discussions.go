package db

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"showcase/internal/models"
)

// ErrDiscussionClosed is returned when a reply targets a closed discussion.
var ErrDiscussionClosed = errors.New("discussion is closed")

type ListDiscussionsParams struct {
	Category string
	Sort     string // latest | popular | active
	Limit    int
	Offset   int
}

const discussionColumns = `id, title, content, category, author_name, author_avatar,
views_count, likes_count, replies_count, is_pinned, is_closed,
created_at, updated_at, last_reply_at`

func ListDiscussions(ctx context.Context, database *sql.DB, params ListDiscussionsParams) ([]models.Discussion, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + discussionColumns + ` FROM discussions`
	args := []any{}
	if params.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, params.Category)
	}
	switch params.Sort {
	case "popular":
		query += ` ORDER BY is_pinned DESC, likes_count DESC, rowid DESC`
	case "active":
		query += ` ORDER BY is_pinned DESC, last_reply_at DESC, rowid DESC`
	default: // latest
		query += ` ORDER BY is_pinned DESC, created_at DESC, rowid DESC`
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	discussions := []models.Discussion{}
	for rows.Next() {
		d, err := scanDiscussion(rows)
		if err != nil {
			return nil, err
		}
		discussions = append(discussions, d)
	}
	return discussions, rows.Err()
}

// GetDiscussion reads one discussion, bumping its view counter first when
// incrementViews is set.
func GetDiscussion(ctx context.Context, database *sql.DB, id string, incrementViews bool) (*models.Discussion, error) {
	if incrementViews {
		res, err := database.ExecContext(ctx,
			`UPDATE discussions SET views_count = views_count + 1 WHERE id = ?`, id)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, sql.ErrNoRows
		}
	}
	row := database.QueryRowContext(ctx,
		`SELECT `+discussionColumns+` FROM discussions WHERE id = ?`, id)
	d, err := scanDiscussion(row)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func CreateDiscussion(ctx context.Context, database *sql.DB, title, content, category, authorName string) (*models.Discussion, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, errors.New("title and content are required")
	}
	if strings.TrimSpace(authorName) == "" {
		return nil, errors.New("authorName is required")
	}
	if !models.ValidDiscussionCategory(category) {
		return nil, errors.New("unknown category")
	}

	now := nowRFC3339()
	d := models.Discussion{
		ID:           uuid.NewString(),
		Title:        title,
		Content:      content,
		Category:     category,
		AuthorName:   authorName,
		AuthorAvatar: discussionAvatarURL(authorName),
		CreatedAt:    now,
		UpdatedAt:    now,
		LastReplyAt:  now,
	}
	_, err := database.ExecContext(ctx, `
INSERT INTO discussions (id, title, content, category, author_name, author_avatar,
views_count, likes_count, replies_count, is_pinned, is_closed,
created_at, updated_at, last_reply_at)
VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, 0, 0, ?, ?, ?)`,
		d.ID, d.Title, d.Content, d.Category, d.AuthorName, d.AuthorAvatar,
		d.CreatedAt, d.UpdatedAt, d.LastReplyAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func DeleteDiscussion(ctx context.Context, database *sql.DB, id string) error {
	res, err := database.ExecContext(ctx, `DELETE FROM discussions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// LikeDiscussion is a one-way increment; the returned count is authoritative.
func LikeDiscussion(ctx context.Context, database *sql.DB, id string) (int, error) {
	res, err := database.ExecContext(ctx,
		`UPDATE discussions SET likes_count = likes_count + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}
	var count int
	if err := database.QueryRowContext(ctx,
		`SELECT likes_count FROM discussions WHERE id = ?`, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListReplies returns a discussion's replies in chronological order.
func ListReplies(ctx context.Context, database *sql.DB, discussionID string, limit, offset int) ([]models.Reply, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := database.QueryContext(ctx, `
SELECT id, discussion_id, content, author_name, author_avatar, likes_count, reply_to_id, created_at
FROM replies
WHERE discussion_id = ?
ORDER BY created_at ASC, rowid ASC
LIMIT ? OFFSET ?`, discussionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []models.Reply{}
	for rows.Next() {
		var r models.Reply
		if err := rows.Scan(&r.ID, &r.DiscussionID, &r.Content, &r.AuthorName,
			&r.AuthorAvatar, &r.LikesCount, &r.ReplyToID, &r.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

// CreateReply appends a reply and updates the parent discussion's
// replies_count and last_reply_at in one transaction. Closed discussions
// reject new replies.
func CreateReply(ctx context.Context, database *sql.DB, discussionID, content, authorName string, replyToID *string) (*models.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("content is required")
	}
	if strings.TrimSpace(authorName) == "" {
		return nil, errors.New("authorName is required")
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var closed int
	if err := tx.QueryRowContext(ctx,
		`SELECT is_closed FROM discussions WHERE id = ?`, discussionID).Scan(&closed); err != nil {
		return nil, err
	}
	if closed != 0 {
		return nil, ErrDiscussionClosed
	}

	now := nowRFC3339()
	r := models.Reply{
		ID:           uuid.NewString(),
		DiscussionID: discussionID,
		Content:      content,
		AuthorName:   authorName,
		AuthorAvatar: discussionAvatarURL(authorName),
		ReplyToID:    replyToID,
		CreatedAt:    now,
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO replies (id, discussion_id, content, author_name, author_avatar, likes_count, reply_to_id, created_at)
VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		r.ID, r.DiscussionID, r.Content, r.AuthorName, r.AuthorAvatar, r.ReplyToID, r.CreatedAt); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE discussions SET replies_count = replies_count + 1, last_reply_at = ?, updated_at = ?
WHERE id = ?`, now, now, discussionID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LikeReply is a one-way increment scoped to (discussion, reply).
func LikeReply(ctx context.Context, database *sql.DB, discussionID, replyID string) (int, error) {
	res, err := database.ExecContext(ctx,
		`UPDATE replies SET likes_count = likes_count + 1 WHERE id = ? AND discussion_id = ?`,
		replyID, discussionID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}
	var count int
	if err := database.QueryRowContext(ctx,
		`SELECT likes_count FROM replies WHERE id = ?`, replyID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanDiscussion(row projectScanner) (models.Discussion, error) {
	var d models.Discussion
	var pinned, closed int
	if err := row.Scan(
		&d.ID, &d.Title, &d.Content, &d.Category, &d.AuthorName, &d.AuthorAvatar,
		&d.ViewsCount, &d.LikesCount, &d.RepliesCount, &pinned, &closed,
		&d.CreatedAt, &d.UpdatedAt, &d.LastReplyAt,
	); err != nil {
		return models.Discussion{}, err
	}
	d.IsPinned = pinned != 0
	d.IsClosed = closed != 0
	return d, nil
}

func discussionAvatarURL(authorName string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(authorName)
}
