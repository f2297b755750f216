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

// ListComments returns a project's comments, newest first.
func ListComments(ctx context.Context, database *sql.DB, projectID string) ([]models.Comment, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, project_id, author_name, author_avatar, content, created_at
FROM comments
WHERE project_id = ?
ORDER BY created_at DESC, rowid DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.AuthorName, &c.AuthorAvatar, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateComment inserts a comment and bumps the project's denormalized
// comments_count in the same transaction.
func CreateComment(ctx context.Context, database *sql.DB, projectID, content, author string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("content is required")
	}
	if strings.TrimSpace(author) == "" {
		return nil, errors.New("author is required")
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM projects WHERE id = ?`, projectID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, sql.ErrNoRows
	}

	c := models.Comment{
		ID:           uuid.NewString(),
		ProjectID:    projectID,
		AuthorName:   author,
		AuthorAvatar: commentAvatarURL(author),
		Content:      content,
		CreatedAt:    nowRFC3339(),
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO comments (id, project_id, author_name, author_avatar, content, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ProjectID, c.AuthorName, c.AuthorAvatar, c.Content, c.CreatedAt); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET comments_count = comments_count + 1 WHERE id = ?`, projectID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment and decrements the project counter,
// flooring at zero.
func DeleteComment(ctx context.Context, database *sql.DB, projectID, commentID string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND project_id = ?`, commentID, projectID)
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
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET comments_count = MAX(comments_count - 1, 0) WHERE id = ?`, projectID); err != nil {
		return err
	}
	return tx.Commit()
}

func commentAvatarURL(author string) string {
	return "https://picsum.photos/seed/" + url.PathEscape(author) + "/100/100"
}
