package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"showcase/internal/models"
)

type CreateProjectParams struct {
	Title             string
	Category          string
	ShortDescription  string
	FullDescription   string
	BackgroundStory   string
	UsageInstructions string
	ThumbnailURL      string
	BannerURL         string
	ExternalLink      string
	Tags              []string
}

type UpdateProjectParams struct {
	Title             *string
	Category          *string
	ShortDescription  *string
	FullDescription   *string
	BackgroundStory   *string
	UsageInstructions *string
	ThumbnailURL      *string
	BannerURL         *string
	ExternalLink      *string
	Tags              []string
}

const projectColumns = `id, title, category, short_description, full_description,
background_story, usage_instructions, thumbnail_url, banner_url, external_link,
tags, likes_count, comments_count, created_at, updated_at`

func ListProjects(ctx context.Context, database *sql.DB, category string) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}
	if category != "" && category != "All" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func GetProject(ctx context.Context, database *sql.DB, id string) (*models.Project, error) {
	row := database.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func CreateProject(ctx context.Context, database *sql.DB, params CreateProjectParams) (*models.Project, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, errors.New("title is required")
	}
	if !models.ValidProjectCategory(params.Category) {
		return nil, errors.New("unknown category")
	}
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	p := models.Project{
		ID:                uuid.NewString(),
		Title:             params.Title,
		Category:          params.Category,
		ShortDescription:  params.ShortDescription,
		FullDescription:   params.FullDescription,
		BackgroundStory:   params.BackgroundStory,
		UsageInstructions: params.UsageInstructions,
		ThumbnailURL:      params.ThumbnailURL,
		BannerURL:         params.BannerURL,
		ExternalLink:      params.ExternalLink,
		Tags:              tags,
		CreatedAt:         nowRFC3339(),
		UpdatedAt:         nowRFC3339(),
	}
	_, err = database.ExecContext(ctx, `
INSERT INTO projects (id, title, category, short_description, full_description,
background_story, usage_instructions, thumbnail_url, banner_url, external_link,
tags, likes_count, comments_count, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		p.ID, p.Title, p.Category, p.ShortDescription, p.FullDescription,
		p.BackgroundStory, p.UsageInstructions, p.ThumbnailURL, p.BannerURL,
		p.ExternalLink, string(tagsJSON), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdateProject(ctx context.Context, database *sql.DB, id string, params UpdateProjectParams) (*models.Project, error) {
	sets := []string{"updated_at = ?"}
	args := []any{nowRFC3339()}
	set := func(column string, v *string) {
		if v != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *v)
		}
	}
	set("title", params.Title)
	set("category", params.Category)
	set("short_description", params.ShortDescription)
	set("full_description", params.FullDescription)
	set("background_story", params.BackgroundStory)
	set("usage_instructions", params.UsageInstructions)
	set("thumbnail_url", params.ThumbnailURL)
	set("banner_url", params.BannerURL)
	set("external_link", params.ExternalLink)
	if params.Tags != nil {
		tagsJSON, err := json.Marshal(params.Tags)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(tagsJSON))
	}
	args = append(args, id)

	res, err := database.ExecContext(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
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
	return GetProject(ctx, database, id)
}

func DeleteProject(ctx context.Context, database *sql.DB, id string) error {
	res, err := database.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
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

// ToggleProjectLike records or removes a like for (project, user identifier)
// and returns the resulting counter. Repeating the same direction is a no-op,
// so the endpoint stays idempotent per user.
func ToggleProjectLike(ctx context.Context, database *sql.DB, projectID, userIdentifier string, isLiking bool) (int, bool, error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback()

	var likesCount int
	if err := tx.QueryRowContext(ctx,
		`SELECT likes_count FROM projects WHERE id = ?`, projectID,
	).Scan(&likesCount); err != nil {
		return 0, false, err
	}

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM project_likes WHERE project_id = ? AND user_identifier = ?`,
		projectID, userIdentifier,
	).Scan(&existing); err != nil {
		return 0, false, err
	}

	if isLiking && existing == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_likes (project_id, user_identifier, created_at) VALUES (?, ?, ?)`,
			projectID, userIdentifier, nowRFC3339()); err != nil {
			return 0, false, err
		}
		likesCount++
	}
	if !isLiking && existing > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM project_likes WHERE project_id = ? AND user_identifier = ?`,
			projectID, userIdentifier); err != nil {
			return 0, false, err
		}
		if likesCount > 0 {
			likesCount--
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET likes_count = ? WHERE id = ?`, likesCount, projectID); err != nil {
		return 0, false, err
	}
	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	return likesCount, isLiking, nil
}

type projectScanner interface {
	Scan(dest ...any) error
}

func scanProject(row projectScanner) (models.Project, error) {
	var p models.Project
	var tagsJSON string
	if err := row.Scan(
		&p.ID, &p.Title, &p.Category, &p.ShortDescription, &p.FullDescription,
		&p.BackgroundStory, &p.UsageInstructions, &p.ThumbnailURL, &p.BannerURL,
		&p.ExternalLink, &tagsJSON, &p.LikesCount, &p.CommentsCount,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return models.Project{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
		p.Tags = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}
