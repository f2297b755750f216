package db

import (
	"context"
	"database/sql"

	"showcase/internal/models"
)

func GetDiscussionStats(ctx context.Context, database *sql.DB) (models.DiscussionStats, error) {
	stats := models.DiscussionStats{Categories: map[string]int{}}

	if err := database.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM discussions`).Scan(&stats.TotalDiscussions); err != nil {
		return models.DiscussionStats{}, err
	}
	if err := database.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM replies`).Scan(&stats.TotalReplies); err != nil {
		return models.DiscussionStats{}, err
	}
	for _, category := range models.DiscussionCategories {
		var count int
		if err := database.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM discussions WHERE category = ?`, category).Scan(&count); err != nil {
			return models.DiscussionStats{}, err
		}
		stats.Categories[category] = count
	}
	return stats, nil
}
