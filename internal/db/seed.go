package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type projectSeed struct {
	id                string
	title             string
	category          string
	shortDescription  string
	fullDescription   string
	backgroundStory   string
	usageInstructions string
	thumbnailURL      string
	bannerURL         string
	externalLink      string
	tags              []string
}

var defaultProjectSeeds = []projectSeed{
	{
		id:                "divination",
		title:             "I Ching Divination",
		category:          "AI Tool",
		shortDescription:  "An AI reading of the classic hexagrams for everyday questions",
		fullDescription:   "Casts a hexagram, walks through the changing lines, and asks a language model to interpret the result against the question you typed in.",
		backgroundStory:   "Built to see whether a model could give readings that feel considered rather than random.",
		usageInstructions: "Type a question, press cast, and read the interpretation. Nothing is stored.",
		thumbnailURL:      "https://picsum.photos/seed/divination/600/400",
		bannerURL:         "https://picsum.photos/seed/divination/1200/400",
		externalLink:      "https://example.com/divination",
		tags:              []string{"LLM", "Prompt Engineering"},
	},
	{
		id:                "reader",
		title:             "Novel Reader",
		category:          "Web",
		shortDescription:  "A distraction-free web reader with resumable progress",
		fullDescription:   "Imports plain-text novels, splits them into chapters, and remembers where you stopped on every device.",
		backgroundStory:   "Started as a weekend experiment in building a full app through prompts alone.",
		usageInstructions: "Upload a .txt file, pick a chapter, and scroll. Progress saves automatically.",
		thumbnailURL:      "https://picsum.photos/seed/reader/600/400",
		bannerURL:         "https://picsum.photos/seed/reader/1200/400",
		externalLink:      "https://example.com/reader",
		tags:              []string{"React", "Reading"},
	},
	{
		id:                "travel-guide",
		title:             "Xishuangbanna Travel Assistant",
		category:          "AI Tool",
		shortDescription:  "Itinerary planning and local tips for the Xishuangbanna region",
		fullDescription:   "Answers questions about routes, seasons, and food, and drafts day-by-day itineraries from a short description of the trip.",
		backgroundStory:   "Made before a family trip; kept because friends kept asking to use it.",
		usageInstructions: "Describe your dates and interests, then refine the generated plan chat-style.",
		thumbnailURL:      "https://picsum.photos/seed/travel/600/400",
		bannerURL:         "https://picsum.photos/seed/travel/1200/400",
		externalLink:      "https://example.com/travel",
		tags:              []string{"Travel", "Chatbot"},
	},
}

// SeedDefaultProjects inserts the showcase catalog if the rows are not
// already present. Safe to run on every startup.
func SeedDefaultProjects(ctx context.Context, database *sql.DB) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := nowRFC3339()
	for _, seed := range defaultProjectSeeds {
		tagsJSON, err := json.Marshal(seed.tags)
		if err != nil {
			return fmt.Errorf("seed project %q: %w", seed.id, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO projects (id, title, category, short_description, full_description,
background_story, usage_instructions, thumbnail_url, banner_url, external_link,
tags, likes_count, comments_count, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
			seed.id, seed.title, seed.category, seed.shortDescription, seed.fullDescription,
			seed.backgroundStory, seed.usageInstructions, seed.thumbnailURL, seed.bannerURL,
			seed.externalLink, string(tagsJSON), now, now,
		); err != nil {
			return fmt.Errorf("seed project %q: %w", seed.id, err)
		}
	}

	return tx.Commit()
}
