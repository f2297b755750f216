package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"showcase/internal/db"
	"showcase/internal/models"
)

type createProjectRequest struct {
	Title             string   `json:"title"`
	Category          string   `json:"category"`
	ShortDescription  string   `json:"shortDescription"`
	FullDescription   string   `json:"fullDescription"`
	BackgroundStory   string   `json:"backgroundStory"`
	UsageInstructions string   `json:"usageInstructions"`
	ThumbnailURL      string   `json:"thumbnailUrl"`
	BannerURL         string   `json:"bannerUrl"`
	ExternalLink      string   `json:"externalLink"`
	Tags              []string `json:"tags"`
}

type updateProjectRequest struct {
	Title             *string  `json:"title"`
	Category          *string  `json:"category"`
	ShortDescription  *string  `json:"shortDescription"`
	FullDescription   *string  `json:"fullDescription"`
	BackgroundStory   *string  `json:"backgroundStory"`
	UsageInstructions *string  `json:"usageInstructions"`
	ThumbnailURL      *string  `json:"thumbnailUrl"`
	BannerURL         *string  `json:"bannerUrl"`
	ExternalLink      *string  `json:"externalLink"`
	Tags              []string `json:"tags"`
}

type likeProjectRequest struct {
	IsLiking bool `json:"isLiking"`
}

func projectsCollectionHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			projects, err := db.ListProjects(r.Context(), database, r.URL.Query().Get("category"))
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to list projects")
				return
			}
			writeJSON(w, http.StatusOK, projects)
		case http.MethodPost:
			var req createProjectRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			project, err := db.CreateProject(r.Context(), database, db.CreateProjectParams{
				Title:             req.Title,
				Category:          req.Category,
				ShortDescription:  req.ShortDescription,
				FullDescription:   req.FullDescription,
				BackgroundStory:   req.BackgroundStory,
				UsageInstructions: req.UsageInstructions,
				ThumbnailURL:      req.ThumbnailURL,
				BannerURL:         req.BannerURL,
				ExternalLink:      req.ExternalLink,
				Tags:              req.Tags,
			})
			if err != nil {
				if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "category") {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to create project")
				return
			}
			writeJSON(w, http.StatusCreated, project)
		default:
			methodNotAllowed(w)
		}
	})
}

func projectItemHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := pathTail(r.URL.Path, "/api/projects/")
		switch r.Method {
		case http.MethodGet:
			project, err := db.GetProject(r.Context(), database, id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "project not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to read project")
				return
			}
			writeJSON(w, http.StatusOK, project)
		case http.MethodPut:
			var req updateProjectRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			project, err := db.UpdateProject(r.Context(), database, id, db.UpdateProjectParams{
				Title:             req.Title,
				Category:          req.Category,
				ShortDescription:  req.ShortDescription,
				FullDescription:   req.FullDescription,
				BackgroundStory:   req.BackgroundStory,
				UsageInstructions: req.UsageInstructions,
				ThumbnailURL:      req.ThumbnailURL,
				BannerURL:         req.BannerURL,
				ExternalLink:      req.ExternalLink,
				Tags:              req.Tags,
			})
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "project not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to update project")
				return
			}
			writeJSON(w, http.StatusOK, project)
		case http.MethodDelete:
			if err := db.DeleteProject(r.Context(), database, id); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "project not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to delete project")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			methodNotAllowed(w)
		}
	})
}

func projectLikeHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		parts := strings.Split(pathTail(r.URL.Path, "/api/projects/"), "/")
		projectID := parts[0]

		userIdentifier := strings.TrimSpace(r.Header.Get("X-User-Identifier"))
		if userIdentifier == "" {
			userIdentifier = "anonymous"
		}
		var req likeProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}

		count, liked, err := db.ToggleProjectLike(r.Context(), database, projectID, userIdentifier, req.IsLiking)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "project not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to toggle like")
			return
		}
		writeJSON(w, http.StatusOK, models.ProjectLikeResult{NewLikesCount: count, IsLiked: liked})
	})
}
