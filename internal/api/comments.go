package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"showcase/internal/db"
)

type createCommentRequest struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

func commentsHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(pathTail(r.URL.Path, "/api/projects/"), "/")
		projectID := parts[0]

		switch r.Method {
		case http.MethodGet:
			if _, err := db.GetProject(r.Context(), database, projectID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "project not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to read project")
				return
			}
			comments, err := db.ListComments(r.Context(), database, projectID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to list comments")
				return
			}
			writeJSON(w, http.StatusOK, comments)
		case http.MethodPost:
			var req createCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			comment, err := db.CreateComment(r.Context(), database, projectID, req.Content, req.Author)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "project not found")
					return
				}
				if strings.Contains(err.Error(), "required") {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to create comment")
				return
			}
			writeJSON(w, http.StatusCreated, comment)
		default:
			methodNotAllowed(w)
		}
	})
}

func commentItemHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		parts := strings.Split(pathTail(r.URL.Path, "/api/projects/"), "/")
		projectID, commentID := parts[0], parts[2]

		if err := db.DeleteComment(r.Context(), database, projectID, commentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "comment not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete comment")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
