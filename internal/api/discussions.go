package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"showcase/internal/db"
	"showcase/internal/models"
)

type createDiscussionRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	AuthorName string `json:"authorName"`
}

type createReplyRequest struct {
	Content    string  `json:"content"`
	AuthorName string  `json:"authorName"`
	ReplyToID  *string `json:"replyToId"`
}

func discussionsCollectionHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			params := db.ListDiscussionsParams{
				Category: q.Get("category"),
				Sort:     q.Get("sort"),
			}
			if v := q.Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 1 {
					writeError(w, http.StatusBadRequest, "invalid limit")
					return
				}
				params.Limit = n
			}
			if v := q.Get("offset"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					writeError(w, http.StatusBadRequest, "invalid offset")
					return
				}
				params.Offset = n
			}
			discussions, err := db.ListDiscussions(r.Context(), database, params)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to list discussions")
				return
			}
			writeJSON(w, http.StatusOK, discussions)
		case http.MethodPost:
			var req createDiscussionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			discussion, err := db.CreateDiscussion(r.Context(), database, req.Title, req.Content, req.Category, req.AuthorName)
			if err != nil {
				if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "category") {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to create discussion")
				return
			}
			writeJSON(w, http.StatusCreated, discussion)
		default:
			methodNotAllowed(w)
		}
	})
}

func discussionItemHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := pathTail(r.URL.Path, "/api/discussions/")
		switch r.Method {
		case http.MethodGet:
			// Reading a discussion counts as a view.
			discussion, err := db.GetDiscussion(r.Context(), database, id, true)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "discussion not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to read discussion")
				return
			}
			writeJSON(w, http.StatusOK, discussion)
		case http.MethodDelete:
			if err := db.DeleteDiscussion(r.Context(), database, id); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "discussion not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to delete discussion")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			methodNotAllowed(w)
		}
	})
}

func discussionLikeHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		parts := strings.Split(pathTail(r.URL.Path, "/api/discussions/"), "/")
		count, err := db.LikeDiscussion(r.Context(), database, parts[0])
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "discussion not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to like discussion")
			return
		}
		writeJSON(w, http.StatusOK, models.LikeCount{LikesCount: count})
	})
}

func repliesHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(pathTail(r.URL.Path, "/api/discussions/"), "/")
		discussionID := parts[0]

		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			var limit, offset int
			if v := q.Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 1 {
					writeError(w, http.StatusBadRequest, "invalid limit")
					return
				}
				limit = n
			}
			if v := q.Get("offset"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					writeError(w, http.StatusBadRequest, "invalid offset")
					return
				}
				offset = n
			}
			if _, err := db.GetDiscussion(r.Context(), database, discussionID, false); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "discussion not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to read discussion")
				return
			}
			replies, err := db.ListReplies(r.Context(), database, discussionID, limit, offset)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to list replies")
				return
			}
			writeJSON(w, http.StatusOK, replies)
		case http.MethodPost:
			var req createReplyRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json payload")
				return
			}
			reply, err := db.CreateReply(r.Context(), database, discussionID, req.Content, req.AuthorName, req.ReplyToID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusNotFound, "discussion not found")
					return
				}
				if errors.Is(err, db.ErrDiscussionClosed) {
					writeError(w, http.StatusBadRequest, "discussion is closed")
					return
				}
				if strings.Contains(err.Error(), "required") {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, "failed to create reply")
				return
			}
			writeJSON(w, http.StatusCreated, reply)
		default:
			methodNotAllowed(w)
		}
	})
}

func replyLikeHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		parts := strings.Split(pathTail(r.URL.Path, "/api/discussions/"), "/")
		count, err := db.LikeReply(r.Context(), database, parts[0], parts[2])
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "reply not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to like reply")
			return
		}
		writeJSON(w, http.StatusOK, models.LikeCount{LikesCount: count})
	})
}

func discussionStatsHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		stats, err := db.GetDiscussionStats(r.Context(), database)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})
}
