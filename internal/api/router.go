package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"showcase/internal/ai"
)

func NewRouter(database *sql.DB, insights *ai.Client, version string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", healthHandler(database, version))
	mux.Handle("/api/projects", projectsCollectionHandler(database))
	mux.Handle("/api/projects/", projectsScopedHandler(database))
	mux.Handle("/api/discussions", discussionsCollectionHandler(database))
	mux.Handle("/api/discussions/", discussionsScopedHandler(database))
	mux.Handle("/api/ai/insights", insightsHandler(insights))

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-Identifier"},
		MaxAge:         300,
	})
	return corsMiddleware(requestLogger(logger, mux))
}

func healthHandler(database *sql.DB, version string) http.HandlerFunc {
	type healthResponse struct {
		Status    string `json:"status"`
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}

		if err := database.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Version:   version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// projectsScopedHandler dispatches /api/projects/{id}[...] paths.
func projectsScopedHandler(database *sql.DB) http.Handler {
	item := projectItemHandler(database)
	like := projectLikeHandler(database)
	comments := commentsHandler(database)
	commentItem := commentItemHandler(database)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tail := pathTail(r.URL.Path, "/api/projects/")
		parts := strings.Split(tail, "/")
		switch {
		case len(parts) == 1 && parts[0] != "":
			item.ServeHTTP(w, r)
		case len(parts) == 2 && parts[1] == "like":
			like.ServeHTTP(w, r)
		case len(parts) == 2 && parts[1] == "comments":
			comments.ServeHTTP(w, r)
		case len(parts) == 3 && parts[1] == "comments":
			commentItem.ServeHTTP(w, r)
		default:
			writeError(w, http.StatusNotFound, "not found")
		}
	})
}

// discussionsScopedHandler dispatches /api/discussions/{id}[...] paths.
// The stats path shares the prefix and must win over the id routes.
func discussionsScopedHandler(database *sql.DB) http.Handler {
	stats := discussionStatsHandler(database)
	item := discussionItemHandler(database)
	like := discussionLikeHandler(database)
	replies := repliesHandler(database)
	replyLike := replyLikeHandler(database)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tail := pathTail(r.URL.Path, "/api/discussions/")
		if tail == "stats/overview" {
			stats.ServeHTTP(w, r)
			return
		}
		parts := strings.Split(tail, "/")
		switch {
		case len(parts) == 1 && parts[0] != "":
			item.ServeHTTP(w, r)
		case len(parts) == 2 && parts[1] == "like":
			like.ServeHTTP(w, r)
		case len(parts) == 2 && parts[1] == "replies":
			replies.ServeHTTP(w, r)
		case len(parts) == 4 && parts[1] == "replies" && parts[3] == "like":
			replyLike.ServeHTTP(w, r)
		default:
			writeError(w, http.StatusNotFound, "not found")
		}
	})
}

func pathTail(path, prefix string) string {
	tail := strings.TrimPrefix(path, prefix)
	tail = strings.Trim(tail, "/")
	return tail
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
