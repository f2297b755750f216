package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"showcase/internal/ai"
)

type insightRequest struct {
	Title            string `json:"title"`
	BackgroundStory  string `json:"backgroundStory"`
	ShortDescription string `json:"shortDescription"`
}

type insightResponse struct {
	Insight string `json:"insight"`
}

func insightsHandler(insights *ai.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req insightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}
		insight, err := insights.ProjectInsight(r.Context(), req.Title, req.BackgroundStory, req.ShortDescription)
		if err != nil {
			if errors.Is(err, ai.ErrNotConfigured) {
				writeError(w, http.StatusServiceUnavailable, "ai service not configured")
				return
			}
			writeError(w, http.StatusBadGateway, "ai service unavailable")
			return
		}
		writeJSON(w, http.StatusOK, insightResponse{Insight: insight})
	})
}
