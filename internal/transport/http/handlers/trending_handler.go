package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vedran77/flicksy/internal/service"
)

type TrendingHandler struct {
	trendingService *service.TrendingService
}

func NewTrendingHandler(trendingService *service.TrendingService) *TrendingHandler {
	return &TrendingHandler{trendingService: trendingService}
}

func (h *TrendingHandler) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.trendingService.Posts(r.Context(), queryLimit(r, 10))
	if err != nil {
		logrus.Errorf("trending posts: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *TrendingHandler) Hashtags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.trendingService.Hashtags(r.Context(), queryLimit(r, 10))
	if err != nil {
		logrus.Errorf("trending hashtags: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

func queryLimit(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
