package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vedran77/flicksy/internal/service"
	"github.com/vedran77/flicksy/internal/transport/http/middleware"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter q is required")
		return
	}
	offset, limit := pagination(r, 20)

	results, err := h.searchService.Search(r.Context(), callerID, query, offset, limit)
	if err != nil {
		logrus.Errorf("search: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, results)
}
