package handler

import (
	"net/http"

	"github.com/caseopen-dev/kazino/internal/feed"
)

// HandleFeed returns the live drop ticker, newest first
// @Summary Live drop feed
// @Tags feed
// @Produce json
// @Success 200 {array} domain.FeedEvent
// @Router /feed [get]
func HandleFeed(f *feed.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, f.List())
	}
}
