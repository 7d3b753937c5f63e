package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caseopen-dev/kazino/internal/giveaway"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/metrics"
)

// HandleListGiveaways returns the open giveaway slate
// @Summary List giveaways
// @Tags giveaway
// @Produce json
// @Success 200 {array} giveaway.Info
// @Router /giveaways [get]
func HandleListGiveaways(giveawayService giveaway.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())

		infos, err := giveawayService.List(r.Context(), u.ID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list giveaways", "error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, infos)
	}
}

// HandleJoinGiveaway buys the caller a ticket
// @Summary Join a giveaway
// @Tags giveaway
// @Produce json
// @Param id path string true "Giveaway ID"
// @Success 200 {object} giveaway.Info
// @Failure 400 {object} ErrorResponse
// @Router /giveaways/{id}/join [post]
func HandleJoinGiveaway(giveawayService giveaway.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		giveawayID := chi.URLParam(r, "id")
		u := UserFromContext(r.Context())

		info, err := giveawayService.Join(r.Context(), u.ID, giveawayID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to join giveaway", "giveawayID", giveawayID, "error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		metrics.GiveawayJoins.Inc()
		respondJSON(w, http.StatusOK, info)
	}
}

// HandleGiveawayNotifications reports the caller's participations
// @Summary Giveaway notifications
// @Tags giveaway
// @Produce json
// @Success 200 {array} domain.Notification
// @Router /giveaways/notifications [get]
func HandleGiveawayNotifications(giveawayService giveaway.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())

		notes, err := giveawayService.Notifications(r.Context(), u.ID)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, notes)
	}
}
