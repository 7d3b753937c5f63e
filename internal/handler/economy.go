package handler

import (
	"net/http"

	"github.com/caseopen-dev/kazino/internal/economy"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/metrics"
)

// SellItemRequest represents the expected body of the sell request
type SellItemRequest struct {
	EntryID string `json:"entry_id" validate:"required"`
}

// HandleSellItem sells an owned inventory entry back for currency
// @Summary Sell an item
// @Tags economy
// @Accept json
// @Produce json
// @Param request body SellItemRequest true "Sell request"
// @Success 200 {object} economy.SellResult
// @Failure 400 {object} ErrorResponse
// @Router /items/sell [post]
func HandleSellItem(economyService economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SellItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sell item"); err != nil {
			return
		}

		u := UserFromContext(r.Context())
		res, err := economyService.SellItem(r.Context(), u.ID, req.EntryID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to sell item", "entryID", req.EntryID, "error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		metrics.ItemsSold.Inc()
		respondJSON(w, http.StatusOK, res)
	}
}

// HandleClaimBonus claims the periodic balance bonus
// @Summary Claim bonus
// @Tags economy
// @Produce json
// @Success 200 {object} economy.ClaimResult
// @Failure 429 {object} ErrorResponse
// @Router /bonus/claim [post]
func HandleClaimBonus(economyService economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		res, err := economyService.ClaimBonus(r.Context(), u.ID)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		metrics.BonusesClaimed.Inc()
		respondJSON(w, http.StatusOK, res)
	}
}
