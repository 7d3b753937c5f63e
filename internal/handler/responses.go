package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/caseopen-dev/kazino/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	// Encode to the buffer first so a marshal failure cannot leave a
	// half-written body behind a 200 header.
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequest      = "Invalid request. Please check your inputs."
	ErrMsgInvalidRequestShort = "Invalid request"
	ErrMsgMissingQueryParam   = "Missing required parameter: %s"

	ErrMsgUserNotFoundError  = "User not found"
	ErrMsgNicknameRequired   = "Nickname is required"
	ErrMsgUnauthorizedError  = "Authentication failed. Please log in again."
	ErrMsgNotEnoughMoney     = "Not enough money"
	ErrMsgNotInInventory     = "You don't have that item"
	ErrMsgCaseNotFound       = "Case not found"
	ErrMsgBadDropTable       = "Case cannot be opened right now"
	ErrMsgBadSelection       = "Those items cannot be used together"
	ErrMsgBadChance          = "That upgrade chance is not offered"
	ErrMsgTargetNotEligible  = "Target is out of range for this stake"
	ErrMsgTargetNotFound     = "Target item not found"
	ErrMsgOnCooldownError    = "Bonus is on cooldown. Try again later"
	ErrMsgGiveawayNotFound   = "Giveaway not found"
	ErrMsgGiveawayClosed     = "Giveaway is no longer accepting entries"
	ErrMsgAlreadyJoinedError = "You have already joined this giveaway"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrNicknameRequired):
		return http.StatusBadRequest, ErrMsgNicknameRequired
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrMsgUnauthorizedError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughMoney
	case errors.Is(err, domain.ErrNotOwned):
		return http.StatusBadRequest, ErrMsgNotInInventory
	case errors.Is(err, domain.ErrCaseNotFound):
		return http.StatusBadRequest, ErrMsgCaseNotFound
	case errors.Is(err, domain.ErrInvalidDropTable):
		return http.StatusInternalServerError, ErrMsgBadDropTable
	case errors.Is(err, domain.ErrInvalidSelection):
		return http.StatusBadRequest, ErrMsgBadSelection
	case errors.Is(err, domain.ErrInvalidChance):
		return http.StatusBadRequest, ErrMsgBadChance
	case errors.Is(err, domain.ErrTargetNotEligible):
		return http.StatusBadRequest, ErrMsgTargetNotEligible
	case errors.Is(err, domain.ErrTargetNotFound):
		return http.StatusBadRequest, ErrMsgTargetNotFound
	case errors.Is(err, domain.ErrOnCooldown):
		return http.StatusTooManyRequests, ErrMsgOnCooldownError
	case errors.Is(err, domain.ErrGiveawayNotFound):
		return http.StatusBadRequest, ErrMsgGiveawayNotFound
	case errors.Is(err, domain.ErrGiveawayClosed):
		return http.StatusBadRequest, ErrMsgGiveawayClosed
	case errors.Is(err, domain.ErrAlreadyJoined):
		return http.StatusBadRequest, ErrMsgAlreadyJoinedError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestShort
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
