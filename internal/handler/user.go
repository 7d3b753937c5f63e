package handler

import (
	"net/http"

	"github.com/caseopen-dev/kazino/internal/domain"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/user"
)

// LoginRequest represents the expected body of the login request
type LoginRequest struct {
	Nickname string `json:"nickname" validate:"required,min=1,max=32"`
}

// LoginResponse carries the fresh bearer token and the user snapshot.
type LoginResponse struct {
	Token string           `json:"token"`
	User  *domain.Snapshot `json:"user"`
}

// HandleLogin registers or re-authenticates a player by nickname
// @Summary Log in
// @Description Registers the nickname on first use and rotates the bearer token
// @Tags user
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/login [post]
func HandleLogin(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Login"); err != nil {
			return
		}

		token, snap, err := userService.Login(r.Context(), req.Nickname)
		if err != nil {
			logger.FromContext(r.Context()).Error("Login failed", "error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, LoginResponse{Token: token, User: snap})
	}
}

// HandleMe returns the authenticated user's snapshot
// @Summary Current user
// @Tags user
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Failure 401 {object} ErrorResponse
// @Router /me [get]
func HandleMe(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())

		snap, err := userService.Me(r.Context(), u.ID)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, snap)
	}
}

// HandleLeaderboard returns the top players by total worth
// @Summary Leaderboard
// @Tags user
// @Produce json
// @Success 200 {array} domain.LeaderboardRow
// @Router /leaderboard [get]
func HandleLeaderboard(userService user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := userService.TopPlayers(r.Context())
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to get leaderboard", "error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, rows)
	}
}
