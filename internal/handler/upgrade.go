package handler

import (
	"net/http"

	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/metrics"
	"github.com/caseopen-dev/kazino/internal/upgrade"
)

// UpgradeTargetsRequest represents the expected body of the targets request
type UpgradeTargetsRequest struct {
	EntryIDs []string `json:"entry_ids" validate:"required,min=1,max=10,dive,required"`
	Chance   int      `json:"chance" validate:"required,oneof=15 25 30 50 75"`
}

// UpgradeResolveRequest represents the expected body of the resolve request
type UpgradeResolveRequest struct {
	EntryIDs []string `json:"entry_ids" validate:"required,min=1,max=10,dive,required"`
	TargetID string   `json:"target_id" validate:"required"`
	Chance   int      `json:"chance" validate:"required,oneof=15 25 30 50 75"`
}

// HandleUpgradeTargets lists the reachable targets for a stake
// @Summary List upgrade targets
// @Tags upgrade
// @Accept json
// @Produce json
// @Param request body UpgradeTargetsRequest true "Targets request"
// @Success 200 {object} upgrade.Targets
// @Failure 400 {object} ErrorResponse
// @Router /upgrade/targets [post]
func HandleUpgradeTargets(upgradeService upgrade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpgradeTargetsRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Upgrade targets"); err != nil {
			return
		}

		u := UserFromContext(r.Context())
		targets, err := upgradeService.ComputeTargets(r.Context(), u.ID, req.EntryIDs, req.Chance)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, targets)
	}
}

// HandleUpgradeResolve resolves an upgrade gamble
// @Summary Resolve an upgrade
// @Tags upgrade
// @Accept json
// @Produce json
// @Param request body UpgradeResolveRequest true "Resolve request"
// @Success 200 {object} upgrade.Result
// @Failure 400 {object} ErrorResponse
// @Router /upgrade/resolve [post]
func HandleUpgradeResolve(upgradeService upgrade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpgradeResolveRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Upgrade resolve"); err != nil {
			return
		}

		u := UserFromContext(r.Context())
		res, err := upgradeService.ResolveUpgrade(r.Context(), u.ID, req.EntryIDs, req.TargetID, req.Chance)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to resolve upgrade",
				"targetID", req.TargetID, "chance", req.Chance, "error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		outcome := "lost"
		if res.Won {
			outcome = "won"
		}
		metrics.UpgradesResolved.WithLabelValues(outcome).Inc()
		respondJSON(w, http.StatusOK, res)
	}
}
