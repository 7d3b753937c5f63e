package handler

import (
	"net/http"

	"github.com/caseopen-dev/kazino/internal/casebox"
	"github.com/caseopen-dev/kazino/internal/catalog"
	"github.com/caseopen-dev/kazino/internal/logger"
	"github.com/caseopen-dev/kazino/internal/metrics"
)

// OpenCaseRequest represents the expected body of the open case request
type OpenCaseRequest struct {
	CaseID string `json:"case_id" validate:"required"`
}

// HandleListCases returns the storefront: every case grouped by category
// @Summary List cases
// @Tags catalog
// @Produce json
// @Router /cases [get]
func HandleListCases(cat *catalog.Catalog) http.HandlerFunc {
	type casesResponse struct {
		Categories []string             `json:"categories"`
		Rarities   []catalog.RarityInfo `json:"rarities"`
		Cases      []interface{}        `json:"cases"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := casesResponse{
			Categories: cat.Categories(),
			Rarities:   cat.Rarities(),
		}
		for _, c := range cat.Cases() {
			resp.Cases = append(resp.Cases, map[string]interface{}{
				"id":       c.ID,
				"name":     c.Name,
				"category": c.Category,
				"price":    c.Price,
				"items":    cat.ItemsByCase(c.ID),
			})
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleOpenCase opens a case for the authenticated user
// @Summary Open a case
// @Tags casebox
// @Accept json
// @Produce json
// @Param request body OpenCaseRequest true "Open case request"
// @Success 200 {object} casebox.Result
// @Failure 400 {object} ErrorResponse
// @Router /cases/open [post]
func HandleOpenCase(caseboxService casebox.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenCaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Open case"); err != nil {
			return
		}

		u := UserFromContext(r.Context())
		res, err := caseboxService.OpenCase(r.Context(), u.ID, req.CaseID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to open case", "caseID", req.CaseID, "error", err)
			status, message := mapServiceErrorToUserMessage(err)
			respondError(w, status, message)
			return
		}

		metrics.CasesOpened.WithLabelValues(req.CaseID, string(res.Drop.Rarity)).Inc()
		respondJSON(w, http.StatusOK, res)
	}
}
