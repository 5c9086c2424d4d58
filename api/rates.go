package api

import (
	"encoding/json"
	"net/http"

	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
)

// =============================================================================
// RATES HANDLERS
// =============================================================================

// ListRates returns every statutory version, oldest first.
// GET /api/rates
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	versions := h.table.Versions()
	h.mu.RUnlock()

	resp := RatesListResponse{Versions: make([]statute.RatesJSON, 0, len(versions))}
	for _, v := range versions {
		resp.Versions = append(resp.Versions, v.ToJSON())
	}
	writeJSON(w, http.StatusOK, resp)
}

// CurrentRates returns the version in effect today, or on ?date=YYYY-MM-DD.
// GET /api/rates/current
func (h *Handler) CurrentRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.ratesOn(r.URL.Query().Get("date"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rates.ToJSON())
}

// PutRates stores a version. A version with the same effective date is
// replaced; omitted fields take the statutory defaults.
// PUT /api/rates
func (h *Handler) PutRates(w http.ResponseWriter, r *http.Request) {
	var doc statute.RatesJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.writeErr(w, r, &labor.FieldError{Field: "body", Message: "invalid JSON: " + err.Error(), Err: labor.ErrInvalidRates})
		return
	}
	rates, err := statute.FromJSON(doc)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := h.table.With(rates)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if h.Repo != nil {
		if err := h.Repo.SaveRates(r.Context(), rates); err != nil {
			h.writeErr(w, r, err)
			return
		}
	}
	h.table = next

	h.Logger.InfoContext(r.Context(), "rates version stored",
		"version", rates.Version,
		"effective_from", doc.EffectiveFrom,
		"minimum_hourly_wage", rates.MinimumHourlyWage.String(),
	)
	writeJSON(w, http.StatusOK, rates.ToJSON())
}
