package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/wage-engine/drafts"
	"github.com/warp/wage-engine/labor"
)

// Largest step payload accepted. A full schedule is well under 4 KiB.
const maxDraftPayload = 64 << 10

// =============================================================================
// DRAFT HANDLERS
// =============================================================================
// Drafts are write-through form state: a step payload is stored as sent, even
// half-filled. Validation happens only when the session is assessed.

// CreateDraft starts a wizard session.
// POST /api/drafts
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, CreateDraftResponse{SessionID: drafts.NewSessionID()})
}

// sessionParam reads and checks {session}.
func sessionParam(r *http.Request) (string, error) {
	session := chi.URLParam(r, "session")
	if !drafts.ValidSessionID(session) {
		return "", &labor.FieldError{Field: "session", Message: "not a session id"}
	}
	return session, nil
}

// PutDraftStep stages one step.
// PUT /api/drafts/{session}/{step}
func (h *Handler) PutDraftStep(w http.ResponseWriter, r *http.Request) {
	session, err := sessionParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	step, err := drafts.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxDraftPayload+1))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if len(payload) > maxDraftPayload {
		h.writeErr(w, r, &labor.FieldError{Field: "body", Message: "payload too large"})
		return
	}
	if !json.Valid(payload) {
		h.writeErr(w, r, &labor.FieldError{Field: "body", Message: "payload is not JSON"})
		return
	}

	d := drafts.StepDraft{SessionID: session, Step: step, Payload: json.RawMessage(payload)}
	if err := h.Drafts.Save(r.Context(), d); err != nil {
		h.writeErr(w, r, err)
		return
	}
	saved, err := h.Drafts.Load(r.Context(), session, step)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetDraftStep returns one staged step.
// GET /api/drafts/{session}/{step}
func (h *Handler) GetDraftStep(w http.ResponseWriter, r *http.Request) {
	session, err := sessionParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	step, err := drafts.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	d, err := h.Drafts.Load(r.Context(), session, step)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GetDraft returns every staged step of a session.
// GET /api/drafts/{session}
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	session, err := sessionParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	steps, err := h.Drafts.List(r.Context(), session)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if steps == nil {
		steps = []drafts.StepDraft{}
	}
	writeJSON(w, http.StatusOK, SessionResponse{SessionID: session, Steps: steps})
}

// DeleteDraft drops a session.
// DELETE /api/drafts/{session}
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	session, err := sessionParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if err := h.Drafts.Delete(r.Context(), session); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssessDraft decodes the staged steps into a draft and assesses it. Missing
// schedule, wage or probation steps are empty; the period step is required.
// POST /api/drafts/{session}/assess
func (h *Handler) AssessDraft(w http.ResponseWriter, r *http.Request) {
	session, err := sessionParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	steps, err := h.Drafts.List(r.Context(), session)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	var req AssessRequest
	var havePeriod bool
	for _, d := range steps {
		switch d.Step {
		case drafts.StepPeriod:
			havePeriod = true
			err = decodeStep(d, &req.Period)
		case drafts.StepSchedule:
			err = decodeStep(d, &req.Schedule)
		case drafts.StepWage:
			err = decodeStep(d, &req.Wage)
		case drafts.StepProbation:
			err = decodeStep(d, &req.Probation)
		}
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
	}
	if !havePeriod {
		h.writeErr(w, r, errors.Join(labor.ErrDraftNotFound, errors.New("period step not staged")))
		return
	}
	if req.Wage.PayType == "" {
		req.Wage.PayType = string(labor.PayMonthly)
	}
	if err := Validate(&req); err != nil {
		h.writeErr(w, r, err)
		return
	}

	h.assess(w, r, req)
}
