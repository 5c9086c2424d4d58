/*
handlers.go - HTTP API handlers for the wage engine

PURPOSE:
  Exposes the calculators via REST API for the contract wizard. Handles HTTP
  request/response, JSON serialization, and delegates to the engine packages.

ENDPOINTS:
  Calculations:
    POST   /api/worktime/normalize     Schedule -> weekly/monthly stats
    POST   /api/wage/decompose         Lump wage -> basic + weekly-holiday pay
    POST   /api/wage/minimum           Legal minimum for a schedule
    POST   /api/wage/check             Declared wage vs. minimum, premiums
    POST   /api/probation/evaluate     Probation wage clamped at the floor
    POST   /api/eligibility            Insurance, weekly holiday, hour limits
    POST   /api/contracts/assess       Whole draft in one call

  Rates (rates.go):
    GET    /api/rates                  All versions
    GET    /api/rates/current          Version in effect today (or ?date=)
    PUT    /api/rates                  Store a version

  Drafts (drafts.go):
    POST   /api/drafts                          New wizard session
    GET    /api/drafts/{session}                All staged steps
    PUT    /api/drafts/{session}/{step}         Stage a step
    GET    /api/drafts/{session}/{step}         Read a step
    POST   /api/drafts/{session}/assess         Assess the staged steps
    DELETE /api/drafts/{session}                Drop the session

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Rates table (copy-on-write, replaced on PUT /rates)
  - RatesRepository: persisted rate versions (optional)
  - drafts.Store: wizard-step cache
  - Metrics and logger

REQUEST FLOW:
  1. Decode JSON body
  2. Validate DTO (validate.go)
  3. Pick the rates in effect on the request date
  4. Call the engine (pure, never fails)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, validation errors, invalid rates
  - 404: No rates for the date, unknown draft
  - 500: Storage errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/warp/wage-engine/contract"
	"github.com/warp/wage-engine/drafts"
	"github.com/warp/wage-engine/eligibility"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/metrics"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/wage"
	"github.com/warp/wage-engine/worktime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// RatesRepository persists rate versions. store/sqlite implements it.
type RatesRepository interface {
	SaveRates(ctx context.Context, r statute.Rates) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo    RatesRepository
	Drafts  drafts.Store
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	mu    sync.RWMutex
	table *statute.Table

	// now is replaced in tests.
	now func() time.Time
}

// NewHandler creates a handler. repo may be nil, in which case PUT /rates only
// changes the in-memory table.
func NewHandler(table *statute.Table, repo RatesRepository, draftStore drafts.Store, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		Repo:    repo,
		Drafts:  draftStore,
		Metrics: m,
		Logger:  logger,
		table:   table,
		now:     time.Now,
	}
}

// ratesOn returns the version in effect on date ("YYYY-MM-DD"), or today.
func (h *Handler) ratesOn(date string) (statute.Rates, error) {
	day := h.now()
	if date != "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return statute.Rates{}, &labor.FieldError{Field: "date", Message: "must be YYYY-MM-DD"}
		}
		day = parsed
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table.For(day)
}

// decode reads and validates a JSON request body.
func decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return &labor.FieldError{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return Validate(into)
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Normalize returns the weekly and monthly working-time figures of a schedule.
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req NormalizeRequest
	if err := decode(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	rates, err := h.ratesOn(req.Date)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	stats := worktime.Normalize(req.Schedule.Schedule(), rates)
	compliance := eligibility.CheckCompliance(stats, rates)
	h.recordCompliance(compliance)
	h.Metrics.ObserveCalculation("normalize", start)

	writeJSON(w, http.StatusOK, NormalizeResponse{
		RatesVersion: rates.Version,
		Stats:        stats,
		Hours:        hoursOf(stats),
		Compliance:   compliance,
	})
}

// Decompose splits a lump wage into basic wage and weekly-holiday pay.
func (h *Handler) Decompose(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req DecomposeRequest
	if err := decode(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	rates, err := h.ratesOn(req.Date)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	stats := worktime.Normalize(req.Schedule.Schedule(), rates)
	in := req.Wage.Input()
	b := wage.Decompose(in.Amount, stats, in.PayType)
	h.Metrics.ObserveCalculation("decompose", start)

	writeJSON(w, http.StatusOK, DecomposeResponse{
		RatesVersion: rates.Version,
		Breakdown:    b,
		Display: BreakdownText{
			BasicWage:        labor.FormatWon(b.BasicWage),
			WeeklyHolidayPay: labor.FormatWon(b.WeeklyHolidayPay),
		},
	})
}

// Minimum returns the legal minimum wage for a schedule and pay type.
func (h *Handler) Minimum(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req MinimumRequest
	if err := decode(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	rates, err := h.ratesOn(req.Date)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	stats := worktime.Normalize(req.Schedule.Schedule(), rates)
	var m wage.Minimum
	switch labor.PayType(req.PayType) {
	case labor.PayWeekly:
		m = wage.MinimumWeekly(stats, rates)
	case labor.PayHourly:
		m = wage.Minimum{
			PayType:          labor.PayHourly,
			HourlyWage:       rates.MinimumHourlyWage,
			TotalMinimumWage: rates.MinimumHourlyWage,
		}
	default:
		m = wage.MinimumMonthly(stats, rates)
	}
	h.Metrics.ObserveCalculation("minimum", start)

	writeJSON(w, http.StatusOK, MinimumResponse{RatesVersion: rates.Version, Minimum: m})
}

// Check compares a declared wage with the legal minimum and prices premiums.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req CheckRequest
	if err := decode(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	rates, err := h.ratesOn(req.Date)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	stats := worktime.Normalize(req.Schedule.Schedule(), rates)
	in := req.Wage.Input()
	floor := wage.CheckFloor(in, stats, rates)
	if floor.IsBelowMinimum {
		h.Metrics.IncrementBelowMinimum()
	}

	hourly := in.Amount
	if in.PayType != labor.PayHourly {
		b := wage.Decompose(in.Amount, stats, in.PayType)
		hourly = wage.HourlyEquivalent(b, stats, rates, in.PayType)
	}
	h.Metrics.ObserveCalculation("check", start)

	writeJSON(w, http.StatusOK, CheckResponse{
		RatesVersion:     rates.Version,
		Floor:            floor,
		HourlyEquivalent: hourly.Round(2),
		Premiums:         wage.EstimatePremiums(hourly, stats, rates),
	})
}

// EvaluateProbation applies a probation discount without crossing the floor.
func (h *Handler) EvaluateProbation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req ProbationRequest
	if err := decode(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	rates, err := h.ratesOn(req.Date)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	result := wage.EvaluateProbation(wage.ProbationInput{
		BasicWage:        req.BasicWage.Decimal,
		WeeklyHolidayPay: req.WeeklyHolidayPay.Decimal,
		Allowances:       req.Allowances.Decimal,
		Terms:            req.Probation.Terms(),
		PayType:          labor.PayType(req.PayType),
		Stats:            worktime.Normalize(req.Schedule.Schedule(), rates),
		Rates:            rates,
	})
	if result.HasWarning {
		h.Metrics.IncrementProbationClamped()
	}
	h.Metrics.ObserveCalculation("probation", start)

	writeJSON(w, http.StatusOK, ProbationResponse{RatesVersion: rates.Version, Result: result})
}

// Eligibility reports insurance, weekly holiday and working-time limits.
func (h *Handler) Eligibility(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req EligibilityRequest
	if err := decode(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	rates, err := h.ratesOn(req.Date)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	stats := worktime.Normalize(req.Schedule.Schedule(), rates)
	weekly := eligibility.WeeklyHours(stats)
	monthly := eligibility.MonthlyHours(stats, rates)
	resp := EligibilityResponse{
		RatesVersion:  rates.Version,
		WeeklyHours:   weekly,
		MonthlyHours:  monthly,
		Insurance:     eligibility.CheckInsurance(weekly, monthly, rates),
		WeeklyHoliday: eligibility.CheckWeeklyHoliday(weekly, rates),
		Compliance:    eligibility.CheckCompliance(stats, rates),
	}
	if req.Period != nil {
		period, err := req.Period.Period()
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		ok := eligibility.IsProbationEligible(period, rates)
		resp.ProbationEligible = &ok
	}
	h.recordCompliance(resp.Compliance)
	h.Metrics.ObserveCalculation("eligibility", start)

	writeJSON(w, http.StatusOK, resp)
}

// Assess evaluates a whole contract draft.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := decode(r, &req); err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.assess(w, r, req)
}

func (h *Handler) assess(w http.ResponseWriter, r *http.Request, req AssessRequest) {
	start := time.Now()
	draft, err := req.Draft()
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	rates, err := h.ratesOn(req.RatesDate())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	a := contract.Assess(draft, rates)
	h.recordCompliance(a.WorkTime.Compliance)
	if a.Wage.Floor.IsBelowMinimum {
		h.Metrics.IncrementBelowMinimum()
	}
	if a.Probation.Result.HasWarning {
		h.Metrics.IncrementProbationClamped()
	}
	h.Metrics.ObserveCalculation("assess", start)

	warnings := a.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, AssessResponse{Assessment: a, Warnings: warnings})
}

func (h *Handler) recordCompliance(c eligibility.Compliance) {
	if c.IsOver52Hours {
		h.Metrics.IncrementViolation(metrics.ViolationWeeklyTotal)
	}
	if c.IsOver12HoursOvertime {
		h.Metrics.IncrementViolation(metrics.ViolationWeeklyOvertime)
	}
}

// Health reports liveness; it pings the rates repository when it can.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Repo.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeErr maps an error to its HTTP status. Server-side failures are logged.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: ve.Fields})
	case labor.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case labor.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		h.Logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
