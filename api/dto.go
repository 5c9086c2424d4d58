/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Requests carry the form
  fields of the contract wizard as the browser sends them (formatted money,
  "HH:MM" clocks, weekday names); responses reuse the engine's result types,
  which already carry JSON tags.

NAMING CONVENTION:
  - *DTO: Form sections shared by several requests
  - *Request: Request body types from clients
  - *Response: Response wrappers

VALIDATION:
  Struct tags are checked by go-playground/validator (see validate.go) before
  any conversion. Validation rejects shapes the engine cannot interpret (an
  unknown weekday or pay type, a malformed date). Half-typed numbers are not
  rejected: Amount and the clock fields coerce them to zero the same way the
  engine does.

SEE ALSO:
  - handlers.go: Uses these types
  - validate.go: Custom validation tags
*/
package api

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/contract"
	"github.com/warp/wage-engine/drafts"
	"github.com/warp/wage-engine/eligibility"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/wage"
	"github.com/warp/wage-engine/worktime"
)

const dateLayout = "2006-01-02"

// =============================================================================
// FORM SECTIONS
// =============================================================================

// Amount is a won figure given as a JSON number or a formatted string such as
// "2,096,270" or "10,030원". Anything unparseable decodes to zero.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	a.Decimal = labor.ParseMoney(s)
	return nil
}

// ShiftDTO is one day's working hours.
type ShiftDTO struct {
	Start        string `json:"start" validate:"max=8"`
	End          string `json:"end" validate:"max=8"`
	BreakMinutes int    `json:"break_minutes" validate:"gte=0,lte=1440"`
}

func (s ShiftDTO) toShift() worktime.DayShift {
	return worktime.DayShift{
		Start:        labor.ParseClock(s.Start),
		End:          labor.ParseClock(s.End),
		BreakMinutes: s.BreakMinutes,
	}
}

// ScheduleDTO is the working-hours step: selected days and either one common
// shift, per-day shifts, or both (per-day wins).
type ScheduleDTO struct {
	Days   []string            `json:"days" validate:"max=7,dive,weekday"`
	Common *ShiftDTO           `json:"common,omitempty"`
	PerDay map[string]ShiftDTO `json:"per_day,omitempty" validate:"omitempty,dive,keys,weekday,endkeys"`
}

// Schedule converts a validated DTO.
func (s ScheduleDTO) Schedule() worktime.Schedule {
	var out worktime.Schedule
	for _, name := range s.Days {
		if d, ok := labor.ParseWeekday(name); ok {
			out.Days = append(out.Days, d)
		}
	}
	if s.Common != nil {
		shift := s.Common.toShift()
		out.Common = &shift
	}
	if len(s.PerDay) > 0 {
		out.PerDay = make(map[labor.Weekday]worktime.DayShift, len(s.PerDay))
		for name, shift := range s.PerDay {
			if d, ok := labor.ParseWeekday(name); ok {
				out.PerDay[d] = shift.toShift()
			}
		}
	}
	return out
}

// WageDTO is the wage step.
type WageDTO struct {
	PayType    string `json:"pay_type" validate:"required,oneof=hourly weekly monthly"`
	Amount     Amount `json:"amount"`
	Allowances Amount `json:"allowances"`
}

func (w WageDTO) Input() wage.Input {
	return wage.Input{
		PayType:    labor.PayType(w.PayType),
		Amount:     w.Amount.Decimal,
		Allowances: w.Allowances.Decimal,
	}
}

// ProbationDTO is the probation step. Values outside the permitted sets are
// accepted and evaluate as no probation.
type ProbationDTO struct {
	PeriodMonths    int `json:"period_months" validate:"gte=0"`
	DiscountPercent int `json:"discount_percent" validate:"gte=0,lte=100"`
}

func (p ProbationDTO) Terms() wage.ProbationTerms {
	return wage.ProbationTerms{PeriodMonths: p.PeriodMonths, DiscountPercent: p.DiscountPercent}
}

// PeriodDTO is the contract-period step. An empty End is an indefinite contract.
type PeriodDTO struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Period converts a validated DTO. An end before the start is rejected.
func (p PeriodDTO) Period() (eligibility.ContractPeriod, error) {
	start, err := time.Parse(dateLayout, p.Start)
	if err != nil {
		return eligibility.ContractPeriod{}, &labor.FieldError{Field: "period.start", Message: "must be YYYY-MM-DD"}
	}
	period := eligibility.ContractPeriod{Start: start}
	if p.End == "" {
		return period, nil
	}
	end, err := time.Parse(dateLayout, p.End)
	if err != nil {
		return eligibility.ContractPeriod{}, &labor.FieldError{Field: "period.end", Message: "must be YYYY-MM-DD"}
	}
	if end.Before(start) {
		return eligibility.ContractPeriod{}, &labor.FieldError{Field: "period.end", Message: "must not be before the start"}
	}
	period.End = &end
	return period, nil
}

// =============================================================================
// CALCULATION REQUESTS
// =============================================================================

// Every request takes an optional "date" (YYYY-MM-DD) selecting the statutory
// rates in effect; empty means today.

// NormalizeRequest is the body of POST /api/worktime/normalize.
type NormalizeRequest struct {
	Schedule ScheduleDTO `json:"schedule"`
	Date     string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// DecomposeRequest is the body of POST /api/wage/decompose.
type DecomposeRequest struct {
	Schedule ScheduleDTO `json:"schedule"`
	Wage     WageDTO     `json:"wage"`
	Date     string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// MinimumRequest is the body of POST /api/wage/minimum.
type MinimumRequest struct {
	Schedule ScheduleDTO `json:"schedule"`
	PayType  string      `json:"pay_type" validate:"required,oneof=hourly weekly monthly"`
	Date     string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CheckRequest is the body of POST /api/wage/check.
type CheckRequest struct {
	Schedule ScheduleDTO `json:"schedule"`
	Wage     WageDTO     `json:"wage"`
	Date     string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ProbationRequest is the body of POST /api/probation/evaluate. The basic wage
// and weekly-holiday pay are the figures an earlier step already derived.
type ProbationRequest struct {
	Schedule         ScheduleDTO  `json:"schedule"`
	PayType          string       `json:"pay_type" validate:"required,oneof=weekly monthly"`
	BasicWage        Amount       `json:"basic_wage"`
	WeeklyHolidayPay Amount       `json:"weekly_holiday_pay"`
	Allowances       Amount       `json:"allowances"`
	Probation        ProbationDTO `json:"probation"`
	Date             string       `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// EligibilityRequest is the body of POST /api/eligibility. Period is optional;
// without it probation eligibility is not reported.
type EligibilityRequest struct {
	Schedule ScheduleDTO `json:"schedule"`
	Period   *PeriodDTO  `json:"period,omitempty"`
	Date     string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AssessRequest is a whole contract draft. Rates default to those in effect
// on the contract start date.
type AssessRequest struct {
	Period    PeriodDTO    `json:"period"`
	Schedule  ScheduleDTO  `json:"schedule"`
	Wage      WageDTO      `json:"wage"`
	Probation ProbationDTO `json:"probation"`
	Date      string       `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Draft converts a validated request into the engine's draft.
func (r AssessRequest) Draft() (contract.Draft, error) {
	period, err := r.Period.Period()
	if err != nil {
		return contract.Draft{}, err
	}
	return contract.Draft{
		Period:    period,
		Schedule:  r.Schedule.Schedule(),
		Wage:      r.Wage.Input(),
		Probation: r.Probation.Terms(),
	}, nil
}

// RatesDate is the date whose statutory rates apply to the draft.
func (r AssessRequest) RatesDate() string {
	if r.Date != "" {
		return r.Date
	}
	return r.Period.Start
}

// =============================================================================
// RESPONSES
// =============================================================================

// HoursDTO repeats the minute totals as display hours ("208.6").
type HoursDTO struct {
	Weekly         string `json:"weekly"`
	WeeklyOvertime string `json:"weekly_overtime"`
	WeeklyNight    string `json:"weekly_night"`
	WeeklyTotal    string `json:"weekly_total"`
	WeeklyHoliday  string `json:"weekly_holiday"`
	Monthly        string `json:"monthly"`
}

func hoursOf(s worktime.Stats) HoursDTO {
	return HoursDTO{
		Weekly:         labor.FormatHours(s.WeeklyHours()),
		WeeklyOvertime: labor.FormatHours(s.WeeklyOvertimeHours()),
		WeeklyNight:    labor.FormatHours(s.WeeklyNightHours()),
		WeeklyTotal:    labor.FormatHours(s.WeeklyTotalHours()),
		WeeklyHoliday:  labor.FormatHours(s.WeeklyHolidayHours()),
		Monthly:        labor.FormatHours(s.MonthlyHours()),
	}
}

type NormalizeResponse struct {
	RatesVersion string                 `json:"rates_version"`
	Stats        worktime.Stats         `json:"stats"`
	Hours        HoursDTO               `json:"hours"`
	Compliance   eligibility.Compliance `json:"compliance"`
}

type DecomposeResponse struct {
	RatesVersion string         `json:"rates_version"`
	Breakdown    wage.Breakdown `json:"breakdown"`
	Display      BreakdownText  `json:"display"`
}

// BreakdownText is the breakdown formatted for the form ("1,746,892").
type BreakdownText struct {
	BasicWage        string `json:"basic_wage"`
	WeeklyHolidayPay string `json:"weekly_holiday_pay"`
}

type MinimumResponse struct {
	RatesVersion string       `json:"rates_version"`
	Minimum      wage.Minimum `json:"minimum"`
}

type CheckResponse struct {
	RatesVersion     string          `json:"rates_version"`
	Floor            wage.FloorCheck `json:"floor"`
	HourlyEquivalent decimal.Decimal `json:"hourly_equivalent"`
	Premiums         wage.Premiums   `json:"premiums"`
}

type ProbationResponse struct {
	RatesVersion string               `json:"rates_version"`
	Result       wage.ProbationResult `json:"result"`
}

type EligibilityResponse struct {
	RatesVersion      string                 `json:"rates_version"`
	WeeklyHours       decimal.Decimal        `json:"weekly_hours"`
	MonthlyHours      decimal.Decimal        `json:"monthly_hours"`
	Insurance         eligibility.Result     `json:"insurance"`
	WeeklyHoliday     eligibility.Result     `json:"weekly_holiday"`
	Compliance        eligibility.Compliance `json:"compliance"`
	ProbationEligible *bool                  `json:"probation_eligible,omitempty"`
}

type AssessResponse struct {
	contract.Assessment
	Warnings []string `json:"warnings"`
}

// =============================================================================
// RATES AND DRAFTS
// =============================================================================

// RatesListResponse lists every version, oldest first.
type RatesListResponse struct {
	Versions []statute.RatesJSON `json:"versions"`
}

type CreateDraftResponse struct {
	SessionID string `json:"session_id"`
}

// SessionResponse is every staged step of a wizard session.
type SessionResponse struct {
	SessionID string             `json:"session_id"`
	Steps     []drafts.StepDraft `json:"steps"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response. Details is a message
// or, for validation failures, a field-to-problem map.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// decodeStep unmarshals a staged step payload into its DTO.
func decodeStep(d drafts.StepDraft, into any) error {
	if err := json.Unmarshal(d.Payload, into); err != nil {
		return &labor.FieldError{Field: string(d.Step), Message: "staged payload is not valid: " + err.Error()}
	}
	return nil
}
