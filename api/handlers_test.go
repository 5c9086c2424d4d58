/*
handlers_test.go - HTTP tests for the calculation, rates and draft endpoints

Tests for:
- Each calculation endpoint against the reference office-hours contract
- Validation and error status mapping
- Rates listing, lookup by date and PUT
- The wizard draft flow ending in an assessment
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/warp/wage-engine/drafts"
	"github.com/warp/wage-engine/metrics"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/store/sqlite"
)

const officeSchedule = `{
	"days": ["mon", "tue", "wed", "thu", "fri"],
	"common": {"start": "09:00", "end": "18:00", "break_minutes": 60}
}`

type HandlerSuite struct {
	suite.Suite
	store   *sqlite.Store
	handler *Handler
	router  http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	store, err := sqlite.New(":memory:")
	s.Require().NoError(err)
	s.store = store

	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s.handler = NewHandler(statute.DefaultTable(), store, store, metrics.New(reg), logger)
	s.handler.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	s.router = NewRouter(s.handler, reg, []string{"*"})
}

func (s *HandlerSuite) TearDownTest() {
	s.store.Close()
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder, into any) {
	s.Require().NoError(json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(into), rec.Body.String())
}

func (s *HandlerSuite) equalWon(expected int64, actual decimal.Decimal, field string) {
	s.True(actual.Equal(decimal.NewFromInt(expected)), "%s: expected %d, got %s", field, expected, actual)
}

// =============================================================================
// CALCULATIONS
// =============================================================================

func (s *HandlerSuite) TestNormalize_OfficeWeek() {
	// GIVEN: Monday to Friday, 09:00-18:00 with a one-hour break
	// WHEN: Normalizing without a date
	rec := s.do(http.MethodPost, "/api/worktime/normalize", `{"schedule": `+officeSchedule+`}`)

	// THEN: 40 weekly hours under today's (2025) rates, within every limit
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp NormalizeResponse
	s.decode(rec, &resp)
	s.Equal("2025", resp.RatesVersion)
	s.Equal(5, resp.Stats.WorkDays)
	s.Equal(2400, resp.Stats.WeeklyMinutes)
	s.Equal(0, resp.Stats.WeeklyOvertimeMinutes)
	s.Equal("40", resp.Hours.Weekly)
	s.Equal("8", resp.Hours.WeeklyHoliday)
	s.True(resp.Compliance.Compliant())
}

func (s *HandlerSuite) TestNormalize_ViolationCounted() {
	// Six 11-hour days: 66 hours in total, 26 of them overtime.
	body := `{"schedule": {
		"days": ["mon", "tue", "wed", "thu", "fri", "sat"],
		"common": {"start": "08:00", "end": "20:00", "break_minutes": 60}
	}}`

	rec := s.do(http.MethodPost, "/api/worktime/normalize", body)

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp NormalizeResponse
	s.decode(rec, &resp)
	s.True(resp.Compliance.IsOver52Hours)
	s.True(resp.Compliance.IsOver12HoursOvertime)
	s.Equal(float64(1), testutil.ToFloat64(s.handler.Metrics.ComplianceViolation.WithLabelValues(metrics.ViolationWeeklyTotal)))
	s.Equal(float64(1), testutil.ToFloat64(s.handler.Metrics.ComplianceViolation.WithLabelValues(metrics.ViolationWeeklyOvertime)))
}

func (s *HandlerSuite) TestDecompose_FormattedAmount() {
	// GIVEN: The monthly wage as the form sends it
	body := `{"schedule": ` + officeSchedule + `, "wage": {"pay_type": "monthly", "amount": "2,096,270원"}}`

	// WHEN: Decomposing
	rec := s.do(http.MethodPost, "/api/wage/decompose", body)

	// THEN: 40/48 of it is basic wage, the rest weekly-holiday pay
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp DecomposeResponse
	s.decode(rec, &resp)
	s.equalWon(1746892, resp.Breakdown.BasicWage, "basic")
	s.equalWon(349378, resp.Breakdown.WeeklyHolidayPay, "holiday")
	s.Equal("1,746,892", resp.Display.BasicWage)
	s.Equal("349,378", resp.Display.WeeklyHolidayPay)
}

func (s *HandlerSuite) TestMinimum_ByPayType() {
	tests := []struct {
		payType  string
		date     string
		expected int64
	}{
		{"monthly", "2025-03-01", 2092340},
		{"hourly", "2025-03-01", 10030},
		{"hourly", "2024-03-01", 9860},
	}

	for _, tt := range tests {
		s.Run(tt.payType+" "+tt.date, func() {
			body := `{"schedule": ` + officeSchedule + `, "pay_type": "` + tt.payType + `", "date": "` + tt.date + `"}`
			rec := s.do(http.MethodPost, "/api/wage/minimum", body)

			s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
			var resp MinimumResponse
			s.decode(rec, &resp)
			s.equalWon(tt.expected, resp.Minimum.TotalMinimumWage, "total minimum")
		})
	}
}

func (s *HandlerSuite) TestCheck_BelowMinimum() {
	// GIVEN: An office-hours contract paid 1,500,000 won a month
	body := `{"schedule": ` + officeSchedule + `, "wage": {"pay_type": "monthly", "amount": 1500000}}`

	// WHEN: Checking it
	rec := s.do(http.MethodPost, "/api/wage/check", body)

	// THEN: It is flagged with the shortfall and counted
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp CheckResponse
	s.decode(rec, &resp)
	s.True(resp.Floor.IsBelowMinimum)
	s.equalWon(2092340, resp.Floor.Minimum, "minimum")
	s.equalWon(592340, resp.Floor.Shortfall, "shortfall")
	s.NotEmpty(resp.Floor.Message)
	s.True(resp.HourlyEquivalent.LessThan(decimal.NewFromInt(10030)))
	s.Equal(float64(1), testutil.ToFloat64(s.handler.Metrics.BelowMinimum))
}

func (s *HandlerSuite) TestEvaluateProbation_ClampedAtFloor() {
	// GIVEN: A 20% probation discount, deeper than the 10% the law permits
	body := `{
		"schedule": ` + officeSchedule + `,
		"pay_type": "monthly",
		"basic_wage": "1,746,892",
		"weekly_holiday_pay": "349,378",
		"allowances": "100,000",
		"probation": {"period_months": 3, "discount_percent": 20}
	}`

	// WHEN: Evaluating
	rec := s.do(http.MethodPost, "/api/probation/evaluate", body)

	// THEN: The wage is raised to 90% of the minimum and a warning is returned
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp ProbationResponse
	s.decode(rec, &resp)
	s.True(resp.Result.Applied)
	s.True(resp.Result.HasWarning)
	s.equalWon(1677016, resp.Result.DiscountedWage, "discounted")
	s.equalWon(1883106, resp.Result.MinimumFloor, "floor")
	s.equalWon(1983106, resp.Result.AppliedTotal, "applied total")
	s.Equal(float64(1), testutil.ToFloat64(s.handler.Metrics.ProbationClamped))
}

func (s *HandlerSuite) TestEligibility_WithPeriod() {
	// GIVEN: The office week on a six-month fixed-term contract
	body := `{"schedule": ` + officeSchedule + `, "period": {"start": "2025-03-01", "end": "2025-08-31"}}`

	// WHEN: Checking eligibility
	rec := s.do(http.MethodPost, "/api/eligibility", body)

	// THEN: Insured with weekly holiday, but too short for probation
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp EligibilityResponse
	s.decode(rec, &resp)
	s.True(resp.Insurance.IsEligible)
	s.True(resp.WeeklyHoliday.IsEligible)
	s.True(resp.WeeklyHours.Equal(decimal.NewFromInt(40)))
	s.Require().NotNil(resp.ProbationEligible)
	s.False(*resp.ProbationEligible)
}

func (s *HandlerSuite) TestEligibility_ShortWeekWithoutPeriod() {
	// 13 hours a week, 56.5 a month: under every threshold.
	body := `{"schedule": {"days": ["sat", "sun"], "common": {"start": "10:00", "end": "16:30"}}}`

	rec := s.do(http.MethodPost, "/api/eligibility", body)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp EligibilityResponse
	s.decode(rec, &resp)
	s.False(resp.Insurance.IsEligible)
	s.False(resp.WeeklyHoliday.IsEligible)
	s.Nil(resp.ProbationEligible)
}

func (s *HandlerSuite) TestAssess_WholeDraft() {
	body := `{
		"period": {"start": "2025-03-01"},
		"schedule": ` + officeSchedule + `,
		"wage": {"pay_type": "monthly", "amount": "2,096,270", "allowances": "100,000"},
		"probation": {"period_months": 3, "discount_percent": 20}
	}`

	rec := s.do(http.MethodPost, "/api/contracts/assess", body)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp AssessResponse
	s.decode(rec, &resp)
	s.Equal("2025", resp.RatesVersion)
	s.True(resp.Period.Indefinite)
	s.True(resp.Probation.Applicable)
	s.equalWon(1983106, resp.Probation.Result.AppliedTotal, "applied total")
	s.Equal([]string{resp.Probation.Result.WarningMessage}, resp.Warnings)
}

func (s *HandlerSuite) TestAssess_RatesFollowStartDate() {
	// A 2024 contract is priced with the 2024 minimum even though today is 2025.
	body := `{
		"period": {"start": "2024-03-01"},
		"schedule": ` + officeSchedule + `,
		"wage": {"pay_type": "hourly", "amount": 9860}
	}`

	rec := s.do(http.MethodPost, "/api/contracts/assess", body)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp AssessResponse
	s.decode(rec, &resp)
	s.Equal("2024", resp.RatesVersion)
	s.False(resp.Wage.Floor.IsBelowMinimum)
	s.Empty(resp.Warnings)
}

// =============================================================================
// ERRORS
// =============================================================================

func (s *HandlerSuite) TestValidationErrors() {
	tests := []struct {
		name  string
		path  string
		body  string
		field string
	}{
		{
			name:  "unknown weekday",
			path:  "/api/worktime/normalize",
			body:  `{"schedule": {"days": ["mon", "funday"]}}`,
			field: "schedule.days[1]",
		},
		{
			name:  "unknown pay type",
			path:  "/api/wage/decompose",
			body:  `{"schedule": ` + officeSchedule + `, "wage": {"pay_type": "yearly", "amount": 1}}`,
			field: "wage.pay_type",
		},
		{
			name:  "hourly probation",
			path:  "/api/probation/evaluate",
			body:  `{"schedule": ` + officeSchedule + `, "pay_type": "hourly"}`,
			field: "pay_type",
		},
		{
			name:  "malformed date",
			path:  "/api/wage/minimum",
			body:  `{"schedule": ` + officeSchedule + `, "pay_type": "monthly", "date": "01/03/2025"}`,
			field: "date",
		},
		{
			name:  "missing start",
			path:  "/api/contracts/assess",
			body:  `{"wage": {"pay_type": "monthly"}}`,
			field: "period.start",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, tt.path, tt.body)

			s.Require().Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
			var resp struct {
				Error   string            `json:"error"`
				Details map[string]string `json:"details"`
			}
			s.decode(rec, &resp)
			s.Equal("Validation failed", resp.Error)
			s.Contains(resp.Details, tt.field)
		})
	}
}

func (s *HandlerSuite) TestMalformedBody() {
	rec := s.do(http.MethodPost, "/api/wage/check", `{"schedule": `)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestPeriodEndBeforeStart() {
	body := `{"period": {"start": "2025-03-01", "end": "2025-02-01"}, "wage": {"pay_type": "monthly"}}`
	rec := s.do(http.MethodPost, "/api/contracts/assess", body)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestNoRatesForDate() {
	body := `{"schedule": ` + officeSchedule + `, "date": "2019-05-01"}`
	rec := s.do(http.MethodPost, "/api/worktime/normalize", body)
	s.Equal(http.StatusNotFound, rec.Code)
}

// =============================================================================
// RATES
// =============================================================================

func (s *HandlerSuite) TestRates_ListAndCurrent() {
	rec := s.do(http.MethodGet, "/api/rates", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var list RatesListResponse
	s.decode(rec, &list)
	s.Len(list.Versions, 4)
	s.Equal("2023", list.Versions[0].Version)

	rec = s.do(http.MethodGet, "/api/rates/current", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var current statute.RatesJSON
	s.decode(rec, &current)
	s.Equal("2025", current.Version)

	rec = s.do(http.MethodGet, "/api/rates/current?date=2024-12-31", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &current)
	s.Equal("2024", current.Version)

	rec = s.do(http.MethodGet, "/api/rates/current?date=yesterday", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestRates_PutMidYearVersion() {
	// GIVEN: A mid-year increase effective July 2025
	body := `{"version": "2025-07", "effective_from": "2025-07-01", "minimum_hourly_wage": "10500"}`

	// WHEN: Storing it
	rec := s.do(http.MethodPut, "/api/rates", body)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// THEN: Calculations dated after July use it, and it is persisted
	rec = s.do(http.MethodPost, "/api/wage/minimum",
		`{"schedule": `+officeSchedule+`, "pay_type": "hourly", "date": "2025-08-01"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var resp MinimumResponse
	s.decode(rec, &resp)
	s.equalWon(10500, resp.Minimum.TotalMinimumWage, "hourly minimum")

	stored, err := s.store.ListRates(context.Background())
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal("2025-07", stored[0].Version)
}

func (s *HandlerSuite) TestRates_PutInvalid() {
	tests := map[string]string{
		"malformed":       `{"version": `,
		"missing wage":    `{"version": "x", "effective_from": "2025-07-01"}`,
		"missing version": `{"effective_from": "2025-07-01", "minimum_hourly_wage": "10500"}`,
	}
	for name, body := range tests {
		s.Run(name, func() {
			rec := s.do(http.MethodPut, "/api/rates", body)
			s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec := s.do(http.MethodGet, "/api/rates", "")
	var list RatesListResponse
	s.decode(rec, &list)
	s.Len(list.Versions, 4)
}

// =============================================================================
// DRAFTS
// =============================================================================

func (s *HandlerSuite) newSession() string {
	rec := s.do(http.MethodPost, "/api/drafts", "")
	s.Require().Equal(http.StatusCreated, rec.Code)
	var resp CreateDraftResponse
	s.decode(rec, &resp)
	s.Require().True(drafts.ValidSessionID(resp.SessionID))
	return resp.SessionID
}

func (s *HandlerSuite) TestDrafts_WizardFlow() {
	// GIVEN: A wizard session with every step staged, the wage step twice
	session := s.newSession()
	steps := []struct{ step, body string }{
		{"wage", `{"pay_type": "monthly", "amount": "2,000,000"}`},
		{"schedule", officeSchedule},
		{"period", `{"start": "2025-03-01"}`},
		{"probation", `{"period_months": 3, "discount_percent": 20}`},
		{"wage", `{"pay_type": "monthly", "amount": "2,096,270", "allowances": "100,000"}`},
	}
	for _, st := range steps {
		rec := s.do(http.MethodPut, "/api/drafts/"+session+"/"+st.step, st.body)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	}

	// WHEN: Reading the session back
	rec := s.do(http.MethodGet, "/api/drafts/"+session, "")

	// THEN: Steps come back in wizard order with the last write of each
	s.Require().Equal(http.StatusOK, rec.Code)
	var sess SessionResponse
	s.decode(rec, &sess)
	s.Require().Len(sess.Steps, 4)
	for i, step := range drafts.Steps {
		s.Equal(step, sess.Steps[i].Step)
	}
	s.JSONEq(`{"pay_type": "monthly", "amount": "2,096,270", "allowances": "100,000"}`, string(sess.Steps[2].Payload))

	// WHEN: Assessing the staged session
	rec = s.do(http.MethodPost, "/api/drafts/"+session+"/assess", "")

	// THEN: It matches assessing the same draft in one call
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp AssessResponse
	s.decode(rec, &resp)
	s.equalWon(1746892, resp.Wage.Breakdown.BasicWage, "basic")
	s.equalWon(1983106, resp.Probation.Result.AppliedTotal, "applied total")

	// WHEN: Deleting the session
	rec = s.do(http.MethodDelete, "/api/drafts/"+session, "")
	s.Equal(http.StatusNoContent, rec.Code)

	// THEN: Its steps are gone
	rec = s.do(http.MethodGet, "/api/drafts/"+session+"/wage", "")
	s.Equal(http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodGet, "/api/drafts/"+session, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &sess)
	s.Empty(sess.Steps)
}

func (s *HandlerSuite) TestDrafts_HalfFilledStepIsKept() {
	// A payload the engine would reject is still staged as typed.
	session := s.newSession()
	body := `{"days": ["mon", "fun"], "common": {"start": "9:"}}`

	rec := s.do(http.MethodPut, "/api/drafts/"+session+"/schedule", body)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/drafts/"+session+"/schedule", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var d drafts.StepDraft
	s.decode(rec, &d)
	s.JSONEq(body, string(d.Payload))
	s.False(d.UpdatedAt.IsZero())

	// Assessing it fails validation once the period is there too.
	rec = s.do(http.MethodPut, "/api/drafts/"+session+"/period", `{"start": "2025-03-01"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/api/drafts/"+session+"/assess", "")
	s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) TestDrafts_Errors() {
	session := s.newSession()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"bad session id", http.MethodGet, "/api/drafts/not-a-uuid", "", http.StatusBadRequest},
		{"unknown step", http.MethodPut, "/api/drafts/" + session + "/salary", `{}`, http.StatusBadRequest},
		{"payload not JSON", http.MethodPut, "/api/drafts/" + session + "/wage", `amount=1`, http.StatusBadRequest},
		{"step never staged", http.MethodGet, "/api/drafts/" + session + "/period", "", http.StatusNotFound},
		{"assess without period", http.MethodPost, "/api/drafts/" + session + "/assess", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(tt.method, tt.path, tt.body)
			s.Equal(tt.status, rec.Code, rec.Body.String())
		})
	}
}

func (s *HandlerSuite) TestDrafts_PayloadTooLarge() {
	session := s.newSession()
	body := `{"note": "` + strings.Repeat("x", maxDraftPayload) + `"}`

	rec := s.do(http.MethodPut, "/api/drafts/"+session+"/wage", body)

	s.Equal(http.StatusBadRequest, rec.Code)
}

// =============================================================================
// OPERATIONS
// =============================================================================

func (s *HandlerSuite) TestHealthAndMetrics() {
	rec := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, rec.Code)

	s.do(http.MethodPost, "/api/worktime/normalize", `{"schedule": `+officeSchedule+`}`)

	rec = s.do(http.MethodGet, "/metrics", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `wage_engine_calculations_total{operation="normalize"} 1`)
}

func (s *HandlerSuite) TestHealth_DatabaseDown() {
	s.store.Close()

	rec := s.do(http.MethodGet, "/healthz", "")

	s.Equal(http.StatusServiceUnavailable, rec.Code)
}
