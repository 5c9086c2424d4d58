/*
Package contract composes the calculators into one assessment of a contract draft.

PURPOSE:
  A contract wizard walks through several steps - contract period, working
  hours, wage, probation - and each step shows numbers derived from the earlier
  ones. Assess runs the whole chain in one direction:

    draft -> worktime.Normalize -> { wage.Decompose, wage.Minimum*, eligibility }
          -> wage.EvaluateProbation -> Assessment

  No step reads another step's output except through explicit arguments, and
  nothing here mutates the draft.

PROBATION:
  Probation is only evaluated when the contract period permits it
  (eligibility.IsProbationEligible). Otherwise the probation section is the
  evaluator's no-op result and Applicable is false; clearing the fields on the
  form is left to the caller.

HOURLY CONTRACTS:
  An hourly wage is expanded into a monthly breakdown (hours x rate) so the
  minimum-wage and probation sections read the same for every pay type.
*/
package contract

import (
	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/eligibility"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/wage"
	"github.com/warp/wage-engine/worktime"
)

// Draft is the typed form state of a contract, validated at the boundary.
type Draft struct {
	Period    eligibility.ContractPeriod `json:"period"`
	Schedule  worktime.Schedule          `json:"schedule"`
	Wage      wage.Input                 `json:"wage"`
	Probation wage.ProbationTerms        `json:"probation"`
}

// =============================================================================
// ASSESSMENT
// =============================================================================

type PeriodSummary struct {
	Indefinite        bool `json:"indefinite"`
	Days              int  `json:"days"`
	ProbationEligible bool `json:"probation_eligible"`
}

type WorkTimeSummary struct {
	Stats      worktime.Stats         `json:"stats"`
	Compliance eligibility.Compliance `json:"compliance"`
}

type WageSummary struct {
	Input            wage.Input      `json:"input"`
	StandardPayType  labor.PayType   `json:"standard_pay_type"`
	Breakdown        wage.Breakdown  `json:"breakdown"`
	Minimum          wage.Minimum    `json:"minimum"`
	Floor            wage.FloorCheck `json:"floor"`
	HourlyEquivalent decimal.Decimal `json:"hourly_equivalent"`
	Premiums         wage.Premiums   `json:"premiums"`
}

type ProbationSummary struct {
	Applicable bool                 `json:"applicable"`
	Terms      wage.ProbationTerms  `json:"terms"`
	Result     wage.ProbationResult `json:"result"`
}

// Assessment is every figure the wizard steps display for a draft.
type Assessment struct {
	RatesVersion  string             `json:"rates_version"`
	Period        PeriodSummary      `json:"period"`
	WorkTime      WorkTimeSummary    `json:"work_time"`
	Wage          WageSummary        `json:"wage"`
	Insurance     eligibility.Result `json:"insurance"`
	WeeklyHoliday eligibility.Result `json:"weekly_holiday"`
	Probation     ProbationSummary   `json:"probation"`
}

// Warnings lists every message the assessment raised, in step order.
func (a Assessment) Warnings() []string {
	var out []string
	out = append(out, a.WorkTime.Compliance.Reasons...)
	if a.Wage.Floor.IsBelowMinimum {
		out = append(out, a.Wage.Floor.Message)
	}
	if a.Probation.Result.HasWarning {
		out = append(out, a.Probation.Result.WarningMessage)
	}
	return out
}

// Assess evaluates a draft under the given statutory rates.
func Assess(draft Draft, rates statute.Rates) Assessment {
	stats := worktime.Normalize(draft.Schedule, rates)

	period := PeriodSummary{
		Indefinite:        draft.Period.Indefinite(),
		Days:              draft.Period.Days(),
		ProbationEligible: eligibility.IsProbationEligible(draft.Period, rates),
	}

	weeklyHours := eligibility.WeeklyHours(stats)
	monthlyHours := eligibility.MonthlyHours(stats, rates)

	standardPayType := labor.PayMonthly
	minimum := wage.MinimumMonthly(stats, rates)
	if draft.Wage.PayType == labor.PayWeekly {
		standardPayType = labor.PayWeekly
		minimum = wage.MinimumWeekly(stats, rates)
	}
	breakdown := wage.Expand(draft.Wage, stats, rates, standardPayType)

	hourly := draft.Wage.Amount
	if draft.Wage.PayType != labor.PayHourly {
		hourly = wage.HourlyEquivalent(breakdown, stats, rates, standardPayType)
	}

	terms := wage.ProbationTerms{}
	if period.ProbationEligible {
		terms = draft.Probation
	}
	probation := wage.EvaluateProbation(wage.ProbationInput{
		BasicWage:        breakdown.BasicWage,
		WeeklyHolidayPay: breakdown.WeeklyHolidayPay,
		Allowances:       draft.Wage.Allowances,
		Terms:            terms,
		PayType:          standardPayType,
		Stats:            stats,
		Rates:            rates,
	})

	return Assessment{
		RatesVersion: rates.Version,
		Period:       period,
		WorkTime: WorkTimeSummary{
			Stats:      stats,
			Compliance: eligibility.CheckCompliance(stats, rates),
		},
		Wage: WageSummary{
			Input:            draft.Wage,
			StandardPayType:  standardPayType,
			Breakdown:        breakdown,
			Minimum:          minimum,
			Floor:            wage.CheckFloor(draft.Wage, stats, rates),
			HourlyEquivalent: hourly.Round(2),
			Premiums:         wage.EstimatePremiums(hourly, stats, rates),
		},
		Insurance:     eligibility.CheckInsurance(weeklyHours, monthlyHours, rates),
		WeeklyHoliday: eligibility.CheckWeeklyHoliday(weeklyHours, rates),
		Probation: ProbationSummary{
			Applicable: period.ProbationEligible && terms.Applicable(),
			Terms:      draft.Probation,
			Result:     probation,
		},
	}
}
