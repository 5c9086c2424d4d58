package wage

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/labor"
	"github.com/warp/wage-engine/statute"
	"github.com/warp/wage-engine/worktime"
)

// =============================================================================
// PROBATION TERMS
// =============================================================================

var (
	probationPeriods   = map[int]bool{1: true, 2: true, 3: true}
	probationDiscounts = map[int]bool{10: true, 15: true, 20: true, 25: true, 30: true}
)

// ProbationTerms are the probation fields of a contract. Zero means absent.
type ProbationTerms struct {
	PeriodMonths    int `json:"period_months"`
	DiscountPercent int `json:"discount_percent"`
}

// Applicable reports whether both fields hold a permitted value. Anything else,
// including a value outside the permitted sets, is treated as no probation.
func (t ProbationTerms) Applicable() bool {
	return probationPeriods[t.PeriodMonths] && probationDiscounts[t.DiscountPercent]
}

// =============================================================================
// EVALUATION
// =============================================================================

// ProbationInput carries everything the evaluator reads. Callers pass values
// already extracted from wherever they staged them.
type ProbationInput struct {
	BasicWage        decimal.Decimal
	WeeklyHolidayPay decimal.Decimal
	Allowances       decimal.Decimal
	Terms            ProbationTerms
	PayType          labor.PayType
	Stats            worktime.Stats
	Rates            statute.Rates
}

// ProbationResult is the probation wage with the figures that produced it.
type ProbationResult struct {
	Applied               bool            `json:"applied"`
	StandardWage          decimal.Decimal `json:"standard_wage"`
	DiscountedWage        decimal.Decimal `json:"discounted_wage"`
	MinimumFloor          decimal.Decimal `json:"minimum_floor"`
	ProbationStandardWage decimal.Decimal `json:"probation_standard_wage"`
	HasWarning            bool            `json:"has_warning"`
	WarningMessage        string          `json:"warning_message,omitempty"`
	AppliedTotal          decimal.Decimal `json:"applied_total"`
}

// EvaluateProbation applies the discount to the standard wage (basic +
// weekly-holiday pay) and clamps it at ProbationFloorPercent of the minimum
// standard wage. Allowances are added back undiscounted.
//
// Without applicable terms it returns the standard wage unchanged, so callers
// can invoke it unconditionally.
func EvaluateProbation(in ProbationInput) ProbationResult {
	standard := in.BasicWage.Add(in.WeeklyHolidayPay)
	allowances := in.Allowances

	if !in.Terms.Applicable() {
		return ProbationResult{
			StandardWage:          standard,
			DiscountedWage:        standard,
			MinimumFloor:          decimal.Zero,
			ProbationStandardWage: standard,
			AppliedTotal:          standard.Add(allowances),
		}
	}

	discounted := labor.Won(standard.Mul(decimal.NewFromInt(1).Sub(labor.Percent(in.Terms.DiscountPercent))))
	floor := labor.CeilWon(MinimumStandardWage(in.Stats, in.Rates, in.PayType).Mul(in.Rates.ProbationFloorRatio()))

	result := ProbationResult{
		Applied:               true,
		StandardWage:          standard,
		DiscountedWage:        discounted,
		MinimumFloor:          floor,
		ProbationStandardWage: discounted,
	}
	if discounted.LessThan(floor) {
		result.ProbationStandardWage = floor
		result.HasWarning = true
		result.WarningMessage = fmt.Sprintf(
			"A %d%% probation discount gives %s won, below %d%% of the minimum wage (%s won). The probation wage is raised to %s won.",
			in.Terms.DiscountPercent, labor.FormatWon(discounted),
			in.Rates.ProbationFloorPercent, labor.FormatWon(floor), labor.FormatWon(floor),
		)
	}
	result.AppliedTotal = result.ProbationStandardWage.Add(allowances)
	return result
}
