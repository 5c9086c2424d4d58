package statute

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/wage-engine/labor"
)

// =============================================================================
// TABLE - versions ordered by effective date
// =============================================================================

// Table is an immutable set of Rates versions. For returns the version whose
// EffectiveFrom is the latest one not after the given date.
type Table struct {
	versions []Rates
}

// NewTable validates and sorts versions. Duplicate effective dates are rejected.
func NewTable(versions ...Rates) (*Table, error) {
	sorted := make([]Rates, len(versions))
	copy(sorted, versions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom) })

	for i, r := range sorted {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if i > 0 && sorted[i-1].EffectiveFrom.Equal(r.EffectiveFrom) {
			return nil, fmt.Errorf("%w: two versions effective %s", labor.ErrInvalidRates, r.EffectiveFrom.Format(dateLayout))
		}
	}
	return &Table{versions: sorted}, nil
}

// ParseTable decodes a JSON array of rates documents.
func ParseTable(data []byte) (*Table, error) {
	var docs []RatesJSON
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", labor.ErrInvalidRates, err)
	}
	versions := make([]Rates, 0, len(docs))
	for _, doc := range docs {
		r, err := FromJSON(doc)
		if err != nil {
			return nil, err
		}
		versions = append(versions, r)
	}
	return NewTable(versions...)
}

// For returns the version in effect on date.
func (t *Table) For(date time.Time) (Rates, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	for i := len(t.versions) - 1; i >= 0; i-- {
		if !t.versions[i].EffectiveFrom.After(day) {
			return t.versions[i], nil
		}
	}
	return Rates{}, fmt.Errorf("%w: no version effective on %s", labor.ErrRatesNotFound, day.Format(dateLayout))
}

// Latest returns the most recent version.
func (t *Table) Latest() (Rates, error) {
	if len(t.versions) == 0 {
		return Rates{}, labor.ErrRatesNotFound
	}
	return t.versions[len(t.versions)-1], nil
}

// Versions returns a copy of all versions, oldest first.
func (t *Table) Versions() []Rates {
	out := make([]Rates, len(t.versions))
	copy(out, t.versions)
	return out
}

// With returns a new table with r added, replacing any version with the same
// effective date.
func (t *Table) With(r Rates) (*Table, error) {
	versions := make([]Rates, 0, len(t.versions)+1)
	for _, v := range t.versions {
		if !v.EffectiveFrom.Equal(r.EffectiveFrom) {
			versions = append(versions, v)
		}
	}
	return NewTable(append(versions, r)...)
}

// =============================================================================
// DEFAULT TABLE
// =============================================================================

// Minimum hourly wages as published by the Minimum Wage Commission.
var minimumWages = []struct {
	year int
	wage int64
}{
	{2023, 9620},
	{2024, 9860},
	{2025, 10030},
	{2026, 10320},
}

// ForYear returns the default version effective on January 1st of year.
// It panics for a year before the default table starts; tests and fixtures only.
func ForYear(year int) Rates {
	r, err := DefaultTable().For(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultTable returns the built-in versions.
func DefaultTable() *Table {
	versions := make([]Rates, 0, len(minimumWages))
	for _, mw := range minimumWages {
		r := baseline()
		r.Version = fmt.Sprintf("%d", mw.year)
		r.EffectiveFrom = time.Date(mw.year, time.January, 1, 0, 0, 0, 0, time.UTC)
		r.MinimumHourlyWage = decimal.NewFromInt(mw.wage)
		versions = append(versions, r)
	}
	t, err := NewTable(versions...)
	if err != nil {
		panic(err)
	}
	return t
}
