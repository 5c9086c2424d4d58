/*
Package drafts defines the wizard-step draft cache.

PURPOSE:
  The contract wizard keeps the form state of each step (period, schedule,
  wage, probation) while the user moves back and forth between steps. The
  engine never reads this cache: a draft is opaque JSON written through on
  every change and decoded into a contract.Draft only when it is assessed.

KEY INTERFACES:
  Store: save / load / list / delete step payloads of a session

IMPLEMENTATIONS:
  - drafts/memory.go:       in-memory, single process
  - store/sqlite/drafts.go: SQLite, survives restarts
  - store/redis/redis.go:   Redis with a session TTL, shared across instances

SEE ALSO:
  - contract/assess.go: consumes a decoded draft
  - api/drafts.go: HTTP surface
*/
package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/warp/wage-engine/labor"
)

// =============================================================================
// STEPS
// =============================================================================

// Step names one page of the contract wizard.
type Step string

const (
	StepPeriod    Step = "period"
	StepSchedule  Step = "schedule"
	StepWage      Step = "wage"
	StepProbation Step = "probation"
)

// Steps lists the wizard pages in order.
var Steps = []Step{StepPeriod, StepSchedule, StepWage, StepProbation}

func (s Step) Valid() bool {
	for _, step := range Steps {
		if s == step {
			return true
		}
	}
	return false
}

// ParseStep validates a step name from a URL or flag.
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if !step.Valid() {
		return "", &labor.FieldError{Field: "step", Message: fmt.Sprintf("unknown step %q", s)}
	}
	return step, nil
}

// =============================================================================
// RECORDS
// =============================================================================

// StepDraft is the staged payload of one step.
type StepDraft struct {
	SessionID string          `json:"session_id"`
	Step      Step            `json:"step"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSessionID returns a fresh wizard session identifier.
func NewSessionID() string { return uuid.NewString() }

// ValidSessionID reports whether s is a session id this package issued.
func ValidSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// =============================================================================
// STORE
// =============================================================================

// Store persists step drafts. Load returns labor.ErrDraftNotFound for a step
// that was never saved or whose session expired.
type Store interface {
	Save(ctx context.Context, d StepDraft) error
	Load(ctx context.Context, sessionID string, step Step) (StepDraft, error)
	// List returns the saved steps of a session in wizard order.
	List(ctx context.Context, sessionID string) ([]StepDraft, error)
	Delete(ctx context.Context, sessionID string) error
}

// stepIndex orders drafts the way the wizard shows them.
func stepIndex(s Step) int {
	for i, step := range Steps {
		if s == step {
			return i
		}
	}
	return len(Steps)
}

// SortSteps orders drafts in wizard order. Backends that cannot sort in their
// query language call it before returning from List.
func SortSteps(ds []StepDraft) {
	sort.SliceStable(ds, func(i, j int) bool { return stepIndex(ds[i].Step) < stepIndex(ds[j].Step) })
}
