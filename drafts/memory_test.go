package drafts_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/wage-engine/drafts"
	"github.com/warp/wage-engine/labor"
)

func TestMemory_SaveLoadList(t *testing.T) {
	ctx := context.Background()
	store := drafts.NewMemory()
	session := drafts.NewSessionID()

	// GIVEN: Steps saved out of order, one of them twice
	require.NoError(t, store.Save(ctx, drafts.StepDraft{SessionID: session, Step: drafts.StepWage, Payload: json.RawMessage(`{"amount":"1"}`)}))
	require.NoError(t, store.Save(ctx, drafts.StepDraft{SessionID: session, Step: drafts.StepPeriod, Payload: json.RawMessage(`{}`)}))
	require.NoError(t, store.Save(ctx, drafts.StepDraft{SessionID: session, Step: drafts.StepWage, Payload: json.RawMessage(`{"amount":"2"}`)}))

	// WHEN: Loading and listing
	wage, err := store.Load(ctx, session, drafts.StepWage)
	require.NoError(t, err)
	list, err := store.List(ctx, session)
	require.NoError(t, err)

	// THEN: The last write wins and the list follows wizard order
	assert.JSONEq(t, `{"amount":"2"}`, string(wage.Payload))
	assert.False(t, wage.UpdatedAt.IsZero())
	require.Len(t, list, 2)
	assert.Equal(t, drafts.StepPeriod, list[0].Step)
	assert.Equal(t, drafts.StepWage, list[1].Step)
}

func TestMemory_NotFoundAndDelete(t *testing.T) {
	ctx := context.Background()
	store := drafts.NewMemory()

	_, err := store.Load(ctx, "missing", drafts.StepPeriod)
	assert.ErrorIs(t, err, labor.ErrDraftNotFound)

	require.NoError(t, store.Save(ctx, drafts.StepDraft{SessionID: "s", Step: drafts.StepSchedule, Payload: json.RawMessage(`[]`)}))
	require.NoError(t, store.Delete(ctx, "s"))

	_, err = store.Load(ctx, "s", drafts.StepSchedule)
	assert.ErrorIs(t, err, labor.ErrDraftNotFound)
	list, err := store.List(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestParseStep(t *testing.T) {
	step, err := drafts.ParseStep("probation")
	require.NoError(t, err)
	assert.Equal(t, drafts.StepProbation, step)

	_, err = drafts.ParseStep("payroll")
	assert.True(t, labor.IsClientError(err))
}

func TestSessionID(t *testing.T) {
	assert.True(t, drafts.ValidSessionID(drafts.NewSessionID()))
	assert.False(t, drafts.ValidSessionID("not-a-session"))
}
