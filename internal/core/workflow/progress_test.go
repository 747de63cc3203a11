package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressCompleteAndDoneCount(t *testing.T) {
	p := NewProgress()
	require.Equal(t, PhasePrep, p.Phase)

	p.Complete(KindIngredient, 0, 3)
	p.Complete(KindIngredient, 0, 3) // 重複勾選無效果
	p.Complete(KindIngredient, 2, 3)

	assert.Equal(t, 2, p.DoneCount(KindIngredient))
	assert.Equal(t, 0, p.DoneCount(KindStep))
	assert.Equal(t, PhasePrep, p.Phase)
}

func TestProgressCompleteOutOfRange(t *testing.T) {
	p := NewProgress()

	p.Complete(KindIngredient, -1, 3)
	p.Complete(KindIngredient, 3, 3)
	p.Complete(KindStep, 5, 0)

	assert.Equal(t, 0, p.DoneCount(KindIngredient))
	assert.Equal(t, 0, p.DoneCount(KindStep))
}

func TestProgressAutoAdvanceOnAllIngredients(t *testing.T) {
	p := NewProgress()

	p.Complete(KindIngredient, 0, 2)
	assert.Equal(t, PhasePrep, p.Phase)

	p.Complete(KindIngredient, 1, 2)
	assert.Equal(t, PhaseCook, p.Phase)
}

func TestProgressStepsNeverAutoAdvance(t *testing.T) {
	p := NewProgress()
	p.SetPhase(PhaseCook)

	p.Complete(KindStep, 0, 2)
	p.Complete(KindStep, 1, 2)

	assert.True(t, p.AllDone(KindStep, 2))
	assert.Equal(t, PhaseCook, p.Phase)
}

func TestProgressUndoRemovesHighestIndex(t *testing.T) {
	p := NewProgress()
	p.Complete(KindIngredient, 0, 5)
	p.Complete(KindIngredient, 3, 5)
	p.Complete(KindIngredient, 2, 5)

	// 不是最後勾的 2，而是索引最大的 3
	p.Undo(KindIngredient)
	assert.ElementsMatch(t, []int{0, 2}, p.DoneIndices(KindIngredient))

	p.Undo(KindIngredient)
	assert.ElementsMatch(t, []int{0}, p.DoneIndices(KindIngredient))
}

func TestProgressUndoEmptyIsNoop(t *testing.T) {
	p := NewProgress()
	p.Undo(KindStep)
	assert.Empty(t, p.DoneIndices(KindStep))
}

func TestProgressUndoDoesNotRevertPhase(t *testing.T) {
	p := NewProgress()
	p.Complete(KindIngredient, 0, 1)
	require.Equal(t, PhaseCook, p.Phase)

	p.Undo(KindIngredient)
	assert.Equal(t, PhaseCook, p.Phase)
}

func TestProgressReset(t *testing.T) {
	p := NewProgress()
	p.Complete(KindIngredient, 0, 1)
	p.Complete(KindStep, 0, 2)
	require.Equal(t, PhaseCook, p.Phase)

	p.Reset()

	assert.Equal(t, PhasePrep, p.Phase)
	assert.Equal(t, 0, p.DoneCount(KindIngredient))
	assert.Equal(t, 0, p.DoneCount(KindStep))
}

func TestProgressSetPhase(t *testing.T) {
	p := NewProgress()

	assert.True(t, p.SetPhase(PhaseCook))
	assert.Equal(t, PhaseCook, p.Phase)

	assert.True(t, p.SetPhase(PhasePrep))
	assert.Equal(t, PhasePrep, p.Phase)

	assert.False(t, p.SetPhase(Phase("plating")))
	assert.Equal(t, PhasePrep, p.Phase)
}

func TestProgressAllDoneEmptySet(t *testing.T) {
	p := NewProgress()
	assert.False(t, p.AllDone(KindIngredient, 0))
	assert.False(t, p.AllDone(KindStep, -1))
}

func TestProgressRemainingKeepsOrder(t *testing.T) {
	p := NewProgress()
	p.Complete(KindStep, 1, 4)

	assert.Equal(t, []int{0, 2, 3}, p.Remaining(KindStep, 4))
}
