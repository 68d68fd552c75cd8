package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestState_CanTransitionTo exercises every (state, requested) pair of the
// lifecycle table
func TestState_CanTransitionTo(t *testing.T) {
	states := []State{StatePending, StateInProgress, StateCompleted}

	allowed := map[State]State{
		StatePending:    StateInProgress,
		StateInProgress: StateCompleted,
	}

	for _, from := range states {
		for _, to := range states {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestState_IsValid(t *testing.T) {
	assert.True(t, StatePending.IsValid())
	assert.True(t, StateInProgress.IsValid())
	assert.True(t, StateCompleted.IsValid())
	assert.False(t, State("cancelled").IsValid())
	assert.False(t, State("").IsValid())
}
