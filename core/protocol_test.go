package core

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocol_CreateDerivesTaskID(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	p := NewProtocol().WithClock(func() time.Time { return fixed })

	env, err := p.Create(OrchestratorName, PlannerName, GoalSubmission{UserInput: "learn go"}, "s1", "")
	require.NoError(t, err)

	assert.Equal(t, OrchestratorName, env.Sender)
	assert.Equal(t, PlannerName, env.Recipient)
	assert.Equal(t, "s1", env.SessionID)
	assert.Equal(t, "MainAgent_Planner_1", env.TaskID)
	assert.Equal(t, fixed.UTC(), env.Timestamp)
	assert.Equal(t, KindGoalSubmission, env.Kind())
}

func TestProtocol_CreatePropagatesTaskID(t *testing.T) {
	p := NewProtocol()

	env, err := p.Create(WorkerName, EvaluatorName, NewResourceBatch(nil), "s1", "Planner_Worker_7")
	require.NoError(t, err)
	assert.Equal(t, "Planner_Worker_7", env.TaskID)
}

func TestProtocol_CreateValidation(t *testing.T) {
	p := NewProtocol()

	tests := []struct {
		name                        string
		sender, recipient, session string
		content                     Content
	}{
		{"missing sender", "", PlannerName, "s1", GoalSubmission{}},
		{"blank recipient", OrchestratorName, "  ", "s1", GoalSubmission{}},
		{"missing session", OrchestratorName, PlannerName, "", GoalSubmission{}},
		{"nil content", OrchestratorName, PlannerName, "s1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Create(tt.sender, tt.recipient, tt.content, tt.session, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidEnvelope))
		})
	}
}

func TestProtocol_TaskIDsUniqueUnderConcurrency(t *testing.T) {
	p := NewProtocol()
	const n = 200

	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- p.NextTaskID(PlannerName, WorkerName)
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate task id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestProtocol_ZeroValueUsable(t *testing.T) {
	var p Protocol
	env, err := p.Create(PlannerName, WorkerName, NewTopicList(nil), "s1", "")
	require.NoError(t, err)
	assert.False(t, env.Timestamp.IsZero())
}
