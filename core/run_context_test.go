package core_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/logging"
	"github.com/hupe1980/edumesh/session"
)

func TestRunContext_EnvelopeHelpers(t *testing.T) {
	rc := core.NewRunContext(context.Background(), "s1", "r1", nil, session.NewInMemoryStore(), nil)

	env, err := rc.NewEnvelope(core.PlannerName, core.WorkerName, core.NewTopicList(nil))
	require.NoError(t, err)
	assert.Equal(t, "s1", env.SessionID)
	assert.Equal(t, "Planner_Worker_1", env.TaskID)

	fwd, err := rc.Forward(core.WorkerName, core.EvaluatorName, core.NewResourceBatch(nil), env.TaskID)
	require.NoError(t, err)
	assert.Equal(t, env.TaskID, fwd.TaskID)

	fresh, err := rc.Forward(core.WorkerName, core.EvaluatorName, core.NewResourceBatch(nil), "")
	require.NoError(t, err)
	assert.Equal(t, "Worker_Evaluator_2", fresh.TaskID)
}

func TestRunContext_State(t *testing.T) {
	rc := core.NewRunContext(context.Background(), "s1", "r1", nil, session.NewInMemoryStore(), nil)

	assert.Equal(t, "Unknown Goal", rc.GetStringState(core.StateKeyGoal, "Unknown Goal"))

	require.NoError(t, rc.ApplyStateDelta(map[string]any{core.StateKeyGoal: "learn go"}))
	assert.Equal(t, "learn go", rc.GetStringState(core.StateKeyGoal, "Unknown Goal"))

	require.NoError(t, rc.ApplyStateDelta(map[string]any{"n": 3}))
	assert.Equal(t, "x", rc.GetStringState("n", "x"))
}

func TestRunContext_WithoutStore(t *testing.T) {
	rc := core.NewRunContext(context.Background(), "s1", "r1", nil, nil, nil)

	_, ok := rc.GetState(core.StateKeyGoal)
	assert.False(t, ok)
	assert.Error(t, rc.ApplyStateDelta(map[string]any{"a": 1}))
}

func TestRunContext_Terminal(t *testing.T) {
	rc := core.NewRunContext(context.Background(), "s1", "r1", nil, nil, nil)

	env, err := rc.Terminal(core.PlannerName, core.ErrorPayload{Message: "x"})
	require.NoError(t, err)
	assert.True(t, env.IsTerminal(core.OrchestratorName))

	rc.Orchestrator = "Coordinator"
	env, err = rc.Terminal(core.PlannerName, core.ErrorPayload{Message: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Coordinator", env.Recipient)
}

func TestRunContext_LoggerCarriesIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	rc := core.NewRunContext(context.Background(), "s1", "r1", nil, nil, logger)
	rc.LogInfo("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "k=v")
	assert.Contains(t, out, "session_id=s1")
	assert.Contains(t, out, "run_id=r1")

	buf.Reset()
	mesh := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "text", Output: &buf})
	rc = core.NewRunContext(context.Background(), "s2", "r2", nil, nil, mesh)
	rc.LogDebug("hello")
	assert.Contains(t, buf.String(), "s2")
	assert.Contains(t, buf.String(), "r2")
}
