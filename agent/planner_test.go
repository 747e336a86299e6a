package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/internal/testutil"
	"github.com/hupe1980/edumesh/tool"
)

func TestPlanner_Decompose(t *testing.T) {
	sb := testutil.NewSessionBuilder("sess-1")
	store := sb.Store()
	rc := core.NewRunContext(context.Background(), "sess-1", "run-1", nil, store, nil)

	p := NewPlanner(nil)
	env := testutil.NewEnvelopeBuilder().Goal("Learn Python for data analysis").Build()

	reply, err := p.Handle(rc, env)
	require.NoError(t, err)
	assert.Equal(t, core.PlannerName, reply.Sender)
	assert.Equal(t, core.WorkerName, reply.Recipient)
	assert.Equal(t, "sess-1", reply.SessionID)

	topics, ok := reply.Content.(core.TopicList)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(topics.Topics), 3)
	assert.LessOrEqual(t, len(topics.Topics), 5)

	sess, ok, err := store.Get("sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	goal, _ := sess.GetState(core.StateKeyGoal)
	assert.Equal(t, "Learn Python for data analysis", goal)
}

func TestPlanner_DecomposerFailureUsesHeuristic(t *testing.T) {
	rc := testutil.NewSessionBuilder("sess-1").RunContext(context.Background())
	failing := tool.DecomposerFunc(func(context.Context, string) ([]core.Topic, error) {
		return nil, errors.New("boom")
	})

	reply, err := NewPlanner(failing).Handle(rc, testutil.NewEnvelopeBuilder().Goal("cloud basics").Build())
	require.NoError(t, err)

	topics := reply.Content.(core.TopicList)
	assert.NotEmpty(t, topics.Topics)
}

func TestPlanner_Assemble(t *testing.T) {
	store := testutil.NewSessionBuilder("sess-1").State(core.StateKeyGoal, "Learn Go").Store()
	rc := core.NewRunContext(context.Background(), "sess-1", "run-1", nil, store, nil)

	validated := []core.Resource{testutil.NewResource("Goroutines").Build().WithScore(5)}
	env := testutil.NewEnvelopeBuilder().From(core.EvaluatorName).Content(core.NewValidatedBatch(validated)).Build()

	reply, err := NewPlanner(nil).Handle(rc, env)
	require.NoError(t, err)
	assert.True(t, reply.IsTerminal(core.OrchestratorName))

	path, ok := reply.Content.(core.LearningPath)
	require.True(t, ok)
	assert.Equal(t, "Learn Go", path.MainGoal)
	assert.Equal(t, validated, path.ValidatedPath)

	sess, _, _ := store.Get("sess-1")
	level, _ := sess.GetState(core.StateKeySkillLevel)
	assert.Equal(t, SkillBeginner, level)
}

func TestPlanner_AssembleWithoutGoal(t *testing.T) {
	rc := testutil.NewSessionBuilder("sess-1").RunContext(context.Background())
	env := testutil.NewEnvelopeBuilder().From(core.EvaluatorName).Content(core.NewValidatedBatch(nil)).Build()

	reply, err := NewPlanner(nil).Handle(rc, env)
	require.NoError(t, err)

	path := reply.Content.(core.LearningPath)
	assert.Equal(t, UnknownGoal, path.MainGoal)
	assert.Empty(t, path.ValidatedPath)
}

func TestPlanner_SkillAssessor(t *testing.T) {
	store := testutil.NewSessionBuilder("sess-1").State(core.StateKeyGoal, "Learn Go").Store()
	rc := core.NewRunContext(context.Background(), "sess-1", "run-1", nil, store, nil)

	p := NewPlanner(nil, func(o *PlannerOptions) {
		o.SkillAssessor = SkillAssessorFunc(func(_ context.Context, goal string, path []core.Resource) string {
			if len(path) > 1 {
				return "Intermediate"
			}
			return SkillBeginner
		})
	})

	batch := core.NewValidatedBatch([]core.Resource{
		testutil.NewResource("a").Build(),
		testutil.NewResource("b").Build(),
	})
	_, err := p.Handle(rc, testutil.NewEnvelopeBuilder().Content(batch).Build())
	require.NoError(t, err)

	sess, _, _ := store.Get("sess-1")
	level, _ := sess.GetState(core.StateKeySkillLevel)
	assert.Equal(t, "Intermediate", level)
}

func TestPlanner_UnexpectedContent(t *testing.T) {
	rc := testutil.NewSessionBuilder("sess-1").RunContext(context.Background())
	p := NewPlanner(nil)

	for name, c := range map[string]core.Content{
		"resource batch": core.NewResourceBatch(nil),
		"unrecognized":   core.NewUnrecognizedContent(map[string]any{"foo": "bar"}),
		"nil":            nil,
	} {
		t.Run(name, func(t *testing.T) {
			reply, err := p.Handle(rc, testutil.NewEnvelopeBuilder().Content(c).Build())
			require.NoError(t, err)
			assert.True(t, reply.IsTerminal(core.OrchestratorName))
			assert.Equal(t, core.ErrorPayload{Message: PlannerUnexpectedContent}, reply.Content)
		})
	}
}
