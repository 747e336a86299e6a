package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContent_DispatchesOnKeys(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		kind ContentKind
	}{
		{"goal", map[string]any{KeyUserInput: "learn python"}, KindGoalSubmission},
		{"topics", map[string]any{KeyTopics: []any{map[string]any{"topic": "x", "type": "video"}}}, KindTopicList},
		{"resources", map[string]any{KeyResources: []any{}}, KindResourceBatch},
		{"validated", map[string]any{KeyValidatedResources: []Resource{{Title: "t"}}}, KindValidatedBatch},
		{"path", map[string]any{KeyMainGoal: "g", KeyValidatedPath: []any{}}, KindLearningPath},
		{"error wins", map[string]any{KeyError: "boom", KeyUserInput: "x"}, KindError},
		{"other", map[string]any{"foo": "bar"}, KindUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := DecodeContent(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, c.Kind())
		})
	}
}

func TestDecodeContent_NormalizesTopicTypes(t *testing.T) {
	c, err := DecodeContent(map[string]any{KeyTopics: []any{
		map[string]any{"topic": "Loops", "type": "quiz"},
	}})
	require.NoError(t, err)

	tl, ok := c.(TopicList)
	require.True(t, ok)
	assert.Equal(t, []Topic{{Topic: "Loops", Type: ContentTypeQuiz}}, tl.Topics)
}

func TestDecodeContent_Rejects(t *testing.T) {
	_, err := DecodeContent(map[string]any{})
	assert.True(t, errors.Is(err, ErrInvalidContent))

	_, err = DecodeContent(map[string]any{KeyUserInput: 42})
	assert.True(t, errors.Is(err, ErrInvalidContent))

	_, err = DecodeContent(map[string]any{KeyTopics: "not a list"})
	assert.True(t, errors.Is(err, ErrInvalidContent))
}

func TestEncodeContent_EmptyListsStayLists(t *testing.T) {
	m := EncodeContent(NewLearningPath("Unknown Goal", nil))
	assert.Equal(t, "Unknown Goal", m[KeyMainGoal])
	assert.Equal(t, []Resource{}, m[KeyValidatedPath])

	assert.Nil(t, EncodeContent(nil))
}

func TestEnvelope_JSONRoundTrip(t *testing.T) {
	score := 4.5
	env := Envelope{
		Sender:    EvaluatorName,
		Recipient: PlannerName,
		TaskID:    "Evaluator_Planner_3",
		SessionID: "s1",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Content: NewValidatedBatch([]Resource{{
			Topic: "Loops", Title: "The Ultimate Guide to Loops Part 1", Type: ContentTypeVideo, Score: &score,
		}}),
	}

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"validated_resources"`)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, env.TaskID, decoded.TaskID)
	assert.True(t, env.Timestamp.Equal(decoded.Timestamp))

	batch, ok := decoded.Content.(ValidatedBatch)
	require.True(t, ok)
	require.Len(t, batch.Resources, 1)
	require.NotNil(t, batch.Resources[0].Score)
	assert.Equal(t, 4.5, *batch.Resources[0].Score)
}

func TestContentConstructors_CopyInput(t *testing.T) {
	topics := []Topic{{Topic: "a", Type: ContentTypeVideo}}
	tl := NewTopicList(topics)
	topics[0].Topic = "changed"
	assert.Equal(t, "a", tl.Topics[0].Topic)

	score := 5.0
	resources := []Resource{{Title: "t", Score: &score}}
	batch := NewValidatedBatch(resources)
	*resources[0].Score = 1.0
	assert.Equal(t, 5.0, *batch.Resources[0].Score)
}

func TestIsError(t *testing.T) {
	assert.True(t, IsError(ErrorPayload{Message: "x"}))
	assert.False(t, IsError(NewLearningPath("g", nil)))
}
