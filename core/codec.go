package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

// ErrInvalidContent is returned when a keyed payload cannot be decoded.
var ErrInvalidContent = errors.New("invalid content")

// EncodeContent converts c into its canonical keyed mapping. A nil content
// yields nil.
func EncodeContent(c Content) map[string]any {
	switch v := c.(type) {
	case GoalSubmission:
		return map[string]any{KeyUserInput: v.UserInput}
	case TopicList:
		return map[string]any{KeyTopics: nonNilTopics(v.Topics)}
	case ResourceBatch:
		return map[string]any{KeyResources: nonNilResources(v.Resources)}
	case ValidatedBatch:
		return map[string]any{KeyValidatedResources: nonNilResources(v.Resources)}
	case LearningPath:
		return map[string]any{KeyMainGoal: v.MainGoal, KeyValidatedPath: nonNilResources(v.ValidatedPath)}
	case ErrorPayload:
		return map[string]any{KeyError: v.Message}
	case UnrecognizedContent:
		return maps.Clone(v.Fields)
	default:
		return nil
	}
}

// DecodeContent converts a keyed mapping into the matching Content variant.
// Keys are probed in priority order: error, main_goal, validated_resources,
// resources, topics, user_input. A mapping with none of them decodes to
// UnrecognizedContent. Empty mappings are rejected.
func DecodeContent(m map[string]any) (Content, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidContent)
	}

	if v, ok := m[KeyError]; ok {
		msg, err := decodeString(KeyError, v)
		if err != nil {
			return nil, err
		}
		return ErrorPayload{Message: msg}, nil
	}

	if v, ok := m[KeyMainGoal]; ok {
		goal, err := decodeString(KeyMainGoal, v)
		if err != nil {
			return nil, err
		}
		var path []Resource
		if err := decodeField(KeyValidatedPath, m[KeyValidatedPath], &path); err != nil {
			return nil, err
		}
		return NewLearningPath(goal, path), nil
	}

	if v, ok := m[KeyValidatedResources]; ok {
		var resources []Resource
		if err := decodeField(KeyValidatedResources, v, &resources); err != nil {
			return nil, err
		}
		return NewValidatedBatch(resources), nil
	}

	if v, ok := m[KeyResources]; ok {
		var resources []Resource
		if err := decodeField(KeyResources, v, &resources); err != nil {
			return nil, err
		}
		return NewResourceBatch(resources), nil
	}

	if v, ok := m[KeyTopics]; ok {
		var topics []Topic
		if err := decodeField(KeyTopics, v, &topics); err != nil {
			return nil, err
		}
		for i := range topics {
			topics[i].Type = ParseContentType(string(topics[i].Type))
		}
		return NewTopicList(topics), nil
	}

	if v, ok := m[KeyUserInput]; ok {
		input, err := decodeString(KeyUserInput, v)
		if err != nil {
			return nil, err
		}
		return GoalSubmission{UserInput: input}, nil
	}

	return NewUnrecognizedContent(m), nil
}

// MarshalContent encodes c as a JSON object.
func MarshalContent(c Content) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil content", ErrInvalidContent)
	}
	return json.Marshal(EncodeContent(c))
}

// UnmarshalContent decodes a JSON object into a Content variant.
func UnmarshalContent(data []byte) (Content, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return DecodeContent(m)
}

type envelopeJSON struct {
	Sender    string         `json:"sender"`
	Recipient string         `json:"recipient"`
	TaskID    string         `json:"task_id"`
	SessionID string         `json:"session_id"`
	Timestamp string         `json:"timestamp"`
	Content   map[string]any `json:"content"`
}

// MarshalJSON encodes the envelope with its content in keyed form.
func (e Envelope) MarshalJSON() ([]byte, error) {
	ts, err := e.Timestamp.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelopeJSON{
		Sender:    e.Sender,
		Recipient: e.Recipient,
		TaskID:    e.TaskID,
		SessionID: e.SessionID,
		Timestamp: string(ts),
		Content:   EncodeContent(e.Content),
	})
}

// UnmarshalJSON decodes an envelope produced by MarshalJSON.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw envelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	content, err := DecodeContent(raw.Content)
	if err != nil {
		return err
	}
	out := Envelope{
		Sender:    raw.Sender,
		Recipient: raw.Recipient,
		TaskID:    raw.TaskID,
		SessionID: raw.SessionID,
		Content:   content,
	}
	if raw.Timestamp != "" {
		if err := out.Timestamp.UnmarshalText([]byte(raw.Timestamp)); err != nil {
			return err
		}
	}
	*e = out
	return nil
}

func decodeString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidContent, key, v)
	}
	return s, nil
}

// decodeField converts v into out. Typed slices are assigned directly, generic
// values (as produced by encoding/json) are round-tripped through JSON.
func decodeField(key string, v any, out any) error {
	if v == nil {
		return nil
	}
	switch dst := out.(type) {
	case *[]Topic:
		if typed, ok := v.([]Topic); ok {
			*dst = cloneTopics(typed)
			return nil
		}
	case *[]Resource:
		if typed, ok := v.([]Resource); ok {
			*dst = cloneResources(typed)
			return nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidContent, key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidContent, key, err)
	}
	return nil
}

func nonNilTopics(in []Topic) []Topic {
	if in == nil {
		return []Topic{}
	}
	return cloneTopics(in)
}

func nonNilResources(in []Resource) []Resource {
	if in == nil {
		return []Resource{}
	}
	return cloneResources(in)
}
