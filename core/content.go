package core

import "maps"

// ContentKind discriminates the Content variants.
type ContentKind string

const (
	KindGoalSubmission ContentKind = "goal_submission"
	KindTopicList      ContentKind = "topic_list"
	KindResourceBatch  ContentKind = "resource_batch"
	KindValidatedBatch ContentKind = "validated_batch"
	KindLearningPath   ContentKind = "learning_path"
	KindError          ContentKind = "error"
	KindUnrecognized   ContentKind = "unrecognized"
)

// Payload keys of the canonical keyed mapping (see EncodeContent).
const (
	KeyUserInput          = "user_input"
	KeyTopics             = "topics"
	KeyResources          = "resources"
	KeyValidatedResources = "validated_resources"
	KeyMainGoal           = "main_goal"
	KeyValidatedPath      = "validated_path"
	KeyError              = "error"
)

// Content is the payload carried by an Envelope. Concrete variants implement
// the unexported isContent marker enabling a closed set, so agent handlers can
// switch on the concrete type instead of probing keys.
type Content interface {
	Kind() ContentKind
	isContent()
}

// GoalSubmission carries the free-text learning goal submitted by the user.
type GoalSubmission struct {
	UserInput string
}

// Kind implements Content.
func (GoalSubmission) Kind() ContentKind { return KindGoalSubmission }
func (GoalSubmission) isContent()        {}

// TopicList carries the decomposed goal (Planner -> Worker).
type TopicList struct {
	Topics []Topic
}

// NewTopicList returns a TopicList owning a copy of topics.
func NewTopicList(topics []Topic) TopicList { return TopicList{Topics: cloneTopics(topics)} }

// Kind implements Content.
func (TopicList) Kind() ContentKind { return KindTopicList }
func (TopicList) isContent()        {}

// ResourceBatch carries unscored resources (Worker -> Evaluator).
type ResourceBatch struct {
	Resources []Resource
}

// NewResourceBatch returns a ResourceBatch owning a copy of resources.
func NewResourceBatch(resources []Resource) ResourceBatch {
	return ResourceBatch{Resources: cloneResources(resources)}
}

// Kind implements Content.
func (ResourceBatch) Kind() ContentKind { return KindResourceBatch }
func (ResourceBatch) isContent()        {}

// ValidatedBatch carries scored resources that passed evaluation (Evaluator -> Planner).
type ValidatedBatch struct {
	Resources []Resource
}

// NewValidatedBatch returns a ValidatedBatch owning a copy of resources.
func NewValidatedBatch(resources []Resource) ValidatedBatch {
	return ValidatedBatch{Resources: cloneResources(resources)}
}

// Kind implements Content.
func (ValidatedBatch) Kind() ContentKind { return KindValidatedBatch }
func (ValidatedBatch) isContent()        {}

// LearningPath is the successful terminal payload (Planner -> orchestrator).
type LearningPath struct {
	MainGoal      string
	ValidatedPath []Resource
}

// NewLearningPath returns a LearningPath owning a copy of path.
func NewLearningPath(goal string, path []Resource) LearningPath {
	return LearningPath{MainGoal: goal, ValidatedPath: cloneResources(path)}
}

// Kind implements Content.
func (LearningPath) Kind() ContentKind { return KindLearningPath }
func (LearningPath) isContent()        {}

// ErrorPayload is the terminal payload for protocol violations.
type ErrorPayload struct {
	Message string
}

// Kind implements Content.
func (ErrorPayload) Kind() ContentKind { return KindError }
func (ErrorPayload) isContent()        {}

// UnrecognizedContent preserves a keyed payload that matches none of the known
// shapes. Agents answer it with an ErrorPayload.
type UnrecognizedContent struct {
	Fields map[string]any
}

// NewUnrecognizedContent returns an UnrecognizedContent owning a shallow copy of fields.
func NewUnrecognizedContent(fields map[string]any) UnrecognizedContent {
	return UnrecognizedContent{Fields: maps.Clone(fields)}
}

// Kind implements Content.
func (UnrecognizedContent) Kind() ContentKind { return KindUnrecognized }
func (UnrecognizedContent) isContent()        {}

// IsError reports whether c is an ErrorPayload.
func IsError(c Content) bool {
	_, ok := c.(ErrorPayload)
	return ok
}
