package agent

import (
	"context"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/tool"
	"github.com/hupe1980/edumesh/tool/decompose"
)

const (
	// UnknownGoal replaces a goal that is missing from the session.
	UnknownGoal = "Unknown Goal"
	// SkillBeginner is the baseline skill level.
	SkillBeginner = "Beginner"
	// PlannerUnexpectedContent is the error message for foreign payloads.
	PlannerUnexpectedContent = "Planner received unexpected message content."
)

// SkillAssessor derives the learner's skill level when a path is assembled.
type SkillAssessor interface {
	AssessSkillLevel(ctx context.Context, goal string, path []core.Resource) string
}

// SkillAssessorFunc adapts a function to the SkillAssessor interface.
type SkillAssessorFunc func(ctx context.Context, goal string, path []core.Resource) string

// AssessSkillLevel implements SkillAssessor.
func (f SkillAssessorFunc) AssessSkillLevel(ctx context.Context, goal string, path []core.Resource) string {
	return f(ctx, goal, path)
}

// ConstantSkill always reports the same level.
type ConstantSkill string

// AssessSkillLevel implements SkillAssessor.
func (c ConstantSkill) AssessSkillLevel(context.Context, string, []core.Resource) string {
	return string(c)
}

// PlannerOptions configure the Planner.
type PlannerOptions struct {
	SkillAssessor SkillAssessor
}

// Planner turns a goal into topics for the Worker and, once the Evaluator
// answered, assembles the validated resources into the terminal learning path.
type Planner struct {
	BaseAgent
	decomposer tool.Decomposer
	fallback   tool.Decomposer
	opts       PlannerOptions
}

// NewPlanner creates a Planner. A nil decomposer means the keyword heuristic.
func NewPlanner(decomposer tool.Decomposer, optFns ...func(o *PlannerOptions)) *Planner {
	opts := PlannerOptions{SkillAssessor: ConstantSkill(SkillBeginner)}
	for _, fn := range optFns {
		fn(&opts)
	}
	heuristic := decompose.NewHeuristic()
	if decomposer == nil {
		decomposer = heuristic
	}
	p := &Planner{
		BaseAgent:  NewBaseAgent(core.PlannerName, "planner"),
		decomposer: decomposer,
		fallback:   heuristic,
		opts:       opts,
	}
	p.SetDescription("Breaks a learning goal into sequential topics and assembles the validated learning path.")
	return p
}

// Handle implements core.Agent.
func (p *Planner) Handle(rc *core.RunContext, env core.Envelope) (core.Envelope, error) {
	switch c := env.Content.(type) {
	case core.GoalSubmission:
		return p.plan(rc, c.UserInput)
	case core.ValidatedBatch:
		return p.assemble(rc, c.Resources)
	default:
		return p.reject(rc, env, PlannerUnexpectedContent)
	}
}

func (p *Planner) plan(rc *core.RunContext, goal string) (core.Envelope, error) {
	topics, err := p.decomposer.Decompose(rc.Context, goal)
	if err != nil || len(topics) == 0 {
		rc.LogWarn("decomposition failed, using heuristic", "agent", p.Name(), "error", err)
		topics, _ = p.fallback.Decompose(rc.Context, goal)
	}

	if err := rc.ApplyStateDelta(map[string]any{core.StateKeyGoal: goal}); err != nil {
		rc.LogWarn("failed to persist goal", "agent", p.Name(), "session_id", rc.SessionID, "error", err)
	}

	rc.LogInfo("goal decomposed", "agent", p.Name(), "topics", len(topics))
	return rc.NewEnvelope(p.Name(), core.WorkerName, core.NewTopicList(topics))
}

func (p *Planner) assemble(rc *core.RunContext, validated []core.Resource) (core.Envelope, error) {
	goal := rc.GetStringState(core.StateKeyGoal, UnknownGoal)
	if goal == UnknownGoal {
		rc.LogWarn("goal missing from session", "agent", p.Name(), "session_id", rc.SessionID)
	}

	level := p.opts.SkillAssessor.AssessSkillLevel(rc.Context, goal, validated)
	if err := rc.ApplyStateDelta(map[string]any{core.StateKeySkillLevel: level}); err != nil {
		rc.LogWarn("failed to persist skill level", "agent", p.Name(), "session_id", rc.SessionID, "error", err)
	}

	rc.LogInfo("learning path assembled", "agent", p.Name(), "resources", len(validated), "skill_level", level)
	return rc.Terminal(p.Name(), core.NewLearningPath(goal, validated))
}

var _ core.Agent = (*Planner)(nil)
