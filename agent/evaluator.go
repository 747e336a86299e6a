package agent

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/edumesh/core"
)

// EvaluatorUnexpectedContent is the error message for foreign payloads.
const EvaluatorUnexpectedContent = "Evaluator received unexpected message content."

// ScoringPolicy is the deterministic quality heuristic of the Evaluator. A
// resource starts at Base and loses points for each failed check.
type ScoringPolicy struct {
	Base float64 `mapstructure:"base" yaml:"base"`

	// RelevancePhrase must appear in the title to avoid RelevancePenalty.
	RelevancePhrase  string  `mapstructure:"relevance_phrase" yaml:"relevance_phrase"`
	RelevancePenalty float64 `mapstructure:"relevance_penalty" yaml:"relevance_penalty"`

	// Resources published before RecencyCutoffYear lose RecencyPenalty.
	RecencyCutoffYear int     `mapstructure:"recency_cutoff_year" yaml:"recency_cutoff_year"`
	RecencyPenalty    float64 `mapstructure:"recency_penalty" yaml:"recency_penalty"`
	// PenalizeUnparsableDate treats dates without a leading 4 digit year as
	// old. The default assumes they are recent.
	PenalizeUnparsableDate bool `mapstructure:"penalize_unparsable_date" yaml:"penalize_unparsable_date"`

	// TypePenalties by content type; types not listed cost nothing.
	TypePenalties map[core.ContentType]float64 `mapstructure:"type_penalties" yaml:"type_penalties"`

	Floor         float64 `mapstructure:"floor" yaml:"floor"`
	PassThreshold float64 `mapstructure:"pass_threshold" yaml:"pass_threshold"`
}

// DefaultScoringPolicy returns the baseline policy.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		Base:              5.0,
		RelevancePhrase:   "Ultimate Guide",
		RelevancePenalty:  0.5,
		RecencyCutoffYear: 2022,
		RecencyPenalty:    1.0,
		TypePenalties:     map[core.ContentType]float64{core.ContentTypeQuiz: 0.5},
		Floor:             1.0,
		PassThreshold:     4.0,
	}
}

// Assessment is the outcome of scoring a single resource.
type Assessment struct {
	Score float64
	// Passed reports Score >= PassThreshold.
	Passed bool
	// Reasons lists the applied penalties.
	Reasons []string
	// DateAnomaly is set when the date carried no parsable year.
	DateAnomaly bool
}

// Assess scores r. The score is clamped to Floor and rounded to one decimal.
func (p ScoringPolicy) Assess(r core.Resource) Assessment {
	var a Assessment
	score := p.Base

	if !strings.Contains(r.Title, p.RelevancePhrase) {
		score -= p.RelevancePenalty
		a.Reasons = append(a.Reasons, fmt.Sprintf("low relevance (-%.1f)", p.RelevancePenalty))
	}

	year, ok := ParseYear(r.Date)
	switch {
	case !ok:
		a.DateAnomaly = true
		if p.PenalizeUnparsableDate {
			score -= p.RecencyPenalty
			a.Reasons = append(a.Reasons, fmt.Sprintf("unknown date %q (-%.1f)", r.Date, p.RecencyPenalty))
		}
	case year < p.RecencyCutoffYear:
		score -= p.RecencyPenalty
		a.Reasons = append(a.Reasons, fmt.Sprintf("published %d (-%.1f)", year, p.RecencyPenalty))
	}

	if penalty := p.typePenalty(r.Type); penalty != 0 {
		score -= penalty
		a.Reasons = append(a.Reasons, fmt.Sprintf("content type %s (-%.1f)", r.Type, penalty))
	}

	score = math.Max(p.Floor, score)
	a.Score = math.Round(score*10) / 10
	a.Passed = a.Score >= p.PassThreshold
	return a
}

// typePenalty looks ct up ignoring case; config files lowercase map keys.
func (p ScoringPolicy) typePenalty(ct core.ContentType) float64 {
	for k, v := range p.TypePenalties {
		if strings.EqualFold(strings.TrimSpace(string(k)), strings.TrimSpace(string(ct))) {
			return v
		}
	}
	return 0
}

// ParseYear reads a 4 digit year from the first '-' separated segment of date.
func ParseYear(date string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	if len(head) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(head)
	if err != nil || year < 0 {
		return 0, false
	}
	return year, true
}

// EvaluatorOptions configure the Evaluator.
type EvaluatorOptions struct {
	Policy ScoringPolicy
}

// Evaluator scores resources and forwards those that pass to the Planner.
type Evaluator struct {
	BaseAgent
	opts EvaluatorOptions
}

// NewEvaluator creates an Evaluator with DefaultScoringPolicy unless
// overridden.
func NewEvaluator(optFns ...func(o *EvaluatorOptions)) *Evaluator {
	opts := EvaluatorOptions{Policy: DefaultScoringPolicy()}
	for _, fn := range optFns {
		fn(&opts)
	}
	e := &Evaluator{
		BaseAgent: NewBaseAgent(core.EvaluatorName, "evaluator"),
		opts:      opts,
	}
	e.SetDescription("Scores resources for relevance, recency and content type and keeps those that pass.")
	return e
}

// Policy returns the active scoring policy.
func (e *Evaluator) Policy() ScoringPolicy { return e.opts.Policy }

// Handle implements core.Agent.
func (e *Evaluator) Handle(rc *core.RunContext, env core.Envelope) (core.Envelope, error) {
	batch, ok := env.Content.(core.ResourceBatch)
	if !ok {
		return e.reject(rc, env, EvaluatorUnexpectedContent)
	}

	rc.LogInfo("assessing resources", "agent", e.Name(), "resources", len(batch.Resources))

	validated := make([]core.Resource, 0, len(batch.Resources))
	for _, r := range batch.Resources {
		a := e.opts.Policy.Assess(r)
		if a.DateAnomaly {
			rc.LogWarn("resource has invalid date", "agent", e.Name(), "title", r.Title, "date", r.Date)
		}
		if !a.Passed {
			rc.LogWarn("resource rejected", "agent", e.Name(), "title", r.Title, "score", a.Score, "reasons", strings.Join(a.Reasons, "; "))
			continue
		}
		rc.LogInfo("resource validated", "agent", e.Name(), "title", r.Title, "score", a.Score)
		validated = append(validated, r.WithScore(a.Score))
	}

	rc.LogInfo("assessment finished", "agent", e.Name(), "passed", len(validated))
	return rc.NewEnvelope(e.Name(), core.PlannerName, core.NewValidatedBatch(validated))
}

var _ core.Agent = (*Evaluator)(nil)
