// Package decompose implements goal decomposition strategies: a deterministic
// keyword heuristic and an LLM-backed decomposer built on model.Model.
package decompose

import (
	"context"
	"strings"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/tool"
)

// Heuristic decomposes goals by keyword matching on the lowercased goal text.
// It is deterministic and never fails.
type Heuristic struct{}

// NewHeuristic returns the keyword heuristic.
func NewHeuristic() Heuristic { return Heuristic{} }

// Decompose implements tool.Decomposer.
func (Heuristic) Decompose(_ context.Context, goal string) ([]core.Topic, error) {
	return Topics(goal), nil
}

func newTopic(topic string, ct core.ContentType) core.Topic { return core.Topic{Topic: topic, Type: ct} }

// Topics returns the heuristic decomposition of goal.
func Topics(goal string) []core.Topic {
	g := strings.ToLower(goal)
	advanced := strings.Contains(g, "advanced")

	switch {
	case strings.Contains(g, "python"):
		return []core.Topic{
			newTopic("Python Variables and Types", core.ContentTypeVideo),
			newTopic("Basic Control Flow (If/Else)", core.ContentTypeArticle),
			newTopic("Writing Your First Function", core.ContentTypeQuiz),
		}
	case strings.Contains(g, "javascript") && advanced:
		return []core.Topic{
			newTopic("JavaScript Design Patterns and Modules", core.ContentTypeArticle),
			newTopic("Advanced Reactivity and State Management", core.ContentTypeVideo),
			newTopic("Deep Dive into the Event Loop", core.ContentTypeQuiz),
		}
	case strings.Contains(g, "javascript"):
		return []core.Topic{
			newTopic("JavaScript Variables and Data Types", core.ContentTypeArticle),
			newTopic("DOM Manipulation Basics", core.ContentTypeVideo),
			newTopic("Asynchronous JavaScript (Promises)", core.ContentTypeQuiz),
		}
	case isDSA(g) && advanced:
		return []core.Topic{
			newTopic("Advanced Dynamic Programming", core.ContentTypeArticle),
			newTopic("Graph Algorithms (e.g., Dijkstra's, A*)", core.ContentTypeVideo),
			newTopic("Complex Tree Structures (e.g., Red-Black Trees)", core.ContentTypeQuiz),
		}
	case isDSA(g):
		return []core.Topic{
			newTopic("Introduction to Arrays and Linked Lists", core.ContentTypeVideo),
			newTopic("Sorting Algorithms (e.g., Merge Sort, Quick Sort)", core.ContentTypeArticle),
			newTopic("Understanding Stacks and Queues", core.ContentTypeQuiz),
		}
	case strings.Contains(g, "cloud"):
		return []core.Topic{
			newTopic("Cloud Computing Fundamentals (IaaS, PaaS, SaaS)", core.ContentTypeVideo),
			newTopic("Introduction to AWS EC2 and S3", core.ContentTypeArticle),
			newTopic("Basic Networking Concepts in the Cloud", core.ContentTypeQuiz),
		}
	default:
		return []core.Topic{
			newTopic("General Programming Principles", core.ContentTypeVideo),
			newTopic("Problem Solving and Pseudocode", core.ContentTypeArticle),
			newTopic("Debugging Fundamentals", core.ContentTypeQuiz),
		}
	}
}

func isDSA(g string) bool {
	return strings.Contains(g, "dsa") || strings.Contains(g, "data structures") || strings.Contains(g, "algorithms")
}

var _ tool.Decomposer = Heuristic{}
