package core

import "strings"

// ContentType classifies the medium of a topic or resource.
type ContentType string

const (
	// ContentTypeVideo is a video tutorial or lecture.
	ContentTypeVideo ContentType = "Video"
	// ContentTypeArticle is a written article or documentation page.
	ContentTypeArticle ContentType = "Article"
	// ContentTypeQuiz is an interactive quiz or exercise set.
	ContentTypeQuiz ContentType = "Quiz"
)

// ParseContentType maps s onto one of the known content types ignoring case
// and surrounding whitespace. Unknown values are returned unchanged so that
// they can pass through scoring without a penalty.
func ParseContentType(s string) ContentType {
	trimmed := strings.TrimSpace(s)
	for _, ct := range []ContentType{ContentTypeVideo, ContentTypeArticle, ContentTypeQuiz} {
		if strings.EqualFold(trimmed, string(ct)) {
			return ct
		}
	}
	return ContentType(trimmed)
}

// Known reports whether ct is one of Video, Article or Quiz.
func (ct ContentType) Known() bool {
	switch ct {
	case ContentTypeVideo, ContentTypeArticle, ContentTypeQuiz:
		return true
	default:
		return false
	}
}

// Topic is a single step of a decomposed learning goal.
type Topic struct {
	Topic string      `json:"topic"`
	Type  ContentType `json:"type"`
}

// Resource is a concrete learning resource found for a topic. Score stays nil
// until an evaluator assigns it.
type Resource struct {
	Topic   string      `json:"topic"`
	Title   string      `json:"title"`
	Link    string      `json:"link"`
	Date    string      `json:"date"`
	Type    ContentType `json:"type"`
	Summary string      `json:"summary"`
	Score   *float64    `json:"score,omitempty"`
}

// WithScore returns a copy of r carrying score.
func (r Resource) WithScore(score float64) Resource {
	r.Score = &score
	return r
}

// HasScore reports whether a score has been assigned.
func (r Resource) HasScore() bool { return r.Score != nil }

func cloneTopics(in []Topic) []Topic {
	out := make([]Topic, len(in))
	copy(out, in)
	return out
}

func cloneResources(in []Resource) []Resource {
	out := make([]Resource, len(in))
	for i, r := range in {
		if r.Score != nil {
			s := *r.Score
			r.Score = &s
		}
		out[i] = r
	}
	return out
}
