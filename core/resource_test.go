package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContentType(t *testing.T) {
	assert.Equal(t, ContentTypeVideo, ParseContentType(" video "))
	assert.Equal(t, ContentTypeQuiz, ParseContentType("QUIZ"))
	assert.Equal(t, ContentType("Podcast"), ParseContentType("Podcast"))
	assert.False(t, ParseContentType("Podcast").Known())
	assert.True(t, ContentTypeArticle.Known())
}

func TestResource_WithScoreCopies(t *testing.T) {
	r := Resource{Title: "t"}
	scored := r.WithScore(4.5)

	assert.False(t, r.HasScore())
	assert.True(t, scored.HasScore())
	assert.Equal(t, 4.5, *scored.Score)
}
