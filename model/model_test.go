package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateText_NonStreaming(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("hi", "hello there")

	text, _, err := GenerateText(context.Background(), m, NewUserRequest("be nice", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "be nice", calls[0].Instructions)
}

func TestGenerateText_StreamingConcatenatesPartials(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("hi", "abc")

	req := NewUserRequest("", "hi")
	req.Stream = true

	text, _, err := GenerateText(context.Background(), m, req)
	require.NoError(t, err)
	assert.Equal(t, "abc", text)
}

func TestGenerateText_PropagatesErrors(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.SetError(errors.New("quota exceeded"))

	_, _, err := GenerateText(context.Background(), m, NewUserRequest("", "hi"))
	assert.EqualError(t, err, "quota exceeded")

	_, _, err = GenerateText(context.Background(), NewMockModel("m", "p"), Request{})
	assert.Error(t, err)
}
