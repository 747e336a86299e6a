// Package model defines the provider-agnostic chat model abstraction used by
// the LLM backed capabilities (goal decomposition and summarization).
//
// A Request carries a system prompt, the conversation, an optional
// completion budget and the JSONList hint for replies that must be a bare
// JSON array. Providers (openai, anthropic) translate it into their SDK
// calls; MockModel answers from canned responses for tests.
//
// GenerateText drives a model to completion and is what the capabilities
// call; Generate stays channel based so streaming providers fit the same
// interface.
package model
