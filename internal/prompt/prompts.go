// Package prompt holds the system prompts of the reasoning-backed capabilities
// and a small text/template renderer for the per-call user prompts.
package prompt

// PlannerSystem frames goal decomposition.
const PlannerSystem = `You are the Curriculum Designer. Your goal is to take a user's learning goal
and break it down into a sequence of 3-5 logical sub-topics. Prioritize
foundational, beginner-level resources and assume a sequential learning path.`

// Decompose asks for a strictly parsable JSON list of topics.
// Data: goal, min, max.
const Decompose = `The user wants to learn: "{{ .goal }}". Decompose this goal into {{ .min }} to {{ .max }} diverse and sequential sub-topics. For each topic, suggest the best content type from: Video, Article, Quiz. Respond ONLY with a JSON list in the format: [{"topic": "Topic Title", "type": "Content Type"}, ...]. Do not include any other text.`

// WorkerSystem frames resource summarization.
const WorkerSystem = `You are the Resource Processor. You turn the raw text of free, high-quality
educational resources into brief abstracts a learner can skim.`

// Summarize asks for a short abstract of an extracted document.
// Data: text, sentences.
const Summarize = `Summarize the following learning resource in at most {{ .sentences }} sentences. Respond with the summary only.

{{ .text }}`
