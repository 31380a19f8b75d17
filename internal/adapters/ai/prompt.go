package ai

import "strings"

// Prompt is one question for the model.
type Prompt struct {
	// Text is the user content sent to the model.
	Text string
	// Instruction is the system instruction. Empty selects the client default.
	Instruction string
}

// Result is what the caller gets back. StatusCode is 200 on success, in
// which case Details holds the answer. Otherwise Details describes the error.
type Result struct {
	StatusCode int
	Details    string
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.StatusCode == 200 }

// BuildPrompt joins the prompt with the non-empty context fields, one per
// line, in the given order.
func BuildPrompt(prompt string, context ...string) string {
	parts := make([]string, 0, len(context)+1)
	parts = append(parts, prompt)
	for _, c := range context {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n")
}
