// Package guardrail inspects generated text after the fact. The prompt
// preambles ask the generator to behave; this package is what actually
// enforces policy. A triggered rule is normal control flow, not an error:
// the turn completes with the substitute text, and the substitute is what
// lands in the transcript.
package guardrail

// Action says what happened to the generated text.
type Action int

const (
	// Pass means the original text goes through untouched.
	Pass Action = iota
	// Rewrite means the text was replaced with a substitution.
	Rewrite
)

// Verdict is the transient outcome of one guardrail check. Nothing about it
// survives the turn except as Text is folded into the transcript.
type Verdict struct {
	Action Action
	Text   string
	Rules  []string
}

func pass(text string) Verdict {
	return Verdict{Action: Pass, Text: text}
}

func rewrite(text string, rules ...string) Verdict {
	return Verdict{Action: Rewrite, Text: text, Rules: rules}
}
