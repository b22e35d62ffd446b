package tool

import "fmt"

// Result is the outcome of one tool call: either text for the model or a
// diagnostic the model should correct.
type Result struct {
	Text       string
	Diagnostic string
	failed     bool
}

func Ok(text string) Result { return Result{Text: text} }

func Fail(diagnostic string) Result { return Result{Diagnostic: diagnostic, failed: true} }

func Failf(format string, args ...any) Result { return Fail(fmt.Sprintf(format, args...)) }

func (r Result) Failed() bool { return r.failed }

// Content renders the result as tool message content.
func (r Result) Content() string {
	if r.failed {
		return fmt.Sprintf("Error: %s\n please fix your mistakes.", r.Diagnostic)
	}
	return r.Text
}
