package agent

import (
	"context"
	"iter"
	"strings"
)

// Collect drains a generation into one string.
func Collect(seq iter.Seq2[string, error]) (string, error) {
	var b strings.Builder
	for chunk, err := range seq {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(chunk)
	}
	return b.String(), nil
}

// Runner runs a runtime to completion.
type Runner struct {
	runtime Runtime
}

func NewRunner(rt Runtime) *Runner {
	return &Runner{runtime: rt}
}

func (r *Runner) Run(ctx context.Context, prompt string, session Session) (string, error) {
	return Collect(r.runtime.Generate(ctx, prompt, session))
}

// RunReport runs prompt in the student's report session.
func (r *Runner) RunReport(ctx context.Context, studentID, prompt string) (string, error) {
	return r.Run(ctx, prompt, Session{ID: "report:" + studentID, StudentID: studentID})
}
