// Package tools implements the functions the agent team may call. Every
// tool acts on the student bound to the session; model-supplied ids are
// never trusted.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/services"
)

type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindDownstream   Kind = "downstream"
	KindUnavailable  Kind = "unavailable"
)

// Error is a classified tool failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorKind() string { return string(e.Kind) }

var _ agent.KindedError = (*Error)(nil)

func invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Err: fmt.Errorf(format, args...)}
}

// downstream classifies a service error. Validation failures are the
// model's fault; everything else is a store or provider failure.
func downstream(err error) error {
	if errors.Is(err, services.ErrValidation) {
		return &Error{Kind: KindInvalidInput, Err: err}
	}
	return &Error{Kind: KindDownstream, Err: err}
}

// ReportRunner produces a teacher-facing report for one student.
type ReportRunner interface {
	RunReport(ctx context.Context, studentID, prompt string) (string, error)
}

// typed adapts a function over a decoded argument struct to agent.Tool.
type typed[A any] struct {
	spec agent.ToolSpec
	fn   func(ctx context.Context, studentID string, args A) (any, error)
}

func newTool[A any](spec agent.ToolSpec, fn func(ctx context.Context, studentID string, args A) (any, error)) agent.Tool {
	return &typed[A]{spec: spec, fn: fn}
}

func (t *typed[A]) Spec() agent.ToolSpec { return t.spec }

func (t *typed[A]) Call(ctx context.Context, session agent.Session, raw json.RawMessage) (string, error) {
	studentID := strings.TrimSpace(session.StudentID)
	if studentID == "" {
		return "", invalid("%s: session is not bound to a student", t.spec.Name)
	}
	var args A
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", invalid("%s: malformed arguments: %v", t.spec.Name, err)
		}
	}
	if v, ok := any(&args).(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return "", invalid("%s: %v", t.spec.Name, err)
		}
	}
	out, err := t.fn(ctx, studentID, args)
	if err != nil {
		return "", err
	}
	if s, ok := out.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", &Error{Kind: KindDownstream, Err: fmt.Errorf("%s: encode result: %w", t.spec.Name, err)}
	}
	return string(b), nil
}

// schema builds a JSON schema object from property definitions.
func schema(props map[string]any, required ...string) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func str(desc string) map[string]any { return map[string]any{"type": "string", "description": desc} }
