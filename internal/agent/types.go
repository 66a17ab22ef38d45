// Package agent runs a coordinator and specialist agents on a pluggable
// model provider. Routing is decided by the model through a transfer tool;
// this package only executes the tool calls the model asks for.
package agent

import (
	"context"
	"encoding/json"
	"iter"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

type Message struct {
	Role MessageRole `json:"role"`
	// Agent names the agent that produced an assistant message.
	Agent      string     `json:"agent,omitempty"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
	ToolCallID string     `json:"toolCallId,omitempty"`
	// Name is the tool name on tool messages.
	Name string `json:"name,omitempty"`
}

type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
	// ThoughtSignature is opaque provider state that must be replayed with
	// the call.
	ThoughtSignature []byte `json:"thoughtSignature,omitempty"`
}

// ToolSpec describes a tool to the model. Parameters is a JSON schema object.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Turn is one model invocation.
type Turn struct {
	System  string
	History []Message
	Tools   []ToolSpec
}

// Chunk is a streamed piece of a model reply. Tool calls arrive complete.
type Chunk struct {
	Text      string
	ToolCalls []ToolCall
}

// Model is a provider adapter.
type Model interface {
	Name() string
	Stream(ctx context.Context, turn Turn) iter.Seq2[Chunk, error]
}

// Session identifies a conversation and the student it is about.
type Session struct {
	ID        string
	StudentID string
}

// Runtime produces a streamed reply to prompt within session.
type Runtime interface {
	Generate(ctx context.Context, prompt string, session Session) iter.Seq2[string, error]
}

// Tool is a side-effecting function the model may call.
type Tool interface {
	Spec() ToolSpec
	Call(ctx context.Context, session Session, args json.RawMessage) (string, error)
}

// KindedError is implemented by tool errors that carry a classification.
type KindedError interface {
	error
	ErrorKind() string
}
