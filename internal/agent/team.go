package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

const (
	TransferToolName = "transfer_to_agent"
	maxToolRounds    = 8
	memoryRecall     = 5
)

// Observer receives per-generation and per-tool outcomes.
type Observer interface {
	ObserveAgentStream(agent, outcome string, d time.Duration)
	ObserveToolCall(tool, outcome string)
}

type noopObserver struct{}

func (noopObserver) ObserveAgentStream(string, string, time.Duration) {}
func (noopObserver) ObserveToolCall(string, string)                   {}

type TeamConfig struct {
	Model    Model
	Sessions SessionStore
	Memory   MemoryBank
	Observer Observer
	Log      *logger.Logger
}

// Team answers every message with its coordinator. When specialists are
// present the coordinator gets a transfer tool; a transfer hands the rest of
// the turn to the chosen specialist.
type Team struct {
	model       Model
	sessions    SessionStore
	memory      MemoryBank
	observer    Observer
	log         *logger.Logger
	coordinator *Agent
	specialists map[string]*Agent
	roster      []string
}

var _ Runtime = (*Team)(nil)

func NewTeam(cfg TeamConfig, coordinator *Agent, specialists ...*Agent) (*Team, error) {
	if cfg.Model == nil {
		return nil, errors.New("agent team requires a model")
	}
	if coordinator == nil {
		return nil, errors.New("agent team requires a coordinator")
	}
	t := &Team{
		model:       cfg.Model,
		sessions:    cfg.Sessions,
		memory:      cfg.Memory,
		observer:    cfg.Observer,
		log:         cfg.Log,
		coordinator: coordinator,
		specialists: map[string]*Agent{},
	}
	if t.sessions == nil {
		t.sessions = NewMemorySessionStore(SessionOptions{})
	}
	if t.observer == nil {
		t.observer = noopObserver{}
	}
	if t.log == nil {
		t.log = logger.Nop()
	}
	t.log = t.log.With("component", "AgentTeam", "coordinator", coordinator.Name)
	for _, s := range specialists {
		if s == nil {
			continue
		}
		if s.Name == coordinator.Name {
			return nil, fmt.Errorf("agent %s cannot be both coordinator and specialist", s.Name)
		}
		if _, dup := t.specialists[s.Name]; dup {
			return nil, fmt.Errorf("duplicate specialist %s", s.Name)
		}
		t.specialists[s.Name] = s
		t.roster = append(t.roster, s.Name)
	}
	return t, nil
}

func (t *Team) Generate(ctx context.Context, prompt string, session Session) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()
		current := t.coordinator
		outcome := "ok"
		defer func() { t.observer.ObserveAgentStream(current.Name, outcome, time.Since(start)) }()

		fail := func(err error) {
			outcome = "error"
			yield("", err)
		}

		history, err := t.sessions.History(ctx, session.ID)
		if err != nil {
			fail(err)
			return
		}
		history = trimHistory(history)
		pending := []Message{{Role: RoleUser, Content: prompt}}

		// Each agent has its own round budget within a turn.
		rounds := map[*Agent]int{}
		for {
			if rounds[current] >= maxToolRounds {
				fail(fmt.Errorf("agent %s exceeded %d tool rounds", current.Name, maxToolRounds))
				return
			}
			rounds[current]++
			turn, err := t.turn(ctx, current, session, slices.Concat(history, pending))
			if err != nil {
				fail(err)
				return
			}

			var (
				text  strings.Builder
				calls []ToolCall
			)
			for chunk, err := range t.model.Stream(ctx, turn) {
				if err != nil {
					fail(fmt.Errorf("%s: %w", current.Name, err))
					return
				}
				if chunk.Text != "" {
					text.WriteString(chunk.Text)
					if !yield(chunk.Text, nil) {
						outcome = "canceled"
						return
					}
				}
				calls = append(calls, chunk.ToolCalls...)
			}
			pending = append(pending, Message{
				Role:      RoleAssistant,
				Agent:     current.Name,
				Content:   text.String(),
				ToolCalls: calls,
			})

			if len(calls) == 0 {
				if err := t.sessions.Append(ctx, session.ID, pending...); err != nil {
					t.log.Warn("Session append failed", "session_id", session.ID, "error", err)
				}
				return
			}

			next := current
			for _, call := range calls {
				result, target := t.dispatch(ctx, current, session, call)
				if target != nil {
					next = target
				}
				pending = append(pending, Message{
					Role:       RoleTool,
					ToolCallID: call.ID,
					Name:       call.Name,
					Content:    result,
				})
			}
			if next != current {
				t.log.Debug("Transferred turn", "from", current.Name, "to", next.Name, "session_id", session.ID)
			}
			current = next
		}
	}
}

func (t *Team) turn(ctx context.Context, a *Agent, session Session, history []Message) (Turn, error) {
	var sys strings.Builder
	sys.WriteString(strings.TrimSpace(a.Instruction))

	if a.Memory && t.memory != nil && session.StudentID != "" {
		notes, err := t.memory.Recent(ctx, session.StudentID, memoryRecall)
		if err != nil {
			t.log.Warn("Memory recall failed", "student_id", session.StudentID, "error", err)
		} else if len(notes) > 0 {
			sys.WriteString("\n\nWhat you remember about this student (oldest first):")
			for _, n := range notes {
				sys.WriteString("\n- ")
				sys.WriteString(n)
			}
		}
	}

	tools := a.toolSpecs()
	if a == t.coordinator && len(t.roster) > 0 {
		sys.WriteString("\n\nSpecialists you can transfer to with " + TransferToolName + ":")
		for _, name := range t.roster {
			sys.WriteString("\n- " + name + ": " + t.specialists[name].Description)
		}
		tools = append(tools, t.transferSpec())
	}
	return Turn{System: sys.String(), History: history, Tools: tools}, nil
}

func (t *Team) transferSpec() ToolSpec {
	return ToolSpec{
		Name:        TransferToolName,
		Description: "Hand the conversation to a specialist agent who will answer the student.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"agent_name": map[string]any{
					"type":        "string",
					"enum":        slices.Clone(t.roster),
					"description": "Specialist to transfer to.",
				},
			},
			"required": []string{"agent_name"},
		},
	}
}

// dispatch runs one tool call and returns its result text, plus the agent to
// hand over to when the call was a transfer.
func (t *Team) dispatch(ctx context.Context, current *Agent, session Session, call ToolCall) (string, *Agent) {
	args := call.Args
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	if call.Name == TransferToolName && current == t.coordinator && len(t.roster) > 0 {
		var in struct {
			AgentName string `json:"agent_name"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			t.observer.ObserveToolCall(call.Name, "invalid_input")
			return toolErrorJSON("arguments must be a JSON object", "invalid_input"), nil
		}
		target, ok := t.specialists[strings.TrimSpace(in.AgentName)]
		if !ok {
			t.observer.ObserveToolCall(call.Name, "invalid_input")
			return toolErrorJSON(fmt.Sprintf("unknown agent %q", in.AgentName), "invalid_input"), nil
		}
		t.observer.ObserveToolCall(call.Name, "ok")
		b, _ := json.Marshal(map[string]string{"transferred_to": target.Name})
		return string(b), target
	}

	tool, ok := current.tools[call.Name]
	if !ok {
		t.observer.ObserveToolCall(call.Name, "unknown_tool")
		return toolErrorJSON(fmt.Sprintf("tool %q is not available to %s", call.Name, current.Name), "invalid_input"), nil
	}
	out, err := tool.Call(ctx, session, args)
	if err != nil {
		kind := "downstream"
		var ke KindedError
		if errors.As(err, &ke) {
			kind = ke.ErrorKind()
		}
		t.observer.ObserveToolCall(call.Name, kind)
		t.log.Warn("Tool call failed", "tool", call.Name, "kind", kind, "session_id", session.ID, "error", err)
		return toolErrorJSON(err.Error(), kind), nil
	}
	t.observer.ObserveToolCall(call.Name, "ok")
	return out, nil
}

func toolErrorJSON(msg, kind string) string {
	b, _ := json.Marshal(map[string]string{"error": msg, "kind": kind})
	return string(b)
}
