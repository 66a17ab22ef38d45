package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

type GeminiConfig struct {
	APIKey string
	Model  string
	// Temperature is left to the provider default when nil.
	Temperature *float32
}

// Gemini streams turns through the Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature *float32
}

var _ Model = (*Gemini)(nil)

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY env var required for Gemini access")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, temperature: cfg.Temperature}, nil
}

func (g *Gemini) Name() string { return "gemini:" + g.model }

func (g *Gemini) Stream(ctx context.Context, turn Turn) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		contents, err := geminiContents(turn.History)
		if err != nil {
			yield(Chunk{}, err)
			return
		}
		config := geminiConfig(turn, g.temperature)

		calls := 0
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, config) {
			if err != nil {
				yield(Chunk{}, fmt.Errorf("gemini stream: %w", err))
				return
			}
			if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				continue
			}
			for _, part := range resp.Candidates[0].Content.Parts {
				c, err := geminiChunk(part, &calls)
				if err != nil {
					yield(Chunk{}, err)
					return
				}
				if c.Text == "" && len(c.ToolCalls) == 0 {
					continue
				}
				if !yield(c, nil) {
					return
				}
			}
		}
	}
}

// geminiChunk converts one response part. Thought parts yield an empty
// chunk; calls numbers function calls that arrive without an id.
func geminiChunk(part *genai.Part, calls *int) (Chunk, error) {
	var c Chunk
	if part == nil || part.Thought {
		return c, nil
	}
	c.Text = part.Text
	if fc := part.FunctionCall; fc != nil {
		*calls++
		id := fc.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", *calls)
		}
		args, err := json.Marshal(fc.Args)
		if err != nil {
			return Chunk{}, fmt.Errorf("encode %s args: %w", fc.Name, err)
		}
		c.ToolCalls = []ToolCall{{ID: id, Name: fc.Name, Args: args, ThoughtSignature: part.ThoughtSignature}}
	}
	return c, nil
}

func geminiConfig(turn Turn, temperature *float32) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{Temperature: temperature}
	if s := strings.TrimSpace(turn.System); s != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: s}}}
	}
	if len(turn.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(turn.Tools))
		for _, t := range turn.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:                 t.Name,
				Description:          t.Description,
				ParametersJsonSchema: t.Parameters,
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

// geminiContents maps history onto user/model contents. Consecutive tool
// results are folded into one user content, as Gemini expects.
func geminiContents(history []Message) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case RoleUser:
			out = append(out, &genai.Content{Role: roleUser, Parts: []*genai.Part{{Text: m.Content}}})
		case RoleAssistant:
			parts := make([]*genai.Part, 0, 1+len(m.ToolCalls))
			if m.Content != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				args := map[string]any{}
				if len(tc.Args) > 0 {
					if err := json.Unmarshal(tc.Args, &args); err != nil {
						return nil, fmt.Errorf("decode %s args: %w", tc.Name, err)
					}
				}
				parts = append(parts, &genai.Part{
					FunctionCall:     &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args},
					ThoughtSignature: tc.ThoughtSignature,
				})
			}
			if len(parts) == 0 {
				continue
			}
			out = append(out, &genai.Content{Role: roleModel, Parts: parts})
		case RoleTool:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       m.ToolCallID,
				Name:     m.Name,
				Response: toolResponseMap(m.Content),
			}}
			if n := len(out); n > 0 && out[n-1].Role == roleUser && out[n-1].Parts[0].FunctionResponse != nil {
				out[n-1].Parts = append(out[n-1].Parts, part)
				continue
			}
			out = append(out, &genai.Content{Role: roleUser, Parts: []*genai.Part{part}})
		}
	}
	return out, nil
}

// toolResponseMap wraps a tool's string result as a response object.
func toolResponseMap(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil && obj != nil {
		return obj
	}
	var v any
	if err := json.Unmarshal([]byte(content), &v); err == nil {
		return map[string]any{"output": v}
	}
	return map[string]any{"output": content}
}
