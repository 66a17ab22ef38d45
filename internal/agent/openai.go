package agent

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAI streams turns through the Chat Completions API or any compatible
// endpoint (OpenRouter, local gateways) set via BaseURL.
type OpenAI struct {
	client openai.Client
	model  string
}

var _ Model = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY env var required for OpenAI access")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("OPENAI_MODEL is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

func (o *OpenAI) Name() string { return "openai:" + o.model }

func (o *OpenAI) Stream(ctx context.Context, turn Turn) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		params := openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(o.model),
			Messages: openAIMessages(turn),
		}
		if len(turn.Tools) > 0 {
			params.Tools = openAITools(turn.Tools)
		}

		stream := o.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		acc := openai.ChatCompletionAccumulator{}
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				if !yield(Chunk{Text: delta}, nil) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield(Chunk{}, fmt.Errorf("openai stream: %w", err))
			return
		}
		if len(acc.Choices) == 0 || len(acc.Choices[0].Message.ToolCalls) == 0 {
			return
		}
		calls := make([]ToolCall, 0, len(acc.Choices[0].Message.ToolCalls))
		for i, tc := range acc.Choices[0].Message.ToolCalls {
			id := tc.ID
			if id == "" {
				id = fmt.Sprintf("call_%d", i+1)
			}
			args := tc.Function.Arguments
			if strings.TrimSpace(args) == "" {
				args = "{}"
			}
			calls = append(calls, ToolCall{ID: id, Name: tc.Function.Name, Args: []byte(args)})
		}
		yield(Chunk{ToolCalls: calls}, nil)
	}
}

func openAIMessages(turn Turn) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turn.History)+1)
	if s := strings.TrimSpace(turn.System); s != "" {
		msgs = append(msgs, openai.SystemMessage(s))
	}
	for _, m := range turn.History {
		switch m.Role {
		case RoleUser:
			msgs = append(msgs, openai.UserMessage(m.Content))
		case RoleAssistant:
			if len(m.ToolCalls) == 0 {
				msgs = append(msgs, openai.AssistantMessage(m.Content))
				continue
			}
			asst := openai.ChatCompletionAssistantMessageParam{}
			if m.Content != "" {
				asst.Content.OfString = openai.String(m.Content)
			}
			for _, tc := range m.ToolCalls {
				args := string(tc.Args)
				if args == "" {
					args = "{}"
				}
				asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: args,
					},
				})
			}
			msgs = append(msgs, openai.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		case RoleTool:
			msgs = append(msgs, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return msgs
}

func openAITools(specs []ToolSpec) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(specs))
	for _, s := range specs {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        s.Name,
				Description: openai.String(s.Description),
				Parameters:  openai.FunctionParameters(s.Parameters),
			},
		})
	}
	return tools
}
