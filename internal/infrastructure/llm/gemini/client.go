// Package gemini adapts the hosted Gemini API to the model-facing ports:
// structured analysis generation, chat continuation over a replayed
// history, and OCR for image uploads.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nyayalens/nyayalens/internal/core/domain"
	"github.com/nyayalens/nyayalens/internal/infrastructure/resilience"
	"github.com/nyayalens/nyayalens/internal/observability/metrics"
)

const ocrInstruction = "Transcribe all text visible in this image verbatim. " +
	"Return only the transcribed text, with no commentary."

type Client struct {
	api      *genai.Client
	model    string
	executor *resilience.Executor
	pipeline *metrics.Pipeline
}

func New(ctx context.Context, apiKey, model string, executor *resilience.Executor, pipeline *metrics.Pipeline) (*Client, error) {
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		api:      api,
		model:    model,
		executor: executor,
		pipeline: pipeline,
	}, nil
}

// GenerateAnalysis sends the composed analysis prompt and asks for a JSON
// body back. Any transport or API failure surfaces as ErrModelUnavailable;
// whether the body actually parses is the orchestrator's concern.
func (c *Client) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	text, err := c.generate(ctx, "gemini.generate_analysis", genai.Text(prompt), config)
	if err != nil {
		return "", domain.WrapError(domain.ErrModelUnavailable, "generate analysis", err)
	}
	return text, nil
}

// Chat replays the accumulated conversation in order and returns the next
// model turn as plain text.
func (c *Client) Chat(ctx context.Context, turns []domain.ConversationTurn) (string, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		contents = append(contents, genai.NewContentFromText(turn.Text, roleFor(turn.Role)))
	}

	text, err := c.generate(ctx, "gemini.chat", contents, nil)
	if err != nil {
		return "", domain.WrapError(domain.ErrModelUnavailable, "chat completion", err)
	}
	return text, nil
}

// ReadImageText performs OCR by sending the image inline with a transcribe
// instruction. Errors are returned unwrapped; the extraction adapter owns
// the failure kind for image uploads.
func (c *Client) ReadImageText(ctx context.Context, data []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(ocrInstruction),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	return c.generate(ctx, "gemini.read_image_text", contents, nil)
}

func (c *Client) generate(
	ctx context.Context,
	operation string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (string, error) {
	var response *genai.GenerateContentResponse

	call := func(ctx context.Context) error {
		resp, err := c.api.Models.GenerateContent(ctx, c.model, contents, config)
		if err != nil {
			return fmt.Errorf("gemini generate content: %w", err)
		}
		response = resp
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyGeminiError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}

	c.recordUsage(operation, response)

	text := strings.TrimSpace(response.Text())
	if text == "" {
		return "", fmt.Errorf("gemini %s: empty model reply", operation)
	}
	return text, nil
}

func (c *Client) recordUsage(operation string, response *genai.GenerateContentResponse) {
	if response == nil || response.UsageMetadata == nil {
		return
	}
	c.pipeline.RecordTokenUsage(
		operation,
		int(response.UsageMetadata.PromptTokenCount),
		int(response.UsageMetadata.CandidatesTokenCount),
	)
}

func roleFor(role domain.ConversationRole) genai.Role {
	if role == domain.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
