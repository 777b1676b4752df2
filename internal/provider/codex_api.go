package provider

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// CodexAPIAdapter talks to the OpenAI chat completions endpoint directly
// instead of going through the codex CLI.
type CodexAPIAdapter struct {
	baseURL string
	creds   Credentials
}

func NewCodexAPIAdapter(baseURL string, creds Credentials) *CodexAPIAdapter {
	return &CodexAPIAdapter{baseURL: baseURL, creds: creds}
}

func (c *CodexAPIAdapter) ID() ID {
	return Codex
}

func (c *CodexAPIAdapter) ParseCommand(raw string) Command {
	return ParseCommand(raw)
}

func (c *CodexAPIAdapter) Execute(ctx context.Context, cmd Command) Result {
	return c.ExecuteStreaming(ctx, cmd, nil)
}

func (c *CodexAPIAdapter) ExecuteStreaming(ctx context.Context, cmd Command, onChunk func(string)) Result {
	if cmd.Kind == KindCLI {
		if res, ok := codexLocal(cmd.Content, c.creds.Model(Codex)); ok {
			emit(onChunk, res.Output)
			return res
		}
		cmd = Command{Kind: KindPrompt, Content: cmd.Content}
	}

	key := c.creds.APIKey(Codex)
	if key == "" {
		return MissingCredential(Codex)
	}

	clientConfig := openai.DefaultConfig(key)
	if c.baseURL != "" {
		clientConfig.BaseURL = c.baseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	req := openai.ChatCompletionRequest{
		Model: c.creds.Model(Codex),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: cmd.Content},
		},
		Stream: true,
	}
	stream, err := client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return failure("Error from", "Codex API", apiErrorDetail(err), err.Error())
	}
	defer stream.Close()

	var acc strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return failure("Error from", "Codex API", apiErrorDetail(err), err.Error())
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		acc.WriteString(resp.Choices[0].Delta.Content)
		emit(onChunk, acc.String())
	}

	output := strings.TrimSpace(acc.String())
	if output == "" {
		output = "Command executed successfully but no output returned"
	}
	emit(onChunk, output)
	return Result{Success: true, Output: output}
}

func apiErrorDetail(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 401 {
		return "Invalid OpenAI API key. Run /setup to replace it."
	}
	if mentionsAuth(err.Error()) {
		return "Invalid OpenAI API key. Run /setup to replace it."
	}
	return err.Error()
}
