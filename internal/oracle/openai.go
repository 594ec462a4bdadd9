package oracle

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kennithz884/snapmind/internal/apperr"
)

// openAI talks to the OpenAI chat completion API, the alternate provider.
type openAI struct {
	opts   Options
	client *openai.Client
}

func newOpenAI(opts Options) *openAI {
	return &openAI{opts: opts, client: openai.NewClient(opts.APIKey)}
}

func (o *openAI) Analyze(ctx context.Context, image []byte, mimeType string) (Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	req := openai.ChatCompletionRequest{
		Model: o.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: analyzePrompt(),
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	rsp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Analysis{}, fmt.Errorf("oracle: analyze: %w: %w", apperr.ErrExtraction, err)
	}
	text, err := choiceText(rsp)
	if err != nil {
		return Analysis{}, err
	}
	return decodeAnalysis(text)
}

func (o *openAI) Chat(ctx context.Context, question, docContext string) (string, error) {
	text, err := o.complete(ctx, chatPrompt(question, docContext))
	if err != nil {
		return "", fmt.Errorf("oracle: chat: %w: %w", apperr.ErrChat, err)
	}
	return text, nil
}

func (o *openAI) Match(ctx context.Context, query string, corpus []Doc) (string, error) {
	text, err := o.complete(ctx, matchPrompt(query, corpus))
	if err != nil {
		return NoMatch, fmt.Errorf("oracle: match: %w", err)
	}
	return normalizeMatch(text), nil
}

func (o *openAI) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	rsp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	return choiceText(rsp)
}

func choiceText(rsp openai.ChatCompletionResponse) (string, error) {
	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", errors.New("oracle: empty model response")
	}
	return rsp.Choices[0].Message.Content, nil
}
