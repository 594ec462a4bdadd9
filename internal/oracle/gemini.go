package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/kennithz884/snapmind/internal/apperr"
)

// gemini talks to the Google generative model API.
type gemini struct {
	opts   Options
	client *genai.Client
}

func newGemini(opts Options) (*gemini, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("oracle: gemini client: %w", err)
	}
	return &gemini{opts: opts, client: client}, nil
}

// Close releases the underlying API client.
func (g *gemini) Close() error {
	return g.client.Close()
}

func (g *gemini) Analyze(ctx context.Context, image []byte, mimeType string) (Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.opts.Model)
	model.ResponseMIMEType = "application/json"

	rsp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat(mimeType), image),
		genai.Text(analyzePrompt()),
	)
	if err != nil {
		return Analysis{}, fmt.Errorf("oracle: analyze: %w: %w", apperr.ErrExtraction, err)
	}
	text, err := candidateText(rsp)
	if err != nil {
		return Analysis{}, err
	}
	return decodeAnalysis(text)
}

func (g *gemini) Chat(ctx context.Context, question, docContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.opts.Model)
	rsp, err := model.GenerateContent(ctx, genai.Text(chatPrompt(question, docContext)))
	if err != nil {
		return "", fmt.Errorf("oracle: chat: %w: %w", apperr.ErrChat, err)
	}
	return candidateText(rsp)
}

func (g *gemini) Match(ctx context.Context, query string, corpus []Doc) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.opts.Model)
	rsp, err := model.GenerateContent(ctx, genai.Text(matchPrompt(query, corpus)))
	if err != nil {
		return NoMatch, fmt.Errorf("oracle: match: %w", err)
	}
	text, err := candidateText(rsp)
	if err != nil {
		return NoMatch, err
	}
	return normalizeMatch(text), nil
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(rsp *genai.GenerateContentResponse) (string, error) {
	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("oracle: empty model response")
	}
	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

// imageFormat converts a MIME type to the format tag the genai SDK expects.
func imageFormat(mimeType string) string {
	if f, ok := strings.CutPrefix(mimeType, "image/"); ok {
		return f
	}
	return "jpeg"
}
