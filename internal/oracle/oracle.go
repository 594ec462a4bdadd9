// Package oracle wraps the external generative model behind three logical
// operations: image analysis, contextual chat, and semantic matching.
// Everything past this boundary treats the model as an opaque
// request/response service.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kennithz884/snapmind/internal/models"
)

// NoMatch is the sentinel Match returns when the oracle found nothing.
const NoMatch = ""

// Analysis is the structured result of analyzing one screenshot. Fields are
// always populated: the decode boundary defaults anything the oracle omits.
type Analysis struct {
	Summary  string
	OCRText  string
	Category models.Category
	Insights models.Insights
}

// Doc is one candidate record in the semantic match corpus.
type Doc struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	OCRText string `json:"text"`
}

// Oracle is the client-side view of the external model. Each call is
// one-shot: no retries, no history carried between calls.
type Oracle interface {
	// Analyze extracts a summary, OCR text, category, and actionable
	// insights from raw image bytes.
	Analyze(ctx context.Context, image []byte, mimeType string) (Analysis, error)
	// Chat answers a free-text question against a fixed text context.
	Chat(ctx context.Context, question, context string) (string, error)
	// Match returns the raw best-match id for the query over the corpus,
	// or NoMatch. Callers must validate the id against the corpus before
	// trusting it.
	Match(ctx context.Context, query string, corpus []Doc) (string, error)
}

// Options configures an oracle provider.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// New builds an oracle client for the named provider ("gemini" or "openai").
func New(provider string, opts Options) (Oracle, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	switch provider {
	case "gemini":
		return newGemini(opts)
	case "openai":
		return newOpenAI(opts), nil
	default:
		return nil, fmt.Errorf("oracle: unknown provider %q", provider)
	}
}

// analyzePrompt is the instruction sent alongside the image bytes.
func analyzePrompt() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return `Analyze this screenshot.
1. Summarize content in 1 sentence.
2. Extract visible text (OCR).
3. Identify category: ` + strings.Join(names, ", ") + `.
4. Extract actionable insights: Links, Phone Numbers, Addresses.
Return as JSON with fields: summary, ocrText, category, insights{links, phones, addresses}.`
}

func chatPrompt(question, context string) string {
	return fmt.Sprintf(`The following is OCR and AI summary of a screenshot: %q.
Based on this, answer the user's question: %q`, context, question)
}

func matchPrompt(query string, corpus []Doc) string {
	encoded, _ := json.Marshal(corpus)
	return fmt.Sprintf(`Given these screenshot summaries: %s.
Which one best matches the query: %q? Return ONLY the ID of the best match or "null".`, encoded, query)
}

// normalizeMatch trims the oracle's raw match reply and maps the null
// sentinel (and surrounding quotes) onto NoMatch.
func normalizeMatch(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return NoMatch
	}
	return s
}
