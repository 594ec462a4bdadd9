package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kennithz884/snapmind/internal/models"
)

// rawAnalysis is the lenient wire shape of an analysis reply. Every field
// is optional; defaults are applied exactly once, here.
type rawAnalysis struct {
	Summary  string `json:"summary"`
	OCRText  string `json:"ocrText"`
	Category string `json:"category"`
	Insights struct {
		Links     []string `json:"links"`
		Phones    []string `json:"phones"`
		Addresses []string `json:"addresses"`
	} `json:"insights"`
}

// decodeAnalysis parses the oracle's JSON reply, tolerating markdown code
// fences and missing fields. Missing category becomes Misc, missing text
// fields become empty strings, missing insight lists become empty slices.
func decodeAnalysis(raw string) (Analysis, error) {
	cleaned := stripFences(raw)

	var r rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return Analysis{}, fmt.Errorf("oracle: malformed analysis reply: %w", err)
	}

	a := Analysis{
		Summary:  r.Summary,
		OCRText:  r.OCRText,
		Category: models.ParseCategory(r.Category),
		Insights: models.Insights{
			Links:     r.Insights.Links,
			Phones:    r.Insights.Phones,
			Addresses: r.Insights.Addresses,
		},
	}
	if a.Insights.Links == nil {
		a.Insights.Links = []string{}
	}
	if a.Insights.Phones == nil {
		a.Insights.Phones = []string{}
	}
	if a.Insights.Addresses == nil {
		a.Insights.Addresses = []string{}
	}
	return a, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, from a model reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.HasPrefix(s, "{") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
