package api

import (
	"github.com/kennithz884/snapmind/internal/models"
)

// ChatRequest is the request body for a chat turn on a screenshot.
type ChatRequest struct {
	Question string `json:"question"`
}

// TranscriptResponse wraps the chat transcript for the selected screenshot.
type TranscriptResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

// SearchRequest is the request body for a natural-language search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse carries the best-match screenshot id, or null when
// nothing in the catalog matched.
type SearchResponse struct {
	ID *string `json:"id"`
}

// ImportResponse summarizes a batch import.
type ImportResponse struct {
	Screenshots []models.Screenshot `json:"screenshots"`
	Skipped     int                 `json:"skipped"`
}

// ListResponse wraps a flat screenshot listing.
type ListResponse struct {
	Screenshots []models.Screenshot `json:"screenshots"`
	Total       int                 `json:"total"`
}

// GroupedResponse wraps the day-partitioned listing.
type GroupedResponse struct {
	Groups []models.DayGroup `json:"groups"`
}

// MemoryResponse carries the resurfaced memory card, null for an empty catalog.
type MemoryResponse struct {
	Screenshot *models.Screenshot `json:"screenshot"`
}

// GraphResponse wraps the knowledge mesh.
type GraphResponse struct {
	Nodes []models.MeshNode `json:"nodes"`
	Links []models.MeshLink `json:"links"`
}
