// Package models defines the domain types for SnapMind.
package models

import "time"

// Category is the fixed classification assigned to a screenshot by the
// analysis oracle. Unknown values normalize to CategoryMisc.
type Category string

const (
	CategoryTechnical   Category = "Technical"
	CategoryShopping    Category = "Shopping"
	CategoryChat        Category = "Chat"
	CategoryInspiration Category = "Inspiration"
	CategoryDocument    Category = "Document"
	CategoryMisc        Category = "Misc"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTechnical,
	CategoryShopping,
	CategoryChat,
	CategoryInspiration,
	CategoryDocument,
	CategoryMisc,
}

// ParseCategory maps free text from the oracle onto the enum.
// Anything unrecognized (including empty) becomes CategoryMisc.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryMisc
}

// Insights is the bundle of actionable items extracted from a screenshot.
// Each list is independently optional; slices are never nil once a record
// passes through the oracle decode boundary.
type Insights struct {
	Links     []string `json:"links"`
	Phones    []string `json:"phones"`
	Addresses []string `json:"addresses"`
}

// Screenshot is one imported image plus everything the oracle extracted
// from it. ID is unique for the lifetime of the catalog; CapturedAt is set
// at creation and never changes.
type Screenshot struct {
	ID         string    `json:"id"`
	ImageRef   string    `json:"image_ref"`
	CapturedAt time.Time `json:"captured_at"`
	Category   Category  `json:"category"`
	Summary    string    `json:"summary"`
	OCRText    string    `json:"ocr_text"`
	ViewCount  int       `json:"view_count"`
	Insights   Insights  `json:"insights"`
	// Embedding is reserved for similarity ranking; absence is always valid.
	Embedding []float64 `json:"embedding,omitempty"`
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry in a record's transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DayGroup is a derived partition of the catalog by calendar day,
// labeled "Today", "Yesterday", or a formatted date. Never persisted.
type DayGroup struct {
	Label string       `json:"label"`
	Items []Screenshot `json:"items"`
}

// MeshNode is a node in the knowledge mesh, one per screenshot.
type MeshNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
}

// MeshLink is a directed edge between two mesh nodes.
type MeshLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
