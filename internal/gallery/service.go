// Package gallery is the service layer: it coordinates the catalog, the
// oracle clients, the import pipeline, and the view-layer session state.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/kennithz884/snapmind/internal/apperr"
	"github.com/kennithz884/snapmind/internal/catalog"
	"github.com/kennithz884/snapmind/internal/importer"
	"github.com/kennithz884/snapmind/internal/models"
	"github.com/kennithz884/snapmind/internal/oracle"
	"github.com/kennithz884/snapmind/internal/session"
)

// FallbackAssistantMessage is appended to the transcript when the chat
// oracle fails. Chat failures are user-visible but never fatal and never
// clear history.
const FallbackAssistantMessage = "assistant temporarily unavailable"

// emptyAnswerMessage stands in when the oracle returns a blank reply.
const emptyAnswerMessage = "No response."

// Service exposes every gallery operation to the API and MCP layers.
type Service struct {
	store  catalog.Store
	oracle oracle.Oracle
	imp    *importer.Importer
	state  *session.State
	logger *slog.Logger

	// injectable for deterministic tests
	now     func() time.Time
	randIdx func(n int) int
}

// NewService wires a gallery service.
func NewService(store catalog.Store, o oracle.Oracle, imp *importer.Importer, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		oracle:  o,
		imp:     imp,
		state:   session.New(),
		logger:  logger,
		now:     time.Now,
		randIdx: rand.IntN,
	}
}

// State returns the view-layer session state.
func (s *Service) State() *session.State {
	return s.state
}

// Import runs the batch import policy over the given images.
func (s *Service) Import(ctx context.Context, batch []importer.Image) (importer.Result, error) {
	return s.imp.Import(ctx, batch)
}

// All returns every record, newest first.
func (s *Service) All(_ context.Context) ([]models.Screenshot, error) {
	return s.store.All()
}

// Grouped returns the catalog partitioned by calendar day.
func (s *Service) Grouped(_ context.Context) ([]models.DayGroup, error) {
	all, err := s.store.All()
	if err != nil {
		return nil, err
	}
	return catalog.GroupByDay(all, s.now()), nil
}

// Get returns one record by id.
func (s *Service) Get(_ context.Context, id string) (*models.Screenshot, error) {
	rec, err := s.store.ByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.ErrNotFound
	}
	return rec, nil
}

// RecordView bumps the view counter for a record.
func (s *Service) RecordView(_ context.Context, id string) error {
	return s.store.IncrementViews(id)
}

// Search asks the oracle for the best match over the current corpus and
// validates the reply. The returned id is guaranteed to exist in the
// catalog, or it is oracle.NoMatch. An empty catalog short-circuits to
// no-match without an oracle call.
func (s *Service) Search(ctx context.Context, query string) (string, error) {
	corpus, err := s.store.Corpus()
	if err != nil {
		return oracle.NoMatch, err
	}
	if len(corpus) == 0 {
		s.state.SetMatch(oracle.NoMatch)
		return oracle.NoMatch, nil
	}

	docs := make([]oracle.Doc, len(corpus))
	known := make(map[string]struct{}, len(corpus))
	for i, d := range corpus {
		docs[i] = oracle.Doc{ID: d.ID, Summary: d.Summary, OCRText: d.OCRText}
		known[d.ID] = struct{}{}
	}

	raw, err := s.oracle.Match(ctx, query, docs)
	if err != nil {
		s.logger.Warn("search failed", slog.String("query", query), slog.String("error", err.Error()))
		return oracle.NoMatch, fmt.Errorf("%w: %w", apperr.ErrSearch, err)
	}

	// Never trust an id the corpus did not contain.
	if _, ok := known[raw]; !ok {
		raw = oracle.NoMatch
	}
	s.state.SetMatch(raw)
	return raw, nil
}

// Ask runs one contextual chat turn for a record and returns the updated
// transcript. Each oracle call is stateless: only the question and the
// record's text context go upstream, never the transcript. An oracle
// failure appends the fixed fallback message instead of erroring.
func (s *Service) Ask(ctx context.Context, id, question string) ([]models.ChatMessage, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.state.Select(id)
	s.state.AppendMessage(id, models.ChatMessage{Role: models.RoleUser, Content: question})

	docContext := fmt.Sprintf("%s OCR: %s", rec.Summary, rec.OCRText)
	answer, err := s.oracle.Chat(ctx, question, docContext)
	switch {
	case err != nil:
		s.logger.Warn("chat failed", slog.String("id", id), slog.String("error", err.Error()))
		answer = FallbackAssistantMessage
	case answer == "":
		answer = emptyAnswerMessage
	}

	// Discarded when the user has already selected a different record.
	s.state.AppendMessage(id, models.ChatMessage{Role: models.RoleAssistant, Content: answer})
	return s.state.Transcript(id), nil
}

// Transcript returns the current transcript for a record.
func (s *Service) Transcript(_ context.Context, id string) []models.ChatMessage {
	return s.state.Transcript(id)
}

// Memory returns the current resurfaced record, or nil for an empty
// catalog. refresh advances the cursor to a random position first.
func (s *Service) Memory(_ context.Context, refresh bool) (*models.Screenshot, error) {
	all, err := s.store.All()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	if refresh {
		s.state.SetMemoryIdx(s.randIdx(len(all)))
	}
	rec := all[s.state.MemoryIdx()%len(all)]
	return &rec, nil
}

// Graph returns the knowledge mesh: one node per record grouped by
// category, with links chaining records in catalog order.
func (s *Service) Graph(_ context.Context) ([]models.MeshNode, []models.MeshLink, error) {
	all, err := s.store.All()
	if err != nil {
		return nil, nil, err
	}
	nodes := make([]models.MeshNode, len(all))
	for i, r := range all {
		nodes[i] = models.MeshNode{ID: r.ID, Label: string(r.Category), Group: string(r.Category)}
	}
	links := make([]models.MeshLink, 0, max(len(all)-1, 0))
	for i := 0; i+1 < len(all); i++ {
		links = append(links, models.MeshLink{Source: all[i].ID, Target: all[i+1].ID})
	}
	return nodes, links, nil
}
