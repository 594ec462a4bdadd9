package catalog

import (
	"os"
	"testing"
	"time"

	"github.com/kennithz884/snapmind/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "snapmind-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func record(id string, capturedAt time.Time) models.Screenshot {
	return models.Screenshot{
		ID:         id,
		ImageRef:   id + ".png",
		CapturedAt: capturedAt,
		Category:   models.CategoryTechnical,
		Summary:    "summary for " + id,
		OCRText:    "ocr for " + id,
		Insights:   models.Insights{Links: []string{}, Phones: []string{}, Addresses: []string{}},
	}
}

func TestInsertManyAndByID(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	batch := []models.Screenshot{record("a", now), record("b", now.Add(-time.Hour))}
	if err := db.InsertMany(batch); err != nil {
		t.Fatalf("InsertMany: %v", err)
	}

	got, err := db.ByID("a")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got == nil {
		t.Fatal("ByID returned nil for existing record")
	}
	if got.Summary != "summary for a" || got.Category != models.CategoryTechnical {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if !got.CapturedAt.Equal(now) {
		t.Errorf("captured_at = %v, want %v", got.CapturedAt, now)
	}
}

func TestByID_MissIsNotAnError(t *testing.T) {
	db := testDB(t)
	got, err := db.ByID("ghost")
	if err != nil {
		t.Fatalf("ByID miss should not error: %v", err)
	}
	if got != nil {
		t.Errorf("ByID miss = %+v, want nil", got)
	}
}

func TestAll_NewestFirst(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()
	_ = db.InsertMany([]models.Screenshot{
		record("old", now.Add(-48*time.Hour)),
		record("new", now),
		record("mid", now.Add(-24*time.Hour)),
	})

	all, err := db.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if all[i].ID != want {
			t.Errorf("all[%d] = %q, want %q", i, all[i].ID, want)
		}
	}
}

func TestInsertMany_EmptyBatch(t *testing.T) {
	db := testDB(t)
	if err := db.InsertMany(nil); err != nil {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}
	n, _ := db.Count()
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestCorpusProjection(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()
	_ = db.InsertMany([]models.Screenshot{record("x", now), record("y", now.Add(-time.Minute))})

	corpus, err := db.Corpus()
	if err != nil {
		t.Fatalf("Corpus: %v", err)
	}
	if len(corpus) != 2 {
		t.Fatalf("corpus len = %d, want 2", len(corpus))
	}
	if corpus[0].ID != "x" || corpus[0].Summary != "summary for x" || corpus[0].OCRText != "ocr for x" {
		t.Errorf("corpus[0] = %+v", corpus[0])
	}
}

func TestIncrementViews(t *testing.T) {
	db := testDB(t)
	_ = db.InsertMany([]models.Screenshot{record("v", time.Now().UTC())})

	for i := 0; i < 3; i++ {
		if err := db.IncrementViews("v"); err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
	}
	got, _ := db.ByID("v")
	if got.ViewCount != 3 {
		t.Errorf("view_count = %d, want 3", got.ViewCount)
	}

	// Missing id is a silent no-op.
	if err := db.IncrementViews("nope"); err != nil {
		t.Errorf("IncrementViews on missing id should not error: %v", err)
	}
}

func TestInsightsRoundTrip(t *testing.T) {
	db := testDB(t)
	r := record("ins", time.Now().UTC())
	r.Insights = models.Insights{
		Links:     []string{"react.dev", "go.dev"},
		Phones:    []string{"+1 555 0100"},
		Addresses: []string{},
	}
	_ = db.InsertMany([]models.Screenshot{r})

	got, _ := db.ByID("ins")
	if len(got.Insights.Links) != 2 || got.Insights.Links[0] != "react.dev" {
		t.Errorf("links = %v", got.Insights.Links)
	}
	if len(got.Insights.Phones) != 1 {
		t.Errorf("phones = %v", got.Insights.Phones)
	}
	if got.Insights.Addresses == nil {
		t.Error("addresses should be an empty slice, not nil")
	}
}
