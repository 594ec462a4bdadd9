package importer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/kennithz884/snapmind/internal/models"
	"github.com/kennithz884/snapmind/internal/oracle"
	"github.com/kennithz884/snapmind/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func analysisFor(name string) oracle.Analysis {
	return oracle.Analysis{
		Summary:  "summary of " + name,
		Category: models.CategoryTechnical,
		Insights: models.Insights{Links: []string{}, Phones: []string{}, Addresses: []string{}},
	}
}

func TestImport_AllSucceed(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestLibrary(t)
	fake := &testutil.FakeOracle{
		AnalyzeFn: func(image []byte, _ string) (oracle.Analysis, error) {
			return analysisFor(string(image)), nil
		},
	}
	im := New(db, files, fake, discardLogger(), 2)

	res, err := im.Import(context.Background(), []Image{
		{Name: "a.png", Data: []byte("a")},
		{Name: "b.png", Data: []byte("b")},
		{Name: "c.jpg", Data: []byte("c")},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Inserted) != 3 || res.Skipped != 0 {
		t.Fatalf("inserted=%d skipped=%d, want 3/0", len(res.Inserted), res.Skipped)
	}

	n, _ := db.Count()
	if n != 3 {
		t.Errorf("catalog count = %d, want 3", n)
	}
	for _, r := range res.Inserted {
		if r.ID == "" {
			t.Error("record missing id")
		}
		if r.ImageRef == "" {
			t.Error("record missing image ref")
		}
		got, _ := db.ByID(r.ID)
		if got == nil {
			t.Errorf("inserted record %s not in catalog", r.ID)
		}
	}
}

func TestImport_MiddleItemFails(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestLibrary(t)
	fake := &testutil.FakeOracle{
		AnalyzeFn: func(image []byte, _ string) (oracle.Analysis, error) {
			if string(image) == "two" {
				return oracle.Analysis{}, errors.New("quota exceeded")
			}
			return analysisFor(string(image)), nil
		},
	}
	im := New(db, files, fake, discardLogger(), 1)

	res, err := im.Import(context.Background(), []Image{
		{Name: "1.png", Data: []byte("one")},
		{Name: "2.png", Data: []byte("two")},
		{Name: "3.png", Data: []byte("three")},
	})
	if err != nil {
		t.Fatalf("a single extraction failure must not fail the batch: %v", err)
	}
	if len(res.Inserted) != 2 || res.Skipped != 1 {
		t.Fatalf("inserted=%d skipped=%d, want 2/1", len(res.Inserted), res.Skipped)
	}

	n, _ := db.Count()
	if n != 2 {
		t.Errorf("catalog count = %d, want exactly 2 new records", n)
	}
	for _, r := range res.Inserted {
		if strings.Contains(r.Summary, "two") {
			t.Error("failed item leaked into the catalog")
		}
	}
	if fake.AnalyzeCalls != 3 {
		t.Errorf("analyze calls = %d; the failure must not block later items", fake.AnalyzeCalls)
	}
}

func TestImport_AllFail(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestLibrary(t)
	fake := &testutil.FakeOracle{
		AnalyzeFn: func([]byte, string) (oracle.Analysis, error) {
			return oracle.Analysis{}, errors.New("offline")
		},
	}
	im := New(db, files, fake, discardLogger(), 4)

	res, err := im.Import(context.Background(), []Image{
		{Name: "a.png", Data: []byte("a")},
		{Name: "b.png", Data: []byte("b")},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Inserted) != 0 || res.Skipped != 2 {
		t.Errorf("inserted=%d skipped=%d, want 0/2", len(res.Inserted), res.Skipped)
	}
	n, _ := db.Count()
	if n != 0 {
		t.Errorf("catalog gained %d records from a fully failed batch", n)
	}
}

func TestImport_UnsupportedFileSkipped(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestLibrary(t)
	fake := &testutil.FakeOracle{
		AnalyzeFn: func(image []byte, _ string) (oracle.Analysis, error) {
			return analysisFor(string(image)), nil
		},
	}
	im := New(db, files, fake, discardLogger(), 1)

	res, err := im.Import(context.Background(), []Image{
		{Name: "notes.txt", Data: []byte("not an image")},
		{Name: "ok.png", Data: []byte("ok")},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Inserted) != 1 || res.Skipped != 1 {
		t.Errorf("inserted=%d skipped=%d, want 1/1", len(res.Inserted), res.Skipped)
	}
	if fake.AnalyzeCalls != 1 {
		t.Errorf("analyze should not be called for unsupported files, calls = %d", fake.AnalyzeCalls)
	}
}

func TestImport_EmptyBatch(t *testing.T) {
	db := testutil.TestDB(t)
	_, files := testutil.TestLibrary(t)
	im := New(db, files, &testutil.FakeOracle{}, discardLogger(), 1)

	res, err := im.Import(context.Background(), nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Inserted) != 0 || res.Skipped != 0 {
		t.Errorf("empty batch should be a no-op, got %+v", res)
	}
}
