// Package importer implements the batch import policy: analyze each image
// independently, skip per-item failures, and commit all successes to the
// catalog as a single batch. Partial batch success is the normal case.
package importer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kennithz884/snapmind/internal/catalog"
	"github.com/kennithz884/snapmind/internal/library"
	"github.com/kennithz884/snapmind/internal/models"
	"github.com/kennithz884/snapmind/internal/oracle"
)

// Image is one raw item in an import batch.
type Image struct {
	Name string
	Data []byte
}

// Result reports the outcome of one batch.
type Result struct {
	Inserted []models.Screenshot
	Skipped  int
}

// Importer coordinates library storage, oracle extraction, and catalog
// insertion for import batches.
type Importer struct {
	store  catalog.Store
	files  library.Provider
	oracle oracle.Oracle
	logger *slog.Logger

	// maxInFlight bounds concurrent oracle calls within one batch.
	maxInFlight int

	// now is injectable for tests.
	now func() time.Time
}

// New creates an Importer. maxInFlight values below 1 are clamped to 1
// (sequential processing).
func New(store catalog.Store, files library.Provider, o oracle.Oracle, logger *slog.Logger, maxInFlight int) *Importer {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Importer{
		store:       store,
		files:       files,
		oracle:      o,
		logger:      logger,
		maxInFlight: maxInFlight,
		now:         time.Now,
	}
}

// Import processes every image in the batch and inserts the successes into
// the catalog in one final step. A failed extraction skips that one image;
// it never aborts siblings and never surfaces as a batch error. The only
// error returned is a failure of the final catalog insertion.
func (im *Importer) Import(ctx context.Context, batch []Image) (Result, error) {
	if len(batch) == 0 {
		return Result{}, nil
	}

	// results is indexed by batch position so successes keep the
	// caller-supplied order regardless of completion order.
	results := make([]*models.Screenshot, len(batch))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(im.maxInFlight)

	for i, img := range batch {
		g.Go(func() error {
			rec := im.processOne(gCtx, img)
			results[i] = rec
			return nil
		})
	}
	// Workers never return errors; partial failure is handled per item.
	_ = g.Wait()

	out := Result{}
	for _, r := range results {
		if r == nil {
			out.Skipped++
			continue
		}
		out.Inserted = append(out.Inserted, *r)
	}

	// Store insertion is the single serialized step for the whole batch.
	if err := im.store.InsertMany(out.Inserted); err != nil {
		return Result{}, err
	}
	return out, nil
}

// processOne saves the image bytes and runs extraction. Returns nil when
// the item must be skipped.
func (im *Importer) processOne(ctx context.Context, img Image) *models.Screenshot {
	ref, err := im.files.Save(img.Name, img.Data)
	if err != nil {
		im.logger.Warn("import: save failed",
			slog.String("name", img.Name),
			slog.String("error", err.Error()))
		return nil
	}

	analysis, err := im.oracle.Analyze(ctx, img.Data, library.MIMEType(img.Name))
	if err != nil {
		// One attempt per image, no retries; the user re-imports to retry.
		im.logger.Warn("import: extraction failed",
			slog.String("name", img.Name),
			slog.String("error", err.Error()))
		return nil
	}

	return &models.Screenshot{
		ID:         uuid.NewString(),
		ImageRef:   ref,
		CapturedAt: im.now(),
		Category:   analysis.Category,
		Summary:    analysis.Summary,
		OCRText:    analysis.OCRText,
		Insights:   analysis.Insights,
	}
}
