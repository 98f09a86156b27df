package ingest

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"coolpc/internal/model"
	"coolpc/internal/observability"
	"coolpc/internal/parser"
)

const DefaultWorkers = 4

// SnapshotStore is satisfied by *repository.ProductRepository.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, sourceURL string, categories []model.Category) (uuid.UUID, error)
}

// Marker is satisfied by *repository.RawRepository.
type Marker interface {
	MarkParsed(id string) error
}

// RunWorkers parses stored documents concurrently and saves one snapshot per
// document. A document is marked parsed only after its snapshot is saved.
// It returns how many documents succeeded.
func RunWorkers(
	ctx context.Context,
	docs []model.RawDocument,
	p *parser.Parser,
	store SnapshotStore,
	marker Marker,
	workers int,
) int {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if p == nil {
		p = parser.New()
	}

	jobs := make(chan model.RawDocument)
	var (
		wg sync.WaitGroup
		ok atomic.Int64
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				if process(ctx, d, p, store, marker) {
					ok.Add(1)
				}
			}
		}()
	}

	for _, d := range docs {
		if ctx.Err() != nil {
			break
		}
		jobs <- d
	}
	close(jobs)
	wg.Wait()

	return int(ok.Load())
}

func process(ctx context.Context, d model.RawDocument, p *parser.Parser, store SnapshotStore, marker Marker) bool {
	categories := p.Parse(d.Content)
	observability.RecordParse(categories)

	id, err := store.SaveSnapshot(ctx, d.SourceURL, categories)
	if err != nil {
		log.Printf("[Ingest] snapshot for document %s failed: %v", d.ID, err)
		return false
	}
	if err := marker.MarkParsed(d.ID); err != nil {
		log.Printf("[Ingest] mark document %s parsed failed: %v", d.ID, err)
		return false
	}
	log.Printf("[Ingest] document %s -> snapshot %s (%d categories)", d.ID, id, len(categories))
	return true
}
