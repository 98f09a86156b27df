package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"coolpc/internal/model"
)

const doc = `<SELECT name=n4><OPTGROUP LABEL="AMD 系列"><OPTION value=1>AMD R5 7500F MPK 含風扇 $4,290</OPTION></OPTGROUP></SELECT>`

type fakeStore struct {
	mu      sync.Mutex
	sources []string
	fail    map[string]bool
}

func (f *fakeStore) SaveSnapshot(_ context.Context, sourceURL string, categories []model.Category) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[sourceURL] {
		return uuid.Nil, errors.New("insert failed")
	}
	f.sources = append(f.sources, sourceURL)
	return uuid.New(), nil
}

type fakeMarker struct {
	mu     sync.Mutex
	marked []string
}

func (f *fakeMarker) MarkParsed(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	return nil
}

func TestRunWorkers(t *testing.T) {
	docs := []model.RawDocument{
		{ID: "a", SourceURL: "http://one", Content: doc},
		{ID: "b", SourceURL: "http://two", Content: doc},
		{ID: "c", SourceURL: "http://three", Content: doc},
	}
	store := &fakeStore{fail: map[string]bool{"http://two": true}}
	marker := &fakeMarker{}

	n := RunWorkers(context.Background(), docs, nil, store, marker, 2)

	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"http://one", "http://three"}, store.sources)
	assert.ElementsMatch(t, []string{"a", "c"}, marker.marked)
}

func TestRunWorkersEmpty(t *testing.T) {
	n := RunWorkers(context.Background(), nil, nil, &fakeStore{}, &fakeMarker{}, 0)
	assert.Equal(t, 0, n)
}

func TestRunWorkersCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	marker := &fakeMarker{}

	n := RunWorkers(ctx, []model.RawDocument{{ID: "a", Content: doc}}, nil, &fakeStore{}, marker, 1)

	assert.Equal(t, 0, n)
	assert.Empty(t, marker.marked)
}
