package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"coolpc/internal/model"
)

func newRawRepository(t *testing.T) *RawRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo := &RawRepository{DB: db}
	require.NoError(t, repo.EnsureSchema())
	return repo
}

const sourceURL = "https://www.coolpc.com.tw/evaluate.php"

func TestRawRepositorySave(t *testing.T) {
	repo := newRawRepository(t)

	first := &model.RawDocument{SourceURL: sourceURL, Content: "<SELECT name=n4></SELECT>", FetchedAt: 100}
	require.NoError(t, repo.Save(first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, Checksum(first.Content), first.Checksum)

	t.Run("identical content refreshes the existing row", func(t *testing.T) {
		again := &model.RawDocument{SourceURL: sourceURL, Content: first.Content, FetchedAt: 200}
		require.NoError(t, repo.Save(again))

		assert.Equal(t, first.ID, again.ID)
		var count int
		require.NoError(t, repo.DB.QueryRow(`SELECT COUNT(*) FROM coolpc_raw_document`).Scan(&count))
		assert.Equal(t, 1, count)

		latest, err := repo.Latest(sourceURL)
		require.NoError(t, err)
		assert.Equal(t, int64(200), latest.FetchedAt)
	})

	t.Run("new content is a new row", func(t *testing.T) {
		changed := &model.RawDocument{SourceURL: sourceURL, Content: "<SELECT name=n6></SELECT>", FetchedAt: 300}
		require.NoError(t, repo.Save(changed))

		assert.NotEqual(t, first.ID, changed.ID)
		latest, err := repo.Latest(sourceURL)
		require.NoError(t, err)
		assert.Equal(t, changed.Content, latest.Content)
	})
}

func TestRawRepositoryLatestNotFound(t *testing.T) {
	repo := newRawRepository(t)

	_, err := repo.Latest(sourceURL)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRawRepositoryPending(t *testing.T) {
	repo := newRawRepository(t)
	a := &model.RawDocument{SourceURL: sourceURL, Content: "a", FetchedAt: 2}
	b := &model.RawDocument{SourceURL: sourceURL, Content: "b", FetchedAt: 1}
	require.NoError(t, repo.Save(a))
	require.NoError(t, repo.Save(b))

	pending, err := repo.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "b", pending[0].Content)

	require.NoError(t, repo.MarkParsed(b.ID))

	pending, err = repo.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)
}
