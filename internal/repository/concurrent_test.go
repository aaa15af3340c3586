package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/atest/internal/db"
)

// newFileTestDB opens a file-backed database so every pooled connection
// shares state, which :memory: does not.
func newFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// Two editor processes may touch the state store at the same time.
func TestConcurrentTouch(t *testing.T) {
	repo := NewSQLiteRecentDocumentRepo(newFileTestDB(t))
	ctx := context.Background()

	const workers = 8
	const perWorker = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				path := fmt.Sprintf("plan-%d.xml", i)
				if err := repo.Touch(ctx, path, "xml", time.Now()); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, perWorker)
	total := 0
	for _, d := range all {
		total += d.OpenCount
	}
	assert.Equal(t, workers*perWorker, total)
}
