package sync

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nzaccagnino/notesync/internal/api"
	"github.com/nzaccagnino/notesync/internal/db"
	"github.com/nzaccagnino/notesync/internal/server"
)

const (
	testKey  = "test-key"
	testUser = "test@example.com"
)

// fixture wires a real store and the dev record server behind a toggleable
// connectivity switch, so tests can take the client offline and back.
type fixture struct {
	store   *db.DB
	remote  *server.Server
	client  *api.Client
	service *Service
	offline atomic.Bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{}

	store, err := db.New(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	f.store = store

	f.remote = server.New(testKey)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.offline.Load() {
			http.Error(w, "offline", http.StatusServiceUnavailable)
			return
		}
		f.remote.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	f.client = api.NewClient(ts.URL, testKey, testUser)
	f.service = New(store, f.client, log.New(io.Discard, "", 0))
	return f
}

func (f *fixture) setOffline(offline bool) {
	f.offline.Store(offline)
}

func (f *fixture) mustPendingCount(t *testing.T, want int) {
	t.Helper()
	count, err := f.service.PendingCount()
	require.NoError(t, err)
	require.Equal(t, want, count)
}

func (f *fixture) seedRemote(id, title, content string, modified time.Time) server.Note {
	n := server.Note{
		ID:         id,
		UserID:     testUser,
		Title:      title,
		Content:    content,
		CreatedAt:  modified.Add(-time.Hour),
		ModifiedAt: modified,
	}
	f.remote.Seed(n)
	return n
}

func (f *fixture) seedLocal(t *testing.T, localID, remoteID, title, content string, status db.SyncStatus, modified time.Time) db.LocalNote {
	t.Helper()
	n := db.LocalNote{
		LocalID:    localID,
		RemoteID:   remoteID,
		UserID:     testUser,
		Title:      title,
		Content:    content,
		CreatedAt:  modified.Add(-time.Hour),
		ModifiedAt: modified,
		SyncStatus: status,
		Version:    1,
	}
	require.NoError(t, f.store.PutNote(n))
	return n
}
