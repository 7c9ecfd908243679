package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nzaccagnino/notesync/internal/api"
	"github.com/nzaccagnino/notesync/internal/db"
)

func localNoteAt(modified time.Time) db.LocalNote {
	return db.LocalNote{
		LocalID:    "local-1",
		RemoteID:   "remote-1",
		UserID:     "test@example.com",
		Title:      "local title",
		Content:    "local content",
		CreatedAt:  modified.Add(-time.Hour),
		ModifiedAt: modified,
		SyncStatus: db.SyncStatusPending,
		Version:    3,
	}
}

func remoteNoteAt(modified time.Time) api.Note {
	return api.Note{
		ID:         "remote-1",
		UserID:     "test@example.com",
		Title:      "remote title",
		Content:    "remote content",
		CreatedAt:  modified.Add(-time.Hour),
		ModifiedAt: modified,
	}
}

func TestResolve_LocalNewerKeepsLocal(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := localNoteAt(base.Add(time.Second))
	remote := remoteNoteAt(base)

	resolved := Resolve(local, remote)

	assert.Equal(t, "local title", resolved.Title)
	assert.Equal(t, "local content", resolved.Content)
	assert.Equal(t, db.SyncStatusPending, resolved.SyncStatus)
	assert.Equal(t, "local-1", resolved.LocalID)
	assert.True(t, resolved.ModifiedAt.Equal(local.ModifiedAt))
}

func TestResolve_RemoteNewerAdoptsRemote(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := localNoteAt(base)
	remote := remoteNoteAt(base.Add(time.Second))

	resolved := Resolve(local, remote)

	assert.Equal(t, "remote title", resolved.Title)
	assert.Equal(t, "remote content", resolved.Content)
	assert.Equal(t, db.SyncStatusSynced, resolved.SyncStatus)
	assert.Equal(t, "local-1", resolved.LocalID, "local id survives a remote win")
	assert.True(t, resolved.ModifiedAt.Equal(remote.ModifiedAt))
}

func TestResolve_TieFavorsRemote(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	resolved := Resolve(localNoteAt(base), remoteNoteAt(base))

	assert.Equal(t, "remote title", resolved.Title)
	assert.Equal(t, db.SyncStatusSynced, resolved.SyncStatus)
}

func TestResolve_MillisecondResolution(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// A sub-millisecond difference is a tie, so the remote wins.
	resolved := Resolve(localNoteAt(base.Add(500*time.Microsecond)), remoteNoteAt(base))
	assert.Equal(t, db.SyncStatusSynced, resolved.SyncStatus)

	resolved = Resolve(localNoteAt(base.Add(time.Millisecond)), remoteNoteAt(base))
	assert.Equal(t, db.SyncStatusPending, resolved.SyncStatus)
}

func TestResolve_ResultCarriesNewerTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name          string
		local, remote time.Time
	}{
		{"local newer", base.Add(time.Minute), base},
		{"remote newer", base, base.Add(time.Minute)},
		{"far apart", base, base.Add(24 * time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolved := Resolve(localNoteAt(tc.local), remoteNoteAt(tc.remote))
			newer := tc.local
			if tc.remote.After(newer) {
				newer = tc.remote
			}
			assert.True(t, resolved.ModifiedAt.Equal(newer))
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := localNoteAt(base.Add(time.Second))
	remote := remoteNoteAt(base)

	first := Resolve(local, remote)
	second := Resolve(local, remote)
	assert.Equal(t, first, second)
}
