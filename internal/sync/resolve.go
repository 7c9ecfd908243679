package sync

import (
	"github.com/nzaccagnino/notesync/internal/api"
	"github.com/nzaccagnino/notesync/internal/db"
)

// remoteToLocal converts a remote note into a local working copy. For notes
// first seen from the remote side, the remote id doubles as the local id.
func remoteToLocal(remote api.Note, status db.SyncStatus) db.LocalNote {
	return db.LocalNote{
		LocalID:    remote.ID,
		RemoteID:   remote.ID,
		UserID:     remote.UserID,
		Title:      remote.Title,
		Content:    remote.Content,
		CreatedAt:  remote.CreatedAt,
		ModifiedAt: remote.ModifiedAt,
		SyncStatus: status,
		Version:    1,
	}
}

// Resolve merges one local and one remote version of the same logical note.
// Whole-record last write wins, compared at millisecond resolution: a strictly
// newer local copy is kept and stays pending (it still needs a push); anything
// else adopts the remote copy wholesale, preserving only the local id. Ties
// favor the remote.
func Resolve(local db.LocalNote, remote api.Note) db.LocalNote {
	if local.ModifiedAt.UnixMilli() > remote.ModifiedAt.UnixMilli() {
		local.SyncStatus = db.SyncStatusPending
		return local
	}

	merged := remoteToLocal(remote, db.SyncStatusSynced)
	merged.LocalID = local.LocalID
	return merged
}
