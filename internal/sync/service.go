// Package sync implements the offline-first synchronization engine: a durable
// queue of pending mutations, last-write-wins conflict resolution, and a full
// reconciliation pass between the local store and the remote collection.
package sync

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nzaccagnino/notesync/internal/api"
	"github.com/nzaccagnino/notesync/internal/db"
)

// Service is the sync orchestrator. It is the only surface the UI layer
// talks to: every mutation goes through the local store and the pending
// operation queue, and is pushed remotely when the endpoint is reachable.
//
// The service holds no state of its own; every call reloads what it needs
// from the store, so concurrent triggers stay safe.
type Service struct {
	store  *db.DB
	client *api.Client
	logger *log.Logger
}

// New creates a sync service. If logger is nil, a default logger writing to
// stderr is used.
func New(store *db.DB, client *api.Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Service{
		store:  store,
		client: client,
		logger: logger,
	}
}

// Online reports whether the remote endpoint is currently reachable.
func (s *Service) Online() bool {
	return s.client.Online()
}

// CreateNote stores a new note locally, queues a create operation, and pushes
// immediately when online. The returned note reflects the post-push state.
func (s *Service) CreateNote(title, content string) (*db.LocalNote, error) {
	if err := validateNote(title, content); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := db.LocalNote{
		LocalID:    uuid.NewString(),
		UserID:     s.client.UserID(),
		Title:      title,
		Content:    content,
		CreatedAt:  now,
		ModifiedAt: now,
		SyncStatus: db.SyncStatusPending,
		Version:    1,
	}
	if err := s.store.PutNote(note); err != nil {
		return nil, err
	}

	op := db.PendingOperation{
		ID:      uuid.NewString(),
		Type:    db.OpCreate,
		LocalID: note.LocalID,
		Create: &db.CreatePayload{
			UserID:  note.UserID,
			Title:   note.Title,
			Content: note.Content,
		},
		Timestamp: now,
	}
	if err := s.store.AddOperation(op); err != nil {
		return nil, err
	}

	s.drainIfOnline()

	latest, err := s.store.GetNote(note.LocalID)
	if err != nil || latest == nil {
		return &note, err
	}
	return latest, nil
}

// UpdateNote applies new field values to a local note, queues an update for
// the remote copy if one exists, and pushes immediately when online.
func (s *Service) UpdateNote(localID, title, content string) (*db.LocalNote, error) {
	if err := validateNote(title, content); err != nil {
		return nil, err
	}

	note, err := s.store.GetNote(localID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	now := time.Now().UTC()
	note.Title = title
	note.Content = content
	note.ModifiedAt = now
	note.SyncStatus = db.SyncStatusPending
	note.Version++
	if err := s.store.PutNote(*note); err != nil {
		return nil, err
	}

	// Notes without a remote id are covered by their still-queued create,
	// whose replay re-reads the latest field values.
	if note.RemoteID != "" {
		op := db.PendingOperation{
			ID:       uuid.NewString(),
			Type:     db.OpUpdate,
			RemoteID: note.RemoteID,
			LocalID:  localID,
			Update: &db.UpdatePayload{
				Title:      title,
				Content:    content,
				ModifiedAt: now,
			},
			Timestamp: now,
		}
		if err := s.store.AddOperation(op); err != nil {
			return nil, err
		}
	}

	s.drainIfOnline()

	latest, err := s.store.GetNote(localID)
	if err != nil || latest == nil {
		return note, err
	}
	return latest, nil
}

// DeleteNote removes a note locally and queues a remote delete if the note
// was ever pushed. Deleting an unknown local id is a no-op.
func (s *Service) DeleteNote(localID string) error {
	note, err := s.store.GetNote(localID)
	if err != nil {
		return err
	}
	if note == nil {
		return nil
	}

	if note.RemoteID != "" {
		op := db.PendingOperation{
			ID:        uuid.NewString(),
			Type:      db.OpDelete,
			RemoteID:  note.RemoteID,
			LocalID:   localID,
			Timestamp: time.Now().UTC(),
		}
		if err := s.store.AddOperation(op); err != nil {
			return err
		}
	}

	if err := s.store.DeleteNote(localID); err != nil {
		return err
	}

	// Queued creates and updates for this note are moot once it is gone.
	ops, err := s.store.OperationsByLocalID(localID)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if op.Type != db.OpDelete {
			if err := s.store.RemoveOperation(op.ID); err != nil {
				return err
			}
		}
	}

	s.drainIfOnline()
	return nil
}

// GetNotes returns all local notes, newest created first.
func (s *Service) GetNotes() ([]db.LocalNote, error) {
	return s.store.ListNotes()
}

// GetNote returns one local note, or nil if absent.
func (s *Service) GetNote(localID string) (*db.LocalNote, error) {
	return s.store.GetNote(localID)
}

// PendingCount returns the number of queued operations.
func (s *Service) PendingCount() (int, error) {
	return s.store.CountOperations()
}

// LastSyncTime returns when the last full sync completed, or the zero time.
func (s *Service) LastSyncTime() (time.Time, error) {
	return s.store.LastSyncTime()
}

func (s *Service) drainIfOnline() {
	if !s.client.Online() {
		return
	}
	if _, err := s.DrainQueue(); err != nil {
		s.logger.Printf("queue drain failed: %v", err)
	}
}

// SyncResult summarizes one full sync pass. A failed pass reports the cause
// in Error; callers inspect the result rather than an error return.
type SyncResult struct {
	Success   bool
	Synced    int
	Failed    int
	Conflicts int
	Error     string
}

// FullSync reconciles the entire remote collection with the local store:
// drain the queue first so remote state reflects the freshest local intent,
// then merge remote records in, then prune local copies of notes deleted
// remotely. Each note write is atomic; the pass as a whole is best-effort
// and resumable, since a later sync re-derives the same decisions from
// durable state.
func (s *Service) FullSync() SyncResult {
	var result SyncResult
	if err := s.fullSync(&result); err != nil {
		s.logger.Printf("full sync failed: %v", err)
		result.Success = false
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

func (s *Service) fullSync(result *SyncResult) error {
	drain, err := s.DrainQueue()
	if err != nil {
		return err
	}
	result.Failed += drain.Failed

	remoteNotes, err := s.client.ListNotes()
	if err != nil {
		return err
	}
	localNotes, err := s.store.ListNotes()
	if err != nil {
		return err
	}

	remoteByID := make(map[string]api.Note, len(remoteNotes))
	for _, rn := range remoteNotes {
		remoteByID[rn.ID] = rn
	}
	localByRemoteID := make(map[string]db.LocalNote)
	for _, ln := range localNotes {
		if ln.RemoteID != "" {
			localByRemoteID[ln.RemoteID] = ln
		}
	}

	upserts := make([]db.LocalNote, 0, len(remoteNotes))
	for _, rn := range remoteNotes {
		ln, ok := localByRemoteID[rn.ID]
		switch {
		case !ok:
			// Unknown remote note. Before inserting, check whether an
			// unsynced, id-less local note has the same text: that is most
			// likely our own note pushed by a racing drain, so adopt the
			// remote identity onto it instead of creating a duplicate.
			// Best effort only; two genuinely distinct notes with identical
			// text will be merged.
			merged := remoteToLocal(rn, db.SyncStatusSynced)
			if dup := findUnsyncedTwin(localNotes, rn); dup != nil {
				merged.LocalID = dup.LocalID
			}
			upserts = append(upserts, merged)
			result.Synced++

		case ln.SyncStatus == db.SyncStatusSynced:
			// No local edit in flight: remote is canonical.
			merged := remoteToLocal(rn, db.SyncStatusSynced)
			merged.LocalID = ln.LocalID
			upserts = append(upserts, merged)
			result.Synced++

		default:
			// Both sides changed since the last sync: last write wins.
			upserts = append(upserts, Resolve(ln, rn))
			result.Conflicts++
		}
	}
	// One transaction for the whole merge, so a reader never observes a
	// half-applied pass.
	if err := s.store.PutNotes(upserts); err != nil {
		return err
	}

	// Prune local copies of notes deleted remotely. Only synced notes are
	// removed: a pending local edit is never discarded this way, even if the
	// remote copy is gone.
	for _, ln := range localNotes {
		if ln.RemoteID == "" || ln.SyncStatus != db.SyncStatusSynced {
			continue
		}
		if _, ok := remoteByID[ln.RemoteID]; !ok {
			if err := s.store.DeleteNote(ln.LocalID); err != nil {
				return err
			}
		}
	}

	return s.store.SetLastSyncTime(time.Now())
}

func findUnsyncedTwin(localNotes []db.LocalNote, remote api.Note) *db.LocalNote {
	for i := range localNotes {
		ln := &localNotes[i]
		if ln.RemoteID == "" && ln.Title == remote.Title && ln.Content == remote.Content {
			return ln
		}
	}
	return nil
}
