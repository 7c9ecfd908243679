package sync

import (
	"errors"
	"fmt"

	"github.com/nzaccagnino/notesync/internal/api"
	"github.com/nzaccagnino/notesync/internal/db"
)

// MaxRetryCount bounds how many consecutive replay failures an operation may
// accumulate before it is abandoned and its note flagged failed.
const MaxRetryCount = 3

// DrainResult summarizes one pass over the pending operation queue.
type DrainResult struct {
	Synced int
	Failed int
}

// DrainQueue compacts the pending operation log and replays the survivors
// against the remote store. It is safe to run concurrently with itself and
// with local mutations: every decision re-reads durable state, and create
// replay checks for an already-assigned remote id before calling out.
//
// Remote failures are converted into retry bookkeeping and never propagate;
// storage failures abort the drain.
func (s *Service) DrainQueue() (DrainResult, error) {
	var result DrainResult

	ops, err := s.store.ListOperations()
	if err != nil {
		return result, err
	}
	if len(ops) == 0 {
		return result, nil
	}

	winners := dedupeOperations(ops)

	// Compaction: superseded operations are removed, not replayed. Safe
	// because each payload carries the full field values as of enqueue time,
	// so the latest operation subsumes the earlier ones.
	for _, op := range ops {
		winner, ok := winners[op.LocalID]
		if ok && winner.ID != op.ID {
			if err := s.store.RemoveOperation(op.ID); err != nil {
				return result, err
			}
		}
	}

	// Replay the survivors in enqueue order.
	for _, op := range ops {
		winner, ok := winners[op.LocalID]
		if !ok || winner.ID != op.ID {
			continue
		}

		if err := s.applyOperation(winner); err != nil {
			var storageErr *db.StorageError
			if errors.As(err, &storageErr) {
				return result, err
			}
			result.Failed++
			s.logger.Printf("operation %s (%s on %s) failed: %v", winner.ID, winner.Type, winner.LocalID, err)
			if err := s.failOperation(winner); err != nil {
				return result, err
			}
			continue
		}

		if err := s.store.RemoveOperation(winner.ID); err != nil {
			return result, err
		}
		result.Synced++
	}

	return result, nil
}

// dedupeOperations reduces the log to at most one operation per local id.
// A delete always supersedes creates and updates for the same note; among
// the rest, the latest timestamp wins.
func dedupeOperations(ops []db.PendingOperation) map[string]db.PendingOperation {
	winners := make(map[string]db.PendingOperation)
	for _, op := range ops {
		existing, ok := winners[op.LocalID]
		if op.Type == db.OpDelete {
			winners[op.LocalID] = op
			continue
		}
		if ok && existing.Type == db.OpDelete {
			continue
		}
		if !ok || op.Timestamp.After(existing.Timestamp) {
			winners[op.LocalID] = op
		}
	}
	return winners
}

// failOperation records one failed replay attempt. Below the retry bound the
// operation stays queued for the next drain; at the bound it is abandoned and
// the owning note enters the terminal failed state.
func (s *Service) failOperation(op db.PendingOperation) error {
	next := op.RetryCount + 1
	if next < MaxRetryCount {
		return s.store.SetOperationRetryCount(op.ID, next)
	}

	if err := s.store.RemoveOperation(op.ID); err != nil {
		return err
	}
	note, err := s.store.GetNote(op.LocalID)
	if err != nil {
		return err
	}
	if note != nil {
		if err := s.store.SetNoteSyncStatus(op.LocalID, db.SyncStatusFailed); err != nil {
			return err
		}
		s.logger.Printf("operation %s abandoned after %d attempts, note %s marked failed", op.ID, next, op.LocalID)
	}
	return nil
}

func (s *Service) applyOperation(op db.PendingOperation) error {
	switch op.Type {
	case db.OpCreate:
		return s.applyCreate(op)
	case db.OpUpdate:
		return s.applyUpdate(op)
	case db.OpDelete:
		return s.applyDelete(op)
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func (s *Service) applyCreate(op db.PendingOperation) error {
	note, err := s.store.GetNote(op.LocalID)
	if err != nil {
		return err
	}
	if note == nil {
		// Deleted locally before it could be pushed.
		return nil
	}
	if note.RemoteID != "" {
		// Another drain already created it remotely.
		note.SyncStatus = db.SyncStatusSynced
		return s.store.PutNote(*note)
	}

	// Push the note's current fields, not the enqueue-time payload: edits made
	// while the create was still queued must not be lost to the first push.
	remote, err := s.client.CreateNote(api.CreateNoteRequest{
		UserID:     note.UserID,
		Title:      note.Title,
		Content:    note.Content,
		ModifiedAt: note.ModifiedAt,
	})
	if err != nil {
		return err
	}

	// The local copy may have changed while the remote call was in flight.
	note, err = s.store.GetNote(op.LocalID)
	if err != nil {
		return err
	}
	if note == nil {
		return nil
	}
	note.RemoteID = remote.ID
	note.CreatedAt = remote.CreatedAt
	note.SyncStatus = db.SyncStatusSynced
	return s.store.PutNote(*note)
}

func (s *Service) applyUpdate(op db.PendingOperation) error {
	if op.Update == nil {
		return fmt.Errorf("update operation %s has no payload", op.ID)
	}

	// A NotFound here means the record was deleted or reassigned remotely;
	// it is a real failure for this operation and goes through retry like
	// any other error.
	_, err := s.client.UpdateNote(op.RemoteID, api.UpdateNoteRequest{
		Title:      op.Update.Title,
		Content:    op.Update.Content,
		ModifiedAt: op.Update.ModifiedAt,
	})
	if err != nil {
		return err
	}

	note, err := s.store.GetNote(op.LocalID)
	if err != nil {
		return err
	}
	if note == nil {
		return nil
	}
	return s.store.SetNoteSyncStatus(op.LocalID, db.SyncStatusSynced)
}

func (s *Service) applyDelete(op db.PendingOperation) error {
	err := s.client.DeleteNote(op.RemoteID)
	if err != nil && !api.IsNotFound(err) {
		return err
	}
	// A 404 means the deletion already took effect, by any path.
	return nil
}
