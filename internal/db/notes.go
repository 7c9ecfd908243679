package db

import (
	"database/sql"
	"fmt"
)

const noteColumns = `local_id, remote_id, user_id, title, content, created_at, modified_at, sync_status, version`

func scanNote(row interface{ Scan(...interface{}) error }) (*LocalNote, error) {
	var n LocalNote
	var status string
	err := row.Scan(&n.LocalID, &n.RemoteID, &n.UserID, &n.Title, &n.Content,
		&n.CreatedAt, &n.ModifiedAt, &status, &n.Version)
	if err != nil {
		return nil, err
	}
	n.SyncStatus = SyncStatus(status)
	return &n, nil
}

// ListNotes returns every local note, newest created first.
func (db *DB) ListNotes() ([]LocalNote, error) {
	rows, err := db.conn.Query(`
		SELECT ` + noteColumns + `
		FROM notes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, storageErr("list notes", err)
	}
	defer rows.Close()

	var notes []LocalNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, storageErr("scan note", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list notes", err)
	}
	return notes, nil
}

// GetNote returns the note with the given local id, or nil if absent.
func (db *DB) GetNote(localID string) (*LocalNote, error) {
	row := db.conn.QueryRow(`
		SELECT `+noteColumns+`
		FROM notes WHERE local_id = ?
	`, localID)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get note", err)
	}
	return n, nil
}

// GetNoteByRemoteID returns the note carrying the given remote id, or nil.
func (db *DB) GetNoteByRemoteID(remoteID string) (*LocalNote, error) {
	if remoteID == "" {
		return nil, nil
	}
	row := db.conn.QueryRow(`
		SELECT `+noteColumns+`
		FROM notes WHERE remote_id = ?
	`, remoteID)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get note by remote id", err)
	}
	return n, nil
}

// PutNote inserts or replaces a note keyed by local id.
func (db *DB) PutNote(n LocalNote) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO notes
			(local_id, remote_id, user_id, title, content, created_at, modified_at, sync_status, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.LocalID, n.RemoteID, n.UserID, n.Title, n.Content,
		n.CreatedAt, n.ModifiedAt, string(n.SyncStatus), n.Version)
	if err != nil {
		return storageErr("put note", err)
	}
	return nil
}

// PutNotes upserts a batch of notes in a single transaction, so readers never
// observe a partial batch.
func (db *DB) PutNotes(notes []LocalNote) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return storageErr("begin put notes", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO notes
			(local_id, remote_id, user_id, title, content, created_at, modified_at, sync_status, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return storageErr("prepare put notes", err)
	}
	defer stmt.Close()

	for _, n := range notes {
		if _, err := stmt.Exec(n.LocalID, n.RemoteID, n.UserID, n.Title, n.Content,
			n.CreatedAt, n.ModifiedAt, string(n.SyncStatus), n.Version); err != nil {
			tx.Rollback()
			return storageErr("put notes", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit put notes", err)
	}
	return nil
}

// DeleteNote removes a note by local id. Deleting an absent note is not an error.
func (db *DB) DeleteNote(localID string) error {
	_, err := db.conn.Exec(`DELETE FROM notes WHERE local_id = ?`, localID)
	if err != nil {
		return storageErr("delete note", err)
	}
	return nil
}

// NotesBySyncStatus returns notes in the given sync state, newest created first.
func (db *DB) NotesBySyncStatus(status SyncStatus) ([]LocalNote, error) {
	rows, err := db.conn.Query(`
		SELECT `+noteColumns+`
		FROM notes
		WHERE sync_status = ?
		ORDER BY created_at DESC
	`, string(status))
	if err != nil {
		return nil, storageErr("notes by sync status", err)
	}
	defer rows.Close()

	var notes []LocalNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, storageErr("scan note", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("notes by sync status", err)
	}
	return notes, nil
}

// SetNoteSyncStatus updates only the sync status of a note.
func (db *DB) SetNoteSyncStatus(localID string, status SyncStatus) error {
	res, err := db.conn.Exec(`
		UPDATE notes SET sync_status = ? WHERE local_id = ?
	`, string(status), localID)
	if err != nil {
		return storageErr("set note sync status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storageErr("set note sync status", fmt.Errorf("no note with local id %s", localID))
	}
	return nil
}
