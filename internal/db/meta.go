package db

import (
	"database/sql"
	"time"
)

// MetaKeyLastSync records the wall-clock time of the last completed full sync.
const MetaKeyLastSync = "lastSyncTime"

// GetMeta returns the value for a metadata key, or "" and false if unset.
func (db *DB) GetMeta(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM sync_meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("get meta", err)
	}
	return value, true, nil
}

// SetMeta writes a metadata key. Last write wins.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO sync_meta (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now().UTC())
	if err != nil {
		return storageErr("set meta", err)
	}
	return nil
}

// LastSyncTime returns the recorded time of the last full sync, or the zero
// time if none has completed yet.
func (db *DB) LastSyncTime() (time.Time, error) {
	value, ok, err := db.GetMeta(MetaKeyLastSync)
	if err != nil || !ok {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

// SetLastSyncTime records the time of a completed full sync.
func (db *DB) SetLastSyncTime(t time.Time) error {
	return db.SetMeta(MetaKeyLastSync, t.UTC().Format(time.RFC3339Nano))
}
