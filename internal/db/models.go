package db

import "time"

type SyncStatus string

const (
	SyncStatusSynced   SyncStatus = "synced"
	SyncStatusPending  SyncStatus = "pending"
	SyncStatusSyncing  SyncStatus = "syncing"
	SyncStatusFailed   SyncStatus = "failed"
	SyncStatusConflict SyncStatus = "conflict"
)

// LocalNote is the local working copy of a note. LocalID is the primary key
// in the local store and never changes; RemoteID stays empty until the remote
// store assigns one, and is immutable afterwards.
type LocalNote struct {
	LocalID    string     `json:"local_id"`
	RemoteID   string     `json:"remote_id,omitempty"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt time.Time  `json:"modified_at"`
	SyncStatus SyncStatus `json:"sync_status"`
	Version    int        `json:"version"`
}

type OperationType string

const (
	OpCreate OperationType = "create"
	OpUpdate OperationType = "update"
	OpDelete OperationType = "delete"
)

// CreatePayload carries the fields sent with a remote create.
type CreatePayload struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePayload carries the fields sent with a remote update.
type UpdatePayload struct {
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ModifiedAt time.Time `json:"modified_at"`
}

// PendingOperation is one durable intent to mutate the remote store.
// Exactly one of Create/Update is set, matching Type; deletes carry neither.
type PendingOperation struct {
	ID         string         `json:"id"`
	Type       OperationType  `json:"type"`
	RemoteID   string         `json:"remote_id,omitempty"`
	LocalID    string         `json:"local_id"`
	Create     *CreatePayload `json:"create,omitempty"`
	Update     *UpdatePayload `json:"update,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	RetryCount int            `json:"retry_count"`
}
