package db

import (
	"database/sql"
	"encoding/json"
)

// opPayload is the JSON persisted in the payload column. Only the variant
// matching the operation type is present.
type opPayload struct {
	Create *CreatePayload `json:"create,omitempty"`
	Update *UpdatePayload `json:"update,omitempty"`
}

// AddOperation appends an operation to the durable queue.
func (db *DB) AddOperation(op PendingOperation) error {
	payload, err := json.Marshal(opPayload{Create: op.Create, Update: op.Update})
	if err != nil {
		return storageErr("marshal operation payload", err)
	}

	_, err = db.conn.Exec(`
		INSERT OR REPLACE INTO pending_operations
			(id, op_type, remote_id, local_id, payload, created_at, retry_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, op.ID, string(op.Type), op.RemoteID, op.LocalID, string(payload), op.Timestamp, op.RetryCount)
	if err != nil {
		return storageErr("add operation", err)
	}
	return nil
}

// ListOperations returns all pending operations ordered by enqueue time,
// oldest first.
func (db *DB) ListOperations() ([]PendingOperation, error) {
	rows, err := db.conn.Query(`
		SELECT id, op_type, remote_id, local_id, payload, created_at, retry_count
		FROM pending_operations
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, storageErr("list operations", err)
	}
	defer rows.Close()

	var ops []PendingOperation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, *op)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list operations", err)
	}
	return ops, nil
}

// OperationsByLocalID returns the queued operations targeting one note.
func (db *DB) OperationsByLocalID(localID string) ([]PendingOperation, error) {
	rows, err := db.conn.Query(`
		SELECT id, op_type, remote_id, local_id, payload, created_at, retry_count
		FROM pending_operations
		WHERE local_id = ?
		ORDER BY created_at ASC, id ASC
	`, localID)
	if err != nil {
		return nil, storageErr("operations by local id", err)
	}
	defer rows.Close()

	var ops []PendingOperation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, *op)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("operations by local id", err)
	}
	return ops, nil
}

func scanOperation(rows *sql.Rows) (*PendingOperation, error) {
	var op PendingOperation
	var opType, payload string
	if err := rows.Scan(&op.ID, &opType, &op.RemoteID, &op.LocalID, &payload,
		&op.Timestamp, &op.RetryCount); err != nil {
		return nil, storageErr("scan operation", err)
	}
	op.Type = OperationType(opType)

	var p opPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, storageErr("unmarshal operation payload", err)
	}
	op.Create = p.Create
	op.Update = p.Update
	return &op, nil
}

// RemoveOperation deletes an operation from the queue. Removing an absent
// operation is not an error.
func (db *DB) RemoveOperation(id string) error {
	_, err := db.conn.Exec(`DELETE FROM pending_operations WHERE id = ?`, id)
	if err != nil {
		return storageErr("remove operation", err)
	}
	return nil
}

// SetOperationRetryCount records a failed replay attempt.
func (db *DB) SetOperationRetryCount(id string, count int) error {
	_, err := db.conn.Exec(`
		UPDATE pending_operations SET retry_count = ? WHERE id = ?
	`, count, id)
	if err != nil {
		return storageErr("set operation retry count", err)
	}
	return nil
}

// CountOperations returns the number of queued operations.
func (db *DB) CountOperations() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM pending_operations`).Scan(&count)
	if err != nil {
		return 0, storageErr("count operations", err)
	}
	return count, nil
}
