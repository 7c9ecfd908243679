package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListOperations_OldestFirst(t *testing.T) {
	database := newTestDB(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, database.AddOperation(PendingOperation{
		ID: "op2", Type: OpUpdate, RemoteID: "r1", LocalID: "n1",
		Update:    &UpdatePayload{Title: "t", Content: "c", ModifiedAt: base.Add(time.Minute)},
		Timestamp: base.Add(time.Minute),
	}))
	require.NoError(t, database.AddOperation(PendingOperation{
		ID: "op1", Type: OpCreate, LocalID: "n1",
		Create:    &CreatePayload{UserID: "u", Title: "t", Content: "c"},
		Timestamp: base,
	}))

	ops, err := database.ListOperations()
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "op1", ops[0].ID)
	assert.Equal(t, "op2", ops[1].ID)
}

func TestOperationPayloadRoundTrip(t *testing.T) {
	database := newTestDB(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, database.AddOperation(PendingOperation{
		ID: "create-op", Type: OpCreate, LocalID: "n1",
		Create:    &CreatePayload{UserID: "u@example.com", Title: "hello", Content: "world"},
		Timestamp: base,
	}))
	require.NoError(t, database.AddOperation(PendingOperation{
		ID: "delete-op", Type: OpDelete, RemoteID: "r2", LocalID: "n2",
		Timestamp: base.Add(time.Second),
	}))

	ops, err := database.ListOperations()
	require.NoError(t, err)
	require.Len(t, ops, 2)

	createOp := ops[0]
	require.NotNil(t, createOp.Create)
	assert.Nil(t, createOp.Update)
	assert.Equal(t, "u@example.com", createOp.Create.UserID)
	assert.Equal(t, "hello", createOp.Create.Title)

	deleteOp := ops[1]
	assert.Nil(t, deleteOp.Create)
	assert.Nil(t, deleteOp.Update)
	assert.Equal(t, "r2", deleteOp.RemoteID)
}

func TestOperationsByLocalID(t *testing.T) {
	database := newTestDB(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, database.AddOperation(PendingOperation{
		ID: "op1", Type: OpCreate, LocalID: "n1",
		Create: &CreatePayload{UserID: "u", Title: "t", Content: "c"}, Timestamp: base,
	}))
	require.NoError(t, database.AddOperation(PendingOperation{
		ID: "op2", Type: OpDelete, RemoteID: "r2", LocalID: "n2", Timestamp: base,
	}))

	ops, err := database.OperationsByLocalID("n1")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "op1", ops[0].ID)
}

func TestRemoveOperation(t *testing.T) {
	database := newTestDB(t)

	require.NoError(t, database.AddOperation(PendingOperation{
		ID: "op1", Type: OpDelete, RemoteID: "r1", LocalID: "n1",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, database.RemoveOperation("op1"))

	count, err := database.CountOperations()
	require.NoError(t, err)
	assert.Zero(t, count)

	// Absent operation is not an error.
	require.NoError(t, database.RemoveOperation("op1"))
}

func TestSetOperationRetryCount(t *testing.T) {
	database := newTestDB(t)

	require.NoError(t, database.AddOperation(PendingOperation{
		ID: "op1", Type: OpDelete, RemoteID: "r1", LocalID: "n1",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, database.SetOperationRetryCount("op1", 2))

	ops, err := database.ListOperations()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, 2, ops[0].RetryCount)
}

func TestCountOperations(t *testing.T) {
	database := newTestDB(t)

	count, err := database.CountOperations()
	require.NoError(t, err)
	assert.Zero(t, count)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, database.AddOperation(PendingOperation{
			ID: id, Type: OpDelete, RemoteID: "r", LocalID: "n",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	count, err = database.CountOperations()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMeta(t *testing.T) {
	database := newTestDB(t)

	_, ok, err := database.GetMeta("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, database.SetMeta("k", "v1"))
	require.NoError(t, database.SetMeta("k", "v2"))

	value, ok, err := database.GetMeta("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", value)
}

func TestLastSyncTime(t *testing.T) {
	database := newTestDB(t)

	got, err := database.LastSyncTime()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	want := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)
	require.NoError(t, database.SetLastSyncTime(want))

	got, err = database.LastSyncTime()
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}
