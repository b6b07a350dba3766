package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatnest/chatnest-server/internal/models"
	"github.com/chatnest/chatnest-server/internal/storage"
)

func TestAppendStoresSortedPair(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	// Sender "bob" writes to "alice": the stored pair must be sorted so
	// both directions land on the same (user_a, user_b) key.
	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs("bob", "alice", "bob", "hi", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("msg-1", now, now))

	log := NewMessageLog(db)
	msg := &models.Message{SenderID: "bob", UserA: "bob", UserB: "alice", Body: "hi"}
	id, err := log.Append(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "msg-1", msg.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendWrapsPersistenceFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO messages`).
		WillReturnError(assert.AnError)

	log := NewMessageLog(db)
	_, err = log.Append(context.Background(), &models.Message{SenderID: "a", UserA: "a", UserB: "b"})
	assert.ErrorIs(t, err, storage.ErrPersistenceFailure)
}

func TestQueryByPairNormalizesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "sender_id", "user_a", "user_b", "body", "audio", "created_at", "updated_at"}).
		AddRow("m1", "alice", "alice", "bob", "one", "", now, now).
		AddRow("m2", "bob", "alice", "bob", "two", "", now, now)

	mock.ExpectQuery(`SELECT id, sender_id, user_a, user_b, body, audio, created_at, updated_at\s+FROM messages`).
		WithArgs("alice", "bob").
		WillReturnRows(rows)

	log := NewMessageLog(db)
	// Queried with the pair reversed; arguments must arrive sorted.
	msgs, err := log.QueryByPair(context.Background(), "bob", "alice")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Body)
	assert.Equal(t, "bob", msgs[1].SenderID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByPairReturnsCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM messages`).
		WithArgs("alice", "bob").
		WillReturnResult(sqlmock.NewResult(0, 3))

	log := NewMessageLog(db)
	count, err := log.DeleteByPair(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, mock.ExpectationsWereMet())
}
