package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSoftDelete_SetsDeletedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db)

	mock.ExpectExec("UPDATE `conversations` SET `deleted_at`=.* WHERE id = .* AND `conversations`.`deleted_at` IS NULL").
		WithArgs(sqlmock.AnyArg(), "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), "c1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete_MissingConversation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db)

	mock.ExpectExec("UPDATE `conversations` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), "gone")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsParticipant_IgnoresDeletedConversations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `conversation_participants` WHERE .*conversation_id IN \\(SELECT .?id.? FROM `conversations` WHERE `conversations`.`deleted_at` IS NULL\\)").
		WithArgs("c1", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	ok, err := repo.IsParticipant(context.Background(), "c1", "alice")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
