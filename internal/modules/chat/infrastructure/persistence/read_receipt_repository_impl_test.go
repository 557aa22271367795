package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	chatEntity "SupportDesk/internal/modules/chat/domain/entity"
	chatRepository "SupportDesk/internal/modules/chat/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func receipts(userID string, messageIDs ...string) []chatEntity.MessageReadStatus {
	now := time.Now()
	out := make([]chatEntity.MessageReadStatus, 0, len(messageIDs))
	for i, id := range messageIDs {
		out = append(out, chatEntity.MessageReadStatus{
			ID:        "r" + string(rune('0'+i)),
			MessageID: id,
			UserID:    userID,
			ReadAt:    now,
		})
	}
	return out
}

func TestInsertIgnore_OnConflictCountsOnlyNewRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReadReceiptRepository(db, chatRepository.StrategyOnConflict)

	mock.ExpectExec("INSERT INTO `message_read_status` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.InsertIgnore(context.Background(), receipts("u1", "m1", "m2", "m3"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIgnore_EmptyInputSkipsDatabase(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReadReceiptRepository(db, chatRepository.StrategyOnConflict)

	n, err := repo.InsertIgnore(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIgnore_CatchDuplicateSkipsExistingRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReadReceiptRepository(db, chatRepository.StrategyCatchDuplicate)

	mock.ExpectExec("INSERT INTO `message_read_status`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `message_read_status`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'm2-u1' for key 'unique_message_user_read'"})
	mock.ExpectExec("INSERT INTO `message_read_status`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.InsertIgnore(context.Background(), receipts("u1", "m1", "m2", "m3"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIgnore_CatchDuplicatePropagatesOtherErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReadReceiptRepository(db, chatRepository.StrategyCatchDuplicate)

	mock.ExpectExec("INSERT INTO `message_read_status`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `message_read_status`").
		WillReturnError(errors.New("connection reset"))

	n, err := repo.InsertIgnore(context.Background(), receipts("u1", "m1", "m2", "m3"))
	require.Error(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: message_read_status.message_id")))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateKey(nil))
}

func TestUnreadIDs_BoundedByCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db)
	upTo := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("SELECT `id` FROM `messages` WHERE conversation_id = \\? AND id NOT IN \\(SELECT message_id FROM `message_read_status` WHERE user_id = \\?\\) AND created_at <= \\? AND `messages`.`deleted_at` IS NULL ORDER BY created_at ASC").
		WithArgs("c1", "u1", upTo).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("m1").AddRow("m2"))

	ids, err := repo.UnreadIDs(context.Background(), "c1", "u1", &upTo)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
