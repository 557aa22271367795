package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestMarkRead_OnlyFlipsUnread(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE `notifications` SET `is_read`=\\?,`updated_at`=\\? WHERE \\(id = \\? AND user_id = \\? AND is_read = \\?\\)").
		WithArgs(true, sqlmock.AnyArg(), "n1", "u1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `notifications` SET `is_read`").
		WithArgs(true, sqlmock.AnyArg(), "n1", "u1", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.MarkRead(context.Background(), "n1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.MarkRead(context.Background(), "n1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete_ScopedToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE `notifications` SET `deleted_at`=\\? WHERE \\(id = \\? AND user_id = \\?\\) AND `notifications`.`deleted_at` IS NULL").
		WithArgs(sqlmock.AnyArg(), "n1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.SoftDelete(context.Background(), "n1", "intruder")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_NewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "type", "message", "is_read"}).
		AddRow("n2", "u1", "new_ticket", "second", false).
		AddRow("n1", "u1", "new_ticket", "first", true)
	mock.ExpectQuery("SELECT \\* FROM `notifications` WHERE user_id = \\? AND `notifications`.`deleted_at` IS NULL ORDER BY created_at DESC LIMIT \\?").
		WithArgs("u1", 50).
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), "u1", 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID)
	assert.True(t, list[1].IsRead)
	require.NoError(t, mock.ExpectationsWereMet())
}
