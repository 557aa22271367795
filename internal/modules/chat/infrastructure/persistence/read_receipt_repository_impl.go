package persistence

import (
	"context"
	"errors"
	"strings"

	chatEntity "SupportDesk/internal/modules/chat/domain/entity"
	chatRepository "SupportDesk/internal/modules/chat/domain/repository"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const mysqlDuplicateEntry = 1062

type readReceiptRepositoryImpl struct {
	db       *gorm.DB
	strategy chatRepository.InsertStrategy
}

func NewReadReceiptRepository(db *gorm.DB, strategy chatRepository.InsertStrategy) chatRepository.ReadReceiptRepository {
	return &readReceiptRepositoryImpl{db: db, strategy: strategy}
}

func (r *readReceiptRepositoryImpl) InsertIgnore(ctx context.Context, receipts []chatEntity.MessageReadStatus) (int64, error) {
	if len(receipts) == 0 {
		return 0, nil
	}
	if r.strategy == chatRepository.StrategyCatchDuplicate {
		return r.insertEach(ctx, receipts)
	}
	// MySQL 下生成 ON DUPLICATE KEY UPDATE id=id，未变化的行不计入 RowsAffected
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&receipts, 200)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *readReceiptRepositoryImpl) insertEach(ctx context.Context, receipts []chatEntity.MessageReadStatus) (int64, error) {
	var inserted int64
	for i := range receipts {
		err := r.db.WithContext(ctx).Create(&receipts[i]).Error
		if err == nil {
			inserted++
			continue
		}
		if IsDuplicateKey(err) {
			continue
		}
		return inserted, err
	}
	return inserted, nil
}

func (r *readReceiptRepositoryImpl) ReadSet(ctx context.Context, userID string, messageIDs []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(messageIDs))
	if len(messageIDs) == 0 {
		return set, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&chatEntity.MessageReadStatus{}).
		Where("user_id = ? AND message_id IN ?", userID, messageIDs).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// IsDuplicateKey 识别唯一键冲突
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
