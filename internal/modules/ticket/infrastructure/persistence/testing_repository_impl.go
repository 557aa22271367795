package persistence

import (
	"context"

	"SupportDesk/internal/modules/ticket/domain/entity"
	"SupportDesk/internal/modules/ticket/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type testingRepositoryImpl struct {
	db *gorm.DB
}

func NewTestingRepository(db *gorm.DB) repository.TestingRepository {
	return &testingRepositoryImpl{db: db}
}

func (r *testingRepositoryImpl) Create(ctx context.Context, s *entity.TestingSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *testingRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.TestingSession, error) {
	var s entity.TestingSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *testingRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (*entity.TestingSession, error) {
	var s entity.TestingSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *testingRepositoryImpl) List(ctx context.Context, f repository.TestingFilter) ([]entity.TestingSession, error) {
	q := r.db.WithContext(ctx).Model(&entity.TestingSession{})
	if f.TicketID != "" {
		q = q.Where("ticket_id = ?", f.TicketID)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var list []entity.TestingSession
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *testingRepositoryImpl) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.TestingSession{}).Where("id = ?", id).Updates(fields).Error
}

func (r *testingRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.TestingSession{}).Error
}
