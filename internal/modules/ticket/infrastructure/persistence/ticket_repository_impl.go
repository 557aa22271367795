package persistence

import (
	"context"
	"time"

	"SupportDesk/internal/modules/ticket/domain/entity"
	"SupportDesk/internal/modules/ticket/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ticketRepositoryImpl struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) repository.TicketRepository {
	return &ticketRepositoryImpl{db: db}
}

// Create 插入后回读自增的 seq
func (r *ticketRepositoryImpl) Create(ctx context.Context, t *entity.Ticket) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("seq").Create(t).Error; err != nil {
		return err
	}
	return db.Model(&entity.Ticket{}).Select("seq").Where("id = ?", t.ID).Scan(&t.Seq).Error
}

func (r *ticketRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	var t entity.Ticket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (*entity.Ticket, error) {
	var t entity.Ticket
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepositoryImpl) List(ctx context.Context, f repository.TicketFilter) ([]entity.Ticket, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Ticket{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RequesterID != "" {
		q = q.Where("requester_id = ?", f.RequesterID)
	}
	if f.AssigneeID != "" {
		q = q.Where("assignee_id = ?", f.AssigneeID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var list []entity.Ticket
	err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ticketRepositoryImpl) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.Ticket{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ticketRepositoryImpl) UpdateStatus(ctx context.Context, id string, status string, changedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Ticket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            status,
			"status_changed_at": changedAt,
		}).Error
}

func (r *ticketRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Ticket{}).Error
}
