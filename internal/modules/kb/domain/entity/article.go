package entity

import (
	"time"

	"SupportDesk/pkg/util"

	"gorm.io/gorm"
)

// Article 知识库文章
type Article struct {
	ID        string `gorm:"column:id;type:char(36);primaryKey"`
	Title     string `gorm:"column:title;type:varchar(200);not null"`
	Content   string `gorm:"column:content;type:mediumtext;not null"`
	AuthorID  string `gorm:"column:author_id;type:char(36);not null;index"`
	Views     int64  `gorm:"column:views;not null;default:0"`
	IsPublic  bool   `gorm:"column:is_public;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Article) TableName() string {
	return "kb_articles"
}

func (a *Article) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"id":         a.ID,
		"title":      a.Title,
		"content":    a.Content,
		"author_id":  a.AuthorID,
		"views":      a.Views,
		"is_public":  a.IsPublic,
		"created_at": util.FormatUTC(a.CreatedAt),
		"updated_at": util.FormatUTC(a.UpdatedAt),
	}
}
