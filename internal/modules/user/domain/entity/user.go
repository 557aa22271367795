package entity

import (
	"strings"
	"time"

	"SupportDesk/pkg/util"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "ADMIN"
	RoleAgent    = "AGENT"
	RoleCustomer = "CUSTOMER"
)

type User struct {
	ID           string  `gorm:"column:id;type:char(36);primaryKey"`
	Email        string  `gorm:"column:email;type:varchar(120);uniqueIndex;not null"`
	Name         string  `gorm:"column:name;type:varchar(100)"`
	PasswordHash string  `gorm:"column:password_hash;type:varchar(255)"`
	Role         string  `gorm:"column:role;type:varchar(20);not null;default:CUSTOMER;index"`
	WebhookURL   *string `gorm:"column:webhook_url;type:varchar(500)"`
	IsActive     bool    `gorm:"column:is_active;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Label 通知文案里展示的名字
func (u *User) Label() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u *User) IsAdmin() bool {
	return u != nil && strings.EqualFold(u.Role, RoleAdmin)
}

// Target 用户配置的 webhook 回调地址，未配置返回空串
func (u *User) Target() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(util.Deref(u.WebhookURL))
}

// Snapshot webhook 附带的实体快照，不含密码
func (u *User) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"role":        u.Role,
		"is_active":   u.IsActive,
		"webhook_url": u.WebhookURL,
		"created_at":  util.FormatUTC(u.CreatedAt),
		"updated_at":  util.FormatUTC(u.UpdatedAt),
	}
}
