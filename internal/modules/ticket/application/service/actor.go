package service

import (
	"strings"

	userEntity "SupportDesk/internal/modules/user/domain/entity"
)

// Actor 当前请求的用户
type Actor struct {
	ID   string
	Role string
}

// IsStaff ADMIN 与 AGENT
func (a Actor) IsStaff() bool {
	return strings.EqualFold(a.Role, userEntity.RoleAdmin) || strings.EqualFold(a.Role, userEntity.RoleAgent)
}

func (a Actor) IsAdmin() bool {
	return strings.EqualFold(a.Role, userEntity.RoleAdmin)
}
