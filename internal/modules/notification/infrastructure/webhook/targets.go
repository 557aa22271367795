package webhook

import (
	"context"
	"errors"

	userRepository "SupportDesk/internal/modules/user/domain/repository"

	"gorm.io/gorm"
)

type userTargetResolver struct {
	users userRepository.UserRepository
}

// NewUserTargetResolver 从用户表的 webhook_url 读取回调地址
func NewUserTargetResolver(users userRepository.UserRepository) TargetResolver {
	return &userTargetResolver{users: users}
}

func (r *userTargetResolver) ResolveTarget(ctx context.Context, userID string) (string, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Target(), nil
}
