package service

import (
	"context"
	"errors"
	"strings"

	"SupportDesk/internal/modules/user/application/dto/request"
	"SupportDesk/internal/modules/user/application/dto/respond"
	"SupportDesk/internal/modules/user/domain/entity"
	"SupportDesk/internal/modules/user/domain/repository"
	"SupportDesk/pkg/hook"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/util/myjwt"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Create(ctx context.Context, req request.CreateUserRequest) (*respond.UserItem, error)
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	Get(ctx context.Context, id string) (*respond.UserItem, error)
	Update(ctx context.Context, id string, req request.UpdateUserRequest) (*respond.UserItem, error)
	Delete(ctx context.Context, id string) error
	SetWebhookURL(ctx context.Context, userID string, req request.SetWebhookRequest) (*respond.UserItem, error)
}

type userServiceImpl struct {
	repo repository.UserRepository
	bus  hook.Emitter
}

func NewUserService(repo repository.UserRepository, bus hook.Emitter) UserService {
	return &userServiceImpl{repo: repo, bus: bus}
}

func (s *userServiceImpl) Create(ctx context.Context, req request.CreateUserRequest) (*respond.UserItem, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, xerr.New(xerr.BadRequest, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	role := strings.ToUpper(req.Role)
	if role == "" {
		role = entity.RoleCustomer
	}
	user := &entity.User{
		ID:           util.GenerateUUID(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.UserCreated, user)
	return toUserItem(user), nil
}

func (s *userServiceImpl) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.Unauthorized, "invalid email or password")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if !user.IsActive {
		return nil, xerr.New(xerr.Forbidden, "account is deactivated")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, xerr.New(xerr.Unauthorized, "invalid email or password")
	}

	token, err := myjwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		zlog.Error("generate token failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return &respond.LoginRespond{Token: token, User: *toUserItem(user)}, nil
}

func (s *userServiceImpl) Get(ctx context.Context, id string) (*respond.UserItem, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserItem(user), nil
}

func (s *userServiceImpl) Update(ctx context.Context, id string, req request.UpdateUserRequest) (*respond.UserItem, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Role != "" {
		user.Role = strings.ToUpper(req.Role)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.UserUpdated, user)
	return toUserItem(user), nil
}

// Delete 停用账号（软删除），随后通知管理员
func (s *userServiceImpl) Delete(ctx context.Context, id string) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	user.IsActive = false

	s.bus.Emit(ctx, hook.UserDeleted, user)
	return nil
}

func (s *userServiceImpl) SetWebhookURL(ctx context.Context, userID string, req request.SetWebhookRequest) (*respond.UserItem, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	var target *string
	if v := strings.TrimSpace(req.WebhookURL); v != "" {
		target = &v
	}
	if err := s.repo.UpdateWebhookURL(ctx, userID, target); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	user.WebhookURL = target
	return toUserItem(user), nil
}

func (s *userServiceImpl) load(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "user not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return user, nil
}

func toUserItem(u *entity.User) *respond.UserItem {
	return &respond.UserItem{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsActive:   u.IsActive,
		WebhookURL: u.WebhookURL,
		CreatedAt:  util.FormatUTC(u.CreatedAt),
	}
}
