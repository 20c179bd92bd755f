package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
)

// ── User errors ──

var (
	ErrUserNotFound         = apperr.NotFound(21001, "user not found")
	ErrCannotDeactivateSelf = apperr.Unprocessable(21002, "cannot deactivate your own account")
	ErrCannotChangeOwnRole  = apperr.Unprocessable(21003, "cannot change your own role")
)

var userSortColumns = map[string]string{
	"id":        "id",
	"fullName":  "full_name",
	"email":     "email",
	"createdAt": "created_at",
}

// UserService account administration
type UserService interface {
	List(ctx context.Context, query *dto.UserListQuery) ([]dto.UserResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*dto.UserResponse, error)
	SetActive(ctx context.Context, callerID, id uint, active bool) (*dto.UserResponse, error)
	SetRole(ctx context.Context, callerID, id uint, role string) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, query *dto.UserListQuery) ([]dto.UserResponse, int64, error) {
	params := repository.ListParams{
		Offset:  query.GetOffset(),
		Limit:   query.GetLimit(),
		OrderBy: query.OrderBy(userSortColumns, "createdAt"),
		Search:  query.GetSearch(),
	}
	users, total, err := s.repo.User.List(ctx, params, query.Role)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := getUser(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── SetActive ──────────────────────

func (s *userService) SetActive(ctx context.Context, callerID, id uint, active bool) (*dto.UserResponse, error) {
	if callerID == id && !active {
		return nil, ErrCannotDeactivateSelf
	}
	user, err := getUser(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user status failed", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}

	if !active {
		if err := s.repo.RefreshToken.DeleteByUserID(ctx, id); err != nil {
			s.logger.Error("revoke refresh tokens failed", zap.Uint("user_id", id), zap.Error(err))
			return nil, err
		}
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── SetRole ──────────────────────

func (s *userService) SetRole(ctx context.Context, callerID, id uint, role string) (*dto.UserResponse, error) {
	if callerID == id {
		return nil, ErrCannotChangeOwnRole
	}
	user, err := getUser(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}

	changed := user.Role != role
	user.Role = role
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user role failed", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	// sessions issued under the old role must not be refreshed
	if changed {
		if err := s.repo.RefreshToken.DeleteByUserID(ctx, id); err != nil {
			s.logger.Error("revoke refresh tokens failed", zap.Uint("user_id", id), zap.Error(err))
			return nil, err
		}
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func getUser(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id uint) (*model.User, error) {
	user, err := repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("lookup user failed", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}
