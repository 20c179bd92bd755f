package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
)

var ErrWrongPassword = apperr.Unprocessable(20010, "current password is incorrect")

// ProfileService the caller's own account
type ProfileService interface {
	Get(ctx context.Context, userID uint) (*dto.UserResponse, error)
	Update(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdateAvatar(ctx context.Context, userID uint, req *dto.UpdateAvatarRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

func (s *profileService) Get(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := getUser(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *profileService) Update(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := getUser(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update profile failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *profileService) UpdateAvatar(ctx context.Context, userID uint, req *dto.UpdateAvatarRequest) (*dto.UserResponse, error) {
	user, err := getUser(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}

	media, err := s.repo.Media.GetByID(ctx, req.MediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		s.logger.Error("lookup media failed", zap.Uint("media_id", req.MediaID), zap.Error(err))
		return nil, err
	}
	if media.UploadedBy != userID {
		return nil, ErrMediaForbidden
	}

	user.AvatarID = &media.ID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update avatar failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *profileService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	user, err := getUser(ctx, s.repo, s.logger, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("change password failed", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}
