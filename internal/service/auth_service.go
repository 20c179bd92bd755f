package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/jwt"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/mailer"
)

// ── Auth errors ──

var (
	ErrEmailExists         = apperr.Unprocessable(20001, "email already registered")
	ErrInvalidOtp          = apperr.Unprocessable(20002, "invalid verification code")
	ErrOtpExpired          = apperr.Unprocessable(20003, "verification code expired")
	ErrOtpTooFrequent      = apperr.Unprocessable(20004, "verification code requested too often, try again later")
	ErrOtpSendFailed       = apperr.Internal(20005, "failed to send verification email")
	ErrInvalidCredentials  = apperr.Unprocessable(20006, "invalid email or password")
	ErrAccountInactive     = apperr.Unprocessable(20007, "account is disabled")
	ErrInvalidRefreshToken = apperr.Unprocessable(20008, "invalid refresh token")
	ErrEmailNotRegistered  = apperr.Unprocessable(20009, "no account with this email")
)

// TokenBlacklist revokes access tokens before they expire
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// OtpThrottle limits how often a code can be emailed to one address
type OtpThrottle interface {
	AcquireOTPCooldown(ctx context.Context, email, purpose string, ttl time.Duration) (bool, error)
	ReleaseOTPCooldown(ctx context.Context, email, purpose string) error
}

// AuthService registration, login and session management
type AuthService interface {
	SendOtp(ctx context.Context, req *dto.SendOtpRequest) error
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Logout blacklists the access token and drops the refresh token when given
	Logout(ctx context.Context, userID uint, accessJTI string, accessExp time.Time, refreshToken string) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	Me(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	mail      mailer.Sender
	blacklist TokenBlacklist // nil without redis
	throttle  OtpThrottle    // nil without redis
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates an AuthService. blacklist and throttle may be nil.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	mail mailer.Sender,
	blacklist TokenBlacklist,
	throttle OtpThrottle,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		mail:      mail,
		blacklist: blacklist,
		throttle:  throttle,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── SendOtp ──────────────────────

func (s *authService) SendOtp(ctx context.Context, req *dto.SendOtpRequest) error {
	email := normalizeEmail(req.Email)

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup user by email failed", zap.String("email", email), zap.Error(err))
		return err
	}

	return s.issueOtp(ctx, email, model.OtpPurposeVerifyEmail, "Verify your email")
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)

	// 1. email must be free; nothing else is touched on failure
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup user by email failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	// 2. verify code
	if err := s.verifyOtp(ctx, email, model.OtpPurposeVerifyEmail, req.Otp); err != nil {
		return nil, err
	}

	// 3. hash
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	// 4. consume code
	if err := s.repo.Otp.DeleteByEmail(ctx, email, model.OtpPurposeVerifyEmail); err != nil {
		s.logger.Error("delete otp failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	// 5. create user
	now := s.now()
	user := &model.User{
		Email:           email,
		PasswordHash:    string(hash),
		FullName:        strings.TrimSpace(req.FullName),
		Role:            model.RoleStudent,
		IsActive:        true,
		EmailVerifiedAt: &now,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user by email failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(ctx, user)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.repo.RefreshToken.GetByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("lookup refresh token failed", zap.Error(err))
		return nil, err
	}
	if stored.UserID != claims.UserID || !s.now().Before(stored.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.User.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("lookup user failed", zap.Uint("user_id", stored.UserID), zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	// rotation: the presented token is single use
	if err := s.repo.RefreshToken.DeleteByJTI(ctx, stored.JTI); err != nil {
		s.logger.Error("delete refresh token failed", zap.Error(err))
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, userID uint, accessJTI string, accessExp time.Time, refreshToken string) error {
	if refreshToken != "" {
		claims, err := s.jwtMgr.ParseToken(refreshToken)
		if err == nil && claims.TokenType == jwt.TokenTypeRefresh && claims.UserID == userID {
			if err := s.repo.RefreshToken.DeleteByJTI(ctx, claims.ID); err != nil {
				s.logger.Error("delete refresh token failed", zap.Uint("user_id", userID), zap.Error(err))
				return err
			}
		}
	}

	if s.blacklist != nil && accessJTI != "" {
		if ttl := accessExp.Sub(s.now()); ttl > 0 {
			if err := s.blacklist.BlacklistToken(ctx, accessJTI, ttl); err != nil {
				s.logger.Error("blacklist access token failed", zap.Uint("user_id", userID), zap.Error(err))
				return err
			}
		}
	}
	return nil
}

// ────────────────────── ForgotPassword ──────────────────────

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	email := normalizeEmail(req.Email)

	if _, err := s.repo.User.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmailNotRegistered
		}
		s.logger.Error("lookup user by email failed", zap.String("email", email), zap.Error(err))
		return err
	}

	return s.issueOtp(ctx, email, model.OtpPurposeResetPassword, "Reset your password")
}

// ────────────────────── ResetPassword ──────────────────────

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)

	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmailNotRegistered
		}
		s.logger.Error("lookup user by email failed", zap.String("email", email), zap.Error(err))
		return err
	}

	if err := s.verifyOtp(ctx, email, model.OtpPurposeResetPassword, req.Otp); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update password failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return err
	}
	if err := s.repo.Otp.DeleteByEmail(ctx, email, model.OtpPurposeResetPassword); err != nil {
		s.logger.Error("delete otp failed", zap.String("email", email), zap.Error(err))
		return err
	}
	// every existing session ends with the old password
	if err := s.repo.RefreshToken.DeleteByUserID(ctx, user.ID); err != nil {
		s.logger.Error("revoke refresh tokens failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup user failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ── helpers ──

// issueOtp replaces any previous code for (email, purpose) and emails the new one.
// The record stays when sending fails and the cooldown is released so the user can ask again.
func (s *authService) issueOtp(ctx context.Context, email, purpose, subject string) (err error) {
	if s.throttle != nil {
		ok, cerr := s.throttle.AcquireOTPCooldown(ctx, email, purpose, s.cfg.OTP.ResendCooldown)
		if cerr != nil {
			s.logger.Warn("otp cooldown check failed", zap.String("email", email), zap.Error(cerr))
		} else if !ok {
			return ErrOtpTooFrequent
		} else {
			defer func() {
				if err == nil {
					return
				}
				if rerr := s.throttle.ReleaseOTPCooldown(context.WithoutCancel(ctx), email, purpose); rerr != nil {
					s.logger.Warn("release otp cooldown failed", zap.String("email", email), zap.Error(rerr))
				}
			}()
		}
	}

	code, err := generateOtp(s.cfg.OTP.Length)
	if err != nil {
		s.logger.Error("generate otp failed", zap.Error(err))
		return err
	}

	if err := s.repo.Otp.DeleteByEmail(ctx, email, purpose); err != nil {
		s.logger.Error("delete previous otp failed", zap.String("email", email), zap.Error(err))
		return err
	}
	record := &model.OtpRecord{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(s.cfg.OTP.TTL),
	}
	if err := s.repo.Otp.Create(ctx, record); err != nil {
		s.logger.Error("create otp failed", zap.String("email", email), zap.Error(err))
		return err
	}

	msg := mailer.Message{
		Email:   email,
		Subject: subject,
		Content: fmt.Sprintf("Your verification code is %s. It expires in %s.", code, s.cfg.OTP.TTL),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.Error("send otp email failed", zap.String("email", email), zap.String("purpose", purpose), zap.Error(err))
		return ErrOtpSendFailed
	}
	return nil
}

func (s *authService) verifyOtp(ctx context.Context, email, purpose, code string) error {
	record, err := s.repo.Otp.GetLatest(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOtp
		}
		s.logger.Error("lookup otp failed", zap.String("email", email), zap.Error(err))
		return err
	}
	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return ErrInvalidOtp
	}
	if record.Expired(s.now()) {
		return ErrOtpExpired
	}
	return nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	accessToken, _, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, refreshClaims, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	record := &model.RefreshToken{
		UserID:    user.ID,
		JTI:       refreshClaims.ID,
		ExpiresAt: refreshClaims.ExpiresAt.Time,
	}
	if err := s.repo.RefreshToken.Create(ctx, record); err != nil {
		s.logger.Error("persist refresh token failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOtp random numeric code of n digits
func generateOtp(n int) (string, error) {
	const digits = "0123456789"
	buf := make([]byte, n)
	max := big.NewInt(int64(len(digits)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = digits[idx.Int64()]
	}
	return string(buf), nil
}
