package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
)

// OtpRepository one-time code storage
type OtpRepository interface {
	Create(ctx context.Context, otp *model.OtpRecord) error
	// GetLatest returns the newest code for (email, purpose)
	GetLatest(ctx context.Context, email, purpose string) (*model.OtpRecord, error)
	DeleteByEmail(ctx context.Context, email, purpose string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepo struct {
	db *gorm.DB
}

// NewOtpRepo creates an OtpRepository
func NewOtpRepo(db *gorm.DB) OtpRepository {
	return &otpRepo{db: db}
}

func (r *otpRepo) Create(ctx context.Context, otp *model.OtpRecord) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *otpRepo) GetLatest(ctx context.Context, email, purpose string) (*model.OtpRecord, error) {
	var otp model.OtpRecord
	err := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", email, purpose).
		Order("created_at desc, id desc").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepo) DeleteByEmail(ctx context.Context, email, purpose string) error {
	return r.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", email, purpose).
		Delete(&model.OtpRecord{}).Error
}

func (r *otpRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.OtpRecord{})
	return res.RowsAffected, res.Error
}
