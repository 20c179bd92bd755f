package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
)

// JoinRequestFilter optional list filters; zero values are ignored
type JoinRequestFilter struct {
	ClassroomID uint
	StudentID   uint
	Status      model.JoinRequestStatus
}

// JoinRequestRepository join request data access
type JoinRequestRepository interface {
	Create(ctx context.Context, req *model.JoinRequest) error
	GetByID(ctx context.Context, id uint) (*model.JoinRequest, error)
	GetByPair(ctx context.Context, studentID, classroomID uint) (*model.JoinRequest, error)
	Update(ctx context.Context, req *model.JoinRequest) error
	DeleteByPair(ctx context.Context, studentID, classroomID uint) error
	List(ctx context.Context, params ListParams, filter JoinRequestFilter) ([]model.JoinRequest, int64, error)
}

type joinRequestRepo struct {
	db *gorm.DB
}

// NewJoinRequestRepo creates a JoinRequestRepository
func NewJoinRequestRepo(db *gorm.DB) JoinRequestRepository {
	return &joinRequestRepo{db: db}
}

func (r *joinRequestRepo) Create(ctx context.Context, req *model.JoinRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *joinRequestRepo) GetByID(ctx context.Context, id uint) (*model.JoinRequest, error) {
	var jr model.JoinRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&jr).Error; err != nil {
		return nil, err
	}
	return &jr, nil
}

func (r *joinRequestRepo) GetByPair(ctx context.Context, studentID, classroomID uint) (*model.JoinRequest, error) {
	var jr model.JoinRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND classroom_id = ?", studentID, classroomID).
		First(&jr).Error
	if err != nil {
		return nil, err
	}
	return &jr, nil
}

func (r *joinRequestRepo) Update(ctx context.Context, req *model.JoinRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *joinRequestRepo) DeleteByPair(ctx context.Context, studentID, classroomID uint) error {
	return r.db.WithContext(ctx).
		Where("student_id = ? AND classroom_id = ?", studentID, classroomID).
		Delete(&model.JoinRequest{}).Error
}

func (r *joinRequestRepo) List(ctx context.Context, params ListParams, filter JoinRequestFilter) ([]model.JoinRequest, int64, error) {
	var requests []model.JoinRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.JoinRequest{})
	if filter.ClassroomID != 0 {
		db = db.Where("classroom_id = ?", filter.ClassroomID)
	}
	if filter.StudentID != 0 {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(db.Preload("Student").Preload("Classroom", func(tx *gorm.DB) *gorm.DB {
		return tx.Unscoped()
	}), params).Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}
