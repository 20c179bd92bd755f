package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
)

// ClassroomStudentRepository membership data access
type ClassroomStudentRepository interface {
	Create(ctx context.Context, member *model.ClassroomStudent) error
	// GetByPair returns the live (not soft-deleted) membership
	GetByPair(ctx context.Context, classroomID, studentID uint) (*model.ClassroomStudent, error)
	// GetByPairWithDeleted also returns a soft-deleted membership
	GetByPairWithDeleted(ctx context.Context, classroomID, studentID uint) (*model.ClassroomStudent, error)
	SetActive(ctx context.Context, id uint, active bool) error
	SoftDelete(ctx context.Context, id uint) error
	// Restore clears deleted_at and reactivates the membership
	Restore(ctx context.Context, id uint) error
	IsActiveMember(ctx context.Context, classroomID, studentID uint) (bool, error)
	ListByClassroom(ctx context.Context, classroomID uint, params ListParams) ([]model.ClassroomStudent, int64, error)
	ListActiveByClassroom(ctx context.Context, classroomID uint) ([]model.ClassroomStudent, error)
	ListActiveByStudent(ctx context.Context, studentID uint) ([]model.ClassroomStudent, error)
}

type classroomStudentRepo struct {
	db *gorm.DB
}

// NewClassroomStudentRepo creates a ClassroomStudentRepository
func NewClassroomStudentRepo(db *gorm.DB) ClassroomStudentRepository {
	return &classroomStudentRepo{db: db}
}

func (r *classroomStudentRepo) Create(ctx context.Context, member *model.ClassroomStudent) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *classroomStudentRepo) GetByPair(ctx context.Context, classroomID, studentID uint) (*model.ClassroomStudent, error) {
	var m model.ClassroomStudent
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND student_id = ?", classroomID, studentID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *classroomStudentRepo) GetByPairWithDeleted(ctx context.Context, classroomID, studentID uint) (*model.ClassroomStudent, error) {
	var m model.ClassroomStudent
	err := r.db.WithContext(ctx).Unscoped().
		Where("classroom_id = ? AND student_id = ?", classroomID, studentID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *classroomStudentRepo) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.ClassroomStudent{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *classroomStudentRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ClassroomStudent{}).Error
}

func (r *classroomStudentRepo) Restore(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Model(&model.ClassroomStudent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"deleted_at": nil, "is_active": true}).Error
}

func (r *classroomStudentRepo) IsActiveMember(ctx context.Context, classroomID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ClassroomStudent{}).
		Where("classroom_id = ? AND student_id = ? AND is_active = ?", classroomID, studentID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *classroomStudentRepo) ListByClassroom(ctx context.Context, classroomID uint, params ListParams) ([]model.ClassroomStudent, int64, error) {
	var members []model.ClassroomStudent
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.ClassroomStudent{}).
		Joins("JOIN users ON users.id = classroom_students.student_id").
		Where("classroom_students.classroom_id = ?", classroomID)
	if params.Search != "" {
		like := likePattern(params.Search)
		db = db.Where("users.full_name ILIKE ? OR users.email ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(db.Preload("Student"), params).Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *classroomStudentRepo) ListActiveByClassroom(ctx context.Context, classroomID uint) ([]model.ClassroomStudent, error) {
	var members []model.ClassroomStudent
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("classroom_id = ? AND is_active = ?", classroomID, true).
		Order("joined_at asc").
		Find(&members).Error
	return members, err
}

func (r *classroomStudentRepo) ListActiveByStudent(ctx context.Context, studentID uint) ([]model.ClassroomStudent, error) {
	var members []model.ClassroomStudent
	err := r.db.WithContext(ctx).
		Preload("Classroom").
		Joins("JOIN classrooms ON classrooms.id = classroom_students.classroom_id AND classrooms.deleted_at IS NULL").
		Where("classroom_students.student_id = ? AND classroom_students.is_active = ?", studentID, true).
		Order("classroom_students.joined_at desc").
		Find(&members).Error
	return members, err
}
