package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
)

// ClassroomFilter optional list filters
type ClassroomFilter struct {
	IsArchived *bool
}

// ClassroomRepository classroom data access.
// Lookups skip soft-deleted rows unless the method says otherwise.
type ClassroomRepository interface {
	Create(ctx context.Context, classroom *model.Classroom) error
	GetByID(ctx context.Context, id uint) (*model.Classroom, error)
	// GetByIDWithDeleted also returns soft-deleted rows
	GetByIDWithDeleted(ctx context.Context, id uint) (*model.Classroom, error)
	GetByName(ctx context.Context, name string) (*model.Classroom, error)
	Update(ctx context.Context, classroom *model.Classroom) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	List(ctx context.Context, params ListParams, filter ClassroomFilter) ([]model.Classroom, int64, error)
	ListDeleted(ctx context.Context, params ListParams) ([]model.Classroom, int64, error)
}

type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo creates a ClassroomRepository
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) Create(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *classroomRepo) GetByID(ctx context.Context, id uint) (*model.Classroom, error) {
	var c model.Classroom
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *classroomRepo) GetByIDWithDeleted(ctx context.Context, id uint) (*model.Classroom, error) {
	var c model.Classroom
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *classroomRepo) GetByName(ctx context.Context, name string) (*model.Classroom, error) {
	var c model.Classroom
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *classroomRepo) Update(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).Save(classroom).Error
}

func (r *classroomRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Classroom{}).Error
}

func (r *classroomRepo) Restore(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Model(&model.Classroom{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *classroomRepo) List(ctx context.Context, params ListParams, filter ClassroomFilter) ([]model.Classroom, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Classroom{})
	if filter.IsArchived != nil {
		db = db.Where("is_archived = ?", *filter.IsArchived)
	}
	return r.list(db, params)
}

func (r *classroomRepo) ListDeleted(ctx context.Context, params ListParams) ([]model.Classroom, int64, error) {
	db := r.db.WithContext(ctx).Unscoped().Model(&model.Classroom{}).Where("deleted_at IS NOT NULL")
	return r.list(db, params)
}

func (r *classroomRepo) list(db *gorm.DB, params ListParams) ([]model.Classroom, int64, error) {
	var classrooms []model.Classroom
	var total int64

	if params.Search != "" {
		db = db.Where("name ILIKE ?", likePattern(params.Search))
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(db, params).Find(&classrooms).Error; err != nil {
		return nil, 0, err
	}
	return classrooms, total, nil
}
