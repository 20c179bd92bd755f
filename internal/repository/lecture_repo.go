package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
)

// LectureRepository lecture data access
type LectureRepository interface {
	Create(ctx context.Context, lecture *model.Lecture) error
	GetByID(ctx context.Context, id uint) (*model.Lecture, error)
	Update(ctx context.Context, lecture *model.Lecture) error
	DeleteByIDs(ctx context.Context, ids []uint) error
	// ListByClassroom returns every lecture of the classroom ordered by order_index, id
	ListByClassroom(ctx context.Context, classroomID uint) ([]model.Lecture, error)
}

type lectureRepo struct {
	db *gorm.DB
}

// NewLectureRepo creates a LectureRepository
func NewLectureRepo(db *gorm.DB) LectureRepository {
	return &lectureRepo{db: db}
}

func (r *lectureRepo) Create(ctx context.Context, lecture *model.Lecture) error {
	return r.db.WithContext(ctx).Create(lecture).Error
}

func (r *lectureRepo) GetByID(ctx context.Context, id uint) (*model.Lecture, error) {
	var l model.Lecture
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lectureRepo) Update(ctx context.Context, lecture *model.Lecture) error {
	return r.db.WithContext(ctx).Save(lecture).Error
}

func (r *lectureRepo) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Lecture{}).Error
}

func (r *lectureRepo) ListByClassroom(ctx context.Context, classroomID uint) ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("order_index asc, id asc").
		Find(&lectures).Error
	return lectures, err
}
