package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
)

// mediaReference a table column that may point at a media row
type mediaReference struct {
	table  string
	column string
}

// mediaReferences every relation that blocks deleting a media row
var mediaReferences = []mediaReference{
	{"users", "avatar_id"},
	{"classrooms", "cover_media_id"},
	{"lectures", "media_id"},
	{"exercise_attachments", "media_id"},
	{"submission_attachments", "media_id"},
	{"quiz_media", "media_id"},
}

// MediaFilter optional list filters; zero values are ignored
type MediaFilter struct {
	UploadedBy     uint
	Visibility     string
	IncludeDeleted bool
}

// MediaRepository media metadata access
type MediaRepository interface {
	Create(ctx context.Context, media *model.Media) error
	GetByID(ctx context.Context, id uint) (*model.Media, error)
	// GetByIDWithDeleted also returns soft-deleted rows
	GetByIDWithDeleted(ctx context.Context, id uint) (*model.Media, error)
	Update(ctx context.Context, media *model.Media) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
	// IsInUse reports whether any dependent relation references the media
	IsInUse(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, params ListParams, filter MediaFilter) ([]model.Media, int64, error)
}

type mediaRepo struct {
	db *gorm.DB
}

// NewMediaRepo creates a MediaRepository
func NewMediaRepo(db *gorm.DB) MediaRepository {
	return &mediaRepo{db: db}
}

func (r *mediaRepo) Create(ctx context.Context, media *model.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepo) GetByID(ctx context.Context, id uint) (*model.Media, error) {
	var m model.Media
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepo) GetByIDWithDeleted(ctx context.Context, id uint) (*model.Media, error) {
	var m model.Media
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepo) Update(ctx context.Context, media *model.Media) error {
	return r.db.WithContext(ctx).Save(media).Error
}

func (r *mediaRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Media{}).Error
}

func (r *mediaRepo) Restore(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Model(&model.Media{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *mediaRepo) HardDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Media{}).Error
}

func (r *mediaRepo) IsInUse(ctx context.Context, id uint) (bool, error) {
	for _, ref := range mediaReferences {
		var count int64
		err := r.db.WithContext(ctx).
			Table(ref.table).
			Where(ref.column+" = ?", id).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *mediaRepo) List(ctx context.Context, params ListParams, filter MediaFilter) ([]model.Media, int64, error) {
	var media []model.Media
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Media{})
	if filter.IncludeDeleted {
		db = db.Unscoped()
	}
	if filter.UploadedBy != 0 {
		db = db.Where("uploaded_by = ?", filter.UploadedBy)
	}
	if filter.Visibility != "" {
		db = db.Where("visibility = ?", filter.Visibility)
	}
	if params.Search != "" {
		db = db.Where("file_name ILIKE ?", likePattern(params.Search))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(db, params).Find(&media).Error; err != nil {
		return nil, 0, err
	}
	return media, total, nil
}
