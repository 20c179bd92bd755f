package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/storage"
)

// ── Media errors ──

var (
	ErrMediaNotFound   = apperr.NotFound(34001, "media not found")
	ErrMediaForbidden  = apperr.Forbidden(34002, "no permission on this media")
	ErrMediaInUse      = apperr.BadRequest(34003, "media is in use and cannot be deleted")
	ErrMediaNotDeleted = apperr.NotFound(34004, "media is not deleted")
	ErrFileTooLarge    = apperr.BadRequest(34005, "file exceeds the maximum upload size")
	ErrEmptyFile       = apperr.BadRequest(34006, "file is empty")
	ErrStorageFailed   = apperr.Internal(34007, "object storage operation failed")
)

var mediaSortColumns = map[string]string{
	"id":        "id",
	"fileName":  "file_name",
	"size":      "size",
	"createdAt": "created_at",
}

// UploadFile an incoming file
type UploadFile struct {
	FileName    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// MediaService stored files with owner/admin authorization.
// Owners and admins manage a file; anyone may read a public one.
type MediaService interface {
	Upload(ctx context.Context, callerID uint, file *UploadFile, visibility string) (*dto.MediaResponse, error)
	List(ctx context.Context, callerID uint, role string, query *dto.MediaListQuery) ([]dto.MediaResponse, int64, error)
	Get(ctx context.Context, callerID uint, role string, id uint) (*dto.MediaResponse, error)
	UpdateVisibility(ctx context.Context, callerID uint, role string, id uint, visibility string) (*dto.MediaResponse, error)
	// Rename moves the object first; the row changes only when the move succeeded
	Rename(ctx context.Context, callerID uint, role string, id uint, fileName string) (*dto.MediaResponse, error)
	DownloadURL(ctx context.Context, callerID uint, role string, id uint) (*dto.DownloadURLResponse, error)
	Download(ctx context.Context, callerID uint, role string, id uint) (io.ReadCloser, *dto.MediaResponse, error)
	SoftDelete(ctx context.Context, callerID uint, role string, id uint) error
	HardDelete(ctx context.Context, callerID uint, role string, id uint) error
	Restore(ctx context.Context, callerID uint, role string, id uint) (*dto.MediaResponse, error)
}

type mediaService struct {
	repo   *repository.Repository
	store  storage.Storage
	cfg    *config.StorageConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewMediaService creates a MediaService
func NewMediaService(repo *repository.Repository, store storage.Storage, cfg *config.StorageConfig, logger *zap.Logger) MediaService {
	return &mediaService{repo: repo, store: store, cfg: cfg, logger: logger, now: time.Now}
}

// ────────────────────── Upload ──────────────────────

func (s *mediaService) Upload(ctx context.Context, callerID uint, file *UploadFile, visibility string) (*dto.MediaResponse, error) {
	if file.Size <= 0 {
		return nil, ErrEmptyFile
	}
	if s.cfg.MaxUploadBytes > 0 && file.Size > s.cfg.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	if visibility == "" {
		visibility = model.VisibilityPrivate
	}

	fileName := storage.SanitizeFileName(file.FileName)
	contentType := file.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(fileName)); byExt != "" {
			contentType = byExt
		} else {
			contentType = "application/octet-stream"
		}
	}

	key := storage.NewObjectKey(callerID, fileName)
	if err := s.store.Upload(ctx, key, file.Reader, file.Size, contentType); err != nil {
		s.logger.Error("upload object failed", zap.String("key", key), zap.Error(err))
		return nil, ErrStorageFailed
	}

	media := &model.Media{
		FileName:   fileName,
		ObjectKey:  key,
		Bucket:     s.store.Bucket(),
		MimeType:   contentType,
		Size:       file.Size,
		Visibility: visibility,
		UploadedBy: callerID,
	}
	if err := s.repo.Media.Create(ctx, media); err != nil {
		s.logger.Error("create media failed", zap.String("key", key), zap.Error(err))
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("remove orphan object failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	resp := toMediaResponse(media)
	return &resp, nil
}

// ────────────────────── List / Get ──────────────────────

func (s *mediaService) List(ctx context.Context, callerID uint, role string, query *dto.MediaListQuery) ([]dto.MediaResponse, int64, error) {
	filter := repository.MediaFilter{
		UploadedBy:     query.UploadedBy,
		Visibility:     query.Visibility,
		IncludeDeleted: query.IncludeDeleted,
	}
	if role != model.RoleAdmin {
		filter.UploadedBy = callerID
		filter.IncludeDeleted = false
	}

	params := repository.ListParams{
		Offset:  query.GetOffset(),
		Limit:   query.GetLimit(),
		OrderBy: query.OrderBy(mediaSortColumns, "createdAt"),
		Search:  query.GetSearch(),
	}
	media, total, err := s.repo.Media.List(ctx, params, filter)
	if err != nil {
		s.logger.Error("list media failed", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.MediaResponse, 0, len(media))
	for i := range media {
		list = append(list, toMediaResponse(&media[i]))
	}
	return list, total, nil
}

func (s *mediaService) Get(ctx context.Context, callerID uint, role string, id uint) (*dto.MediaResponse, error) {
	media, err := s.getReadable(ctx, callerID, role, id)
	if err != nil {
		return nil, err
	}
	resp := toMediaResponse(media)
	return &resp, nil
}

// ────────────────────── UpdateVisibility / Rename ──────────────────────

func (s *mediaService) UpdateVisibility(ctx context.Context, callerID uint, role string, id uint, visibility string) (*dto.MediaResponse, error) {
	media, err := s.getManageable(ctx, callerID, role, id, false)
	if err != nil {
		return nil, err
	}

	media.Visibility = visibility
	if err := s.repo.Media.Update(ctx, media); err != nil {
		s.logger.Error("update media visibility failed", zap.Uint("media_id", id), zap.Error(err))
		return nil, err
	}
	resp := toMediaResponse(media)
	return &resp, nil
}

func (s *mediaService) Rename(ctx context.Context, callerID uint, role string, id uint, fileName string) (*dto.MediaResponse, error) {
	media, err := s.getManageable(ctx, callerID, role, id, false)
	if err != nil {
		return nil, err
	}

	newName := storage.SanitizeFileName(fileName)
	newKey := storage.RenameObjectKey(media.ObjectKey, newName)
	if newKey != media.ObjectKey {
		if err := s.store.Rename(ctx, media.ObjectKey, newKey); err != nil {
			s.logger.Error("move object failed",
				zap.Uint("media_id", id), zap.String("from", media.ObjectKey), zap.String("to", newKey), zap.Error(err))
			return nil, ErrStorageFailed
		}
	}

	media.FileName = newName
	media.ObjectKey = newKey
	if err := s.repo.Media.Update(ctx, media); err != nil {
		s.logger.Error("update media name failed", zap.Uint("media_id", id), zap.Error(err))
		return nil, err
	}
	resp := toMediaResponse(media)
	return &resp, nil
}

// ────────────────────── Download ──────────────────────

func (s *mediaService) DownloadURL(ctx context.Context, callerID uint, role string, id uint) (*dto.DownloadURLResponse, error) {
	media, err := s.getReadable(ctx, callerID, role, id)
	if err != nil {
		return nil, err
	}

	ttl := s.cfg.PresignTTL
	url, err := s.store.PresignedDownloadURL(ctx, media.ObjectKey, media.FileName, ttl)
	if err != nil {
		s.logger.Error("presign download failed", zap.Uint("media_id", id), zap.Error(err))
		return nil, ErrStorageFailed
	}
	return &dto.DownloadURLResponse{URL: url, ExpiresAt: s.now().Add(ttl)}, nil
}

func (s *mediaService) Download(ctx context.Context, callerID uint, role string, id uint) (io.ReadCloser, *dto.MediaResponse, error) {
	media, err := s.getReadable(ctx, callerID, role, id)
	if err != nil {
		return nil, nil, err
	}

	body, _, err := s.store.Download(ctx, media.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Warn("media object missing", zap.Uint("media_id", id), zap.String("key", media.ObjectKey))
			return nil, nil, ErrMediaNotFound
		}
		s.logger.Error("download object failed", zap.Uint("media_id", id), zap.Error(err))
		return nil, nil, ErrStorageFailed
	}
	resp := toMediaResponse(media)
	return body, &resp, nil
}

// ────────────────────── Delete / Restore ──────────────────────

func (s *mediaService) SoftDelete(ctx context.Context, callerID uint, role string, id uint) error {
	media, err := s.getManageable(ctx, callerID, role, id, false)
	if err != nil {
		return err
	}
	if err := s.ensureNotInUse(ctx, media.ID); err != nil {
		return err
	}

	if err := s.repo.Media.SoftDelete(ctx, id); err != nil {
		s.logger.Error("soft delete media failed", zap.Uint("media_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *mediaService) HardDelete(ctx context.Context, callerID uint, role string, id uint) error {
	media, err := s.getManageable(ctx, callerID, role, id, true)
	if err != nil {
		return err
	}
	if err := s.ensureNotInUse(ctx, media.ID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, media.ObjectKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Error("delete object failed", zap.Uint("media_id", id), zap.String("key", media.ObjectKey), zap.Error(err))
		return ErrStorageFailed
	}
	if err := s.repo.Media.HardDelete(ctx, id); err != nil {
		s.logger.Error("hard delete media failed", zap.Uint("media_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *mediaService) Restore(ctx context.Context, callerID uint, role string, id uint) (*dto.MediaResponse, error) {
	media, err := s.getManageable(ctx, callerID, role, id, true)
	if err != nil {
		return nil, err
	}
	if !media.IsDeleted() {
		return nil, ErrMediaNotDeleted
	}

	if err := s.repo.Media.Restore(ctx, id); err != nil {
		s.logger.Error("restore media failed", zap.Uint("media_id", id), zap.Error(err))
		return nil, err
	}
	media.DeletedAt = gorm.DeletedAt{}
	resp := toMediaResponse(media)
	return &resp, nil
}

// ── authorization ──

func canManageMedia(m *model.Media, callerID uint, role string) bool {
	return role == model.RoleAdmin || (callerID != 0 && m.UploadedBy == callerID)
}

func canReadMedia(m *model.Media, callerID uint, role string) bool {
	return m.IsPublic() || canManageMedia(m, callerID, role)
}

func (s *mediaService) getReadable(ctx context.Context, callerID uint, role string, id uint) (*model.Media, error) {
	media, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !canReadMedia(media, callerID, role) {
		return nil, ErrMediaForbidden
	}
	return media, nil
}

func (s *mediaService) getManageable(ctx context.Context, callerID uint, role string, id uint, withDeleted bool) (*model.Media, error) {
	media, err := s.load(ctx, id, withDeleted)
	if err != nil {
		return nil, err
	}
	if !canManageMedia(media, callerID, role) {
		return nil, ErrMediaForbidden
	}
	return media, nil
}

func (s *mediaService) load(ctx context.Context, id uint, withDeleted bool) (*model.Media, error) {
	var (
		media *model.Media
		err   error
	)
	if withDeleted {
		media, err = s.repo.Media.GetByIDWithDeleted(ctx, id)
	} else {
		media, err = s.repo.Media.GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		s.logger.Error("lookup media failed", zap.Uint("media_id", id), zap.Error(err))
		return nil, err
	}
	return media, nil
}

func (s *mediaService) ensureNotInUse(ctx context.Context, id uint) error {
	inUse, err := s.repo.Media.IsInUse(ctx, id)
	if err != nil {
		s.logger.Error("check media references failed", zap.Uint("media_id", id), zap.Error(err))
		return err
	}
	if inUse {
		return ErrMediaInUse
	}
	return nil
}

// ensureMediaExists used by services that attach media to other records
func ensureMediaExists(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id uint) error {
	if _, err := repo.Media.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		logger.Error("lookup media failed", zap.Uint("media_id", id), zap.Error(err))
		return err
	}
	return nil
}
