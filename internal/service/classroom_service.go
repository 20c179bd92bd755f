package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
)

// ── Classroom errors ──

var (
	ErrClassroomNotFound    = apperr.NotFound(30001, "classroom not found")
	ErrClassroomNameExists  = apperr.Unprocessable(30002, "classroom name already exists")
	ErrClassroomArchived    = apperr.Unprocessable(30003, "classroom is already archived")
	ErrClassroomNotArchived = apperr.Unprocessable(30004, "classroom is not archived")
	ErrClassroomNotDeleted  = apperr.NotFound(30005, "classroom not found in deleted classrooms")
)

var classroomSortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// ClassroomService classroom lifecycle
type ClassroomService interface {
	Create(ctx context.Context, callerID uint, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ClassroomResponse, error)
	List(ctx context.Context, query *dto.ClassroomListQuery) ([]dto.ClassroomResponse, int64, error)
	ListDeleted(ctx context.Context, query *dto.PageQuery) ([]dto.ClassroomResponse, int64, error)
	Delete(ctx context.Context, id uint) error
	// Restore only applies to a soft-deleted classroom
	Restore(ctx context.Context, id uint) (*dto.ClassroomResponse, error)
	Archive(ctx context.Context, id uint) (*dto.ClassroomResponse, error)
	Unarchive(ctx context.Context, id uint) (*dto.ClassroomResponse, error)
}

type classroomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassroomService creates a ClassroomService
func NewClassroomService(repo *repository.Repository, logger *zap.Logger) ClassroomService {
	return &classroomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classroomService) Create(ctx context.Context, callerID uint, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	if req.CoverMediaID != nil {
		if err := ensureMediaExists(ctx, s.repo, s.logger, *req.CoverMediaID); err != nil {
			return nil, err
		}
	}

	classroom := &model.Classroom{
		Name:         name,
		Description:  req.Description,
		CoverMediaID: req.CoverMediaID,
		CreatedBy:    &callerID,
	}
	if err := s.repo.Classroom.Create(ctx, classroom); err != nil {
		s.logger.Error("create classroom failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	resp := toClassroomResponse(classroom)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *classroomService) Update(ctx context.Context, id uint, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error) {
	classroom, err := getClassroom(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != classroom.Name {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		classroom.Name = name
	}
	if req.Description != nil {
		classroom.Description = req.Description
	}
	if req.CoverMediaID != nil {
		if *req.CoverMediaID != 0 {
			if err := ensureMediaExists(ctx, s.repo, s.logger, *req.CoverMediaID); err != nil {
				return nil, err
			}
		}
		classroom.CoverMediaID = optionalID(*req.CoverMediaID)
	}

	return s.save(ctx, classroom)
}

// ────────────────────── Read ──────────────────────

func (s *classroomService) GetByID(ctx context.Context, id uint) (*dto.ClassroomResponse, error) {
	classroom, err := getClassroom(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	resp := toClassroomResponse(classroom)
	return &resp, nil
}

func (s *classroomService) List(ctx context.Context, query *dto.ClassroomListQuery) ([]dto.ClassroomResponse, int64, error) {
	classrooms, total, err := s.repo.Classroom.List(ctx, classroomListParams(&query.PageQuery),
		repository.ClassroomFilter{IsArchived: query.IsArchived})
	if err != nil {
		s.logger.Error("list classrooms failed", zap.Error(err))
		return nil, 0, err
	}
	return toClassroomResponses(classrooms), total, nil
}

func (s *classroomService) ListDeleted(ctx context.Context, query *dto.PageQuery) ([]dto.ClassroomResponse, int64, error) {
	classrooms, total, err := s.repo.Classroom.ListDeleted(ctx, classroomListParams(query))
	if err != nil {
		s.logger.Error("list deleted classrooms failed", zap.Error(err))
		return nil, 0, err
	}
	return toClassroomResponses(classrooms), total, nil
}

// ────────────────────── Delete / Restore ──────────────────────

func (s *classroomService) Delete(ctx context.Context, id uint) error {
	if _, err := getClassroom(ctx, s.repo, s.logger, id); err != nil {
		return err
	}
	if err := s.repo.Classroom.SoftDelete(ctx, id); err != nil {
		s.logger.Error("delete classroom failed", zap.Uint("classroom_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *classroomService) Restore(ctx context.Context, id uint) (*dto.ClassroomResponse, error) {
	classroom, err := s.repo.Classroom.GetByIDWithDeleted(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("lookup classroom failed", zap.Uint("classroom_id", id), zap.Error(err))
		return nil, err
	}
	if !classroom.IsDeleted() {
		return nil, ErrClassroomNotDeleted
	}
	// a live classroom may have taken the name meanwhile
	if err := s.ensureNameFree(ctx, classroom.Name, id); err != nil {
		return nil, err
	}

	if err := s.repo.Classroom.Restore(ctx, id); err != nil {
		s.logger.Error("restore classroom failed", zap.Uint("classroom_id", id), zap.Error(err))
		return nil, err
	}
	classroom.DeletedAt = gorm.DeletedAt{}
	resp := toClassroomResponse(classroom)
	return &resp, nil
}

// ────────────────────── Archive ──────────────────────

func (s *classroomService) Archive(ctx context.Context, id uint) (*dto.ClassroomResponse, error) {
	classroom, err := getClassroom(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	if classroom.IsArchived {
		return nil, ErrClassroomArchived
	}
	classroom.IsArchived = true
	return s.save(ctx, classroom)
}

func (s *classroomService) Unarchive(ctx context.Context, id uint) (*dto.ClassroomResponse, error) {
	classroom, err := getClassroom(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	if !classroom.IsArchived {
		return nil, ErrClassroomNotArchived
	}
	classroom.IsArchived = false
	return s.save(ctx, classroom)
}

// ── helpers ──

func (s *classroomService) save(ctx context.Context, classroom *model.Classroom) (*dto.ClassroomResponse, error) {
	if err := s.repo.Classroom.Update(ctx, classroom); err != nil {
		s.logger.Error("update classroom failed", zap.Uint("classroom_id", classroom.ID), zap.Error(err))
		return nil, err
	}
	resp := toClassroomResponse(classroom)
	return &resp, nil
}

// ensureNameFree fails when a live classroom other than exceptID uses name
func (s *classroomService) ensureNameFree(ctx context.Context, name string, exceptID uint) error {
	existing, err := s.repo.Classroom.GetByName(ctx, name)
	if err == nil {
		if existing.ID != exceptID {
			return ErrClassroomNameExists
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup classroom by name failed", zap.String("name", name), zap.Error(err))
		return err
	}
	return nil
}

func classroomListParams(q *dto.PageQuery) repository.ListParams {
	return repository.ListParams{
		Offset:  q.GetOffset(),
		Limit:   q.GetLimit(),
		OrderBy: q.OrderBy(classroomSortColumns, "createdAt"),
		Search:  q.GetSearch(),
	}
}

func toClassroomResponses(classrooms []model.Classroom) []dto.ClassroomResponse {
	list := make([]dto.ClassroomResponse, 0, len(classrooms))
	for i := range classrooms {
		list = append(list, toClassroomResponse(&classrooms[i]))
	}
	return list
}

// getClassroom loads a live classroom; soft-deleted ones are reported as not found
func getClassroom(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id uint) (*model.Classroom, error) {
	classroom, err := repo.Classroom.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		logger.Error("lookup classroom failed", zap.Uint("classroom_id", id), zap.Error(err))
		return nil, err
	}
	return classroom, nil
}
