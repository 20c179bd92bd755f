package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
)

// ── Join request errors ──

var (
	ErrJoinRequestNotFound      = apperr.NotFound(32001, "join request not found")
	ErrJoinRequestExists        = apperr.Unprocessable(32002, "a join request for this classroom already exists")
	ErrJoinRequestRejected      = apperr.Unprocessable(32003, "join request is already rejected")
	ErrJoinRequestApproved      = apperr.Unprocessable(32004, "cannot reject an approved join request")
	ErrJoinClassroomUnavailable = apperr.Unprocessable(32005, "classroom does not exist")
	ErrJoinClassroomArchived    = apperr.Unprocessable(32006, "classroom is archived")
)

var joinRequestSortColumns = map[string]string{
	"id":          "id",
	"requestedAt": "requested_at",
	"handledAt":   "handled_at",
	"status":      "status",
}

// JoinRequestService the student → classroom enrolment workflow.
//
//	pending  → approved  (Approve, creates or restores the membership)
//	pending  → rejected  (Reject)
//	rejected → pending   (Create again, same row)
//	rejected → approved  (Approve is allowed from any state)
type JoinRequestService interface {
	Create(ctx context.Context, studentID uint, req *dto.CreateJoinRequestRequest) (*dto.JoinRequestResponse, error)
	Approve(ctx context.Context, id uint) (*dto.JoinRequestResponse, error)
	Reject(ctx context.Context, id uint) (*dto.JoinRequestResponse, error)
	List(ctx context.Context, query *dto.JoinRequestListQuery) ([]dto.JoinRequestResponse, int64, error)
	ListMine(ctx context.Context, studentID uint, query *dto.JoinRequestListQuery) ([]dto.JoinRequestResponse, int64, error)
}

type joinRequestService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewJoinRequestService creates a JoinRequestService
func NewJoinRequestService(repo *repository.Repository, logger *zap.Logger) JoinRequestService {
	return &joinRequestService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *joinRequestService) Create(ctx context.Context, studentID uint, req *dto.CreateJoinRequestRequest) (*dto.JoinRequestResponse, error) {
	existing, err := s.repo.JoinRequest.GetByPair(ctx, studentID, req.ClassroomID)
	switch {
	case err == nil:
		if existing.Status != model.JoinRequestRejected {
			return nil, ErrJoinRequestExists
		}
		// reopen the rejected row in place
		existing.Status = model.JoinRequestPending
		existing.RequestedAt = s.now()
		existing.HandledAt = nil
		if err := s.repo.JoinRequest.Update(ctx, existing); err != nil {
			s.logger.Error("reopen join request failed", zap.Uint("join_request_id", existing.ID), zap.Error(err))
			return nil, err
		}
		resp := toJoinRequestResponse(existing)
		return &resp, nil

	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("lookup join request failed",
			zap.Uint("student_id", studentID), zap.Uint("classroom_id", req.ClassroomID), zap.Error(err))
		return nil, err
	}

	classroom, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJoinClassroomUnavailable
		}
		s.logger.Error("lookup classroom failed", zap.Uint("classroom_id", req.ClassroomID), zap.Error(err))
		return nil, err
	}
	if classroom.IsArchived {
		return nil, ErrJoinClassroomArchived
	}

	jr := &model.JoinRequest{
		StudentID:   studentID,
		ClassroomID: req.ClassroomID,
		Status:      model.JoinRequestPending,
		RequestedAt: s.now(),
	}
	if err := s.repo.JoinRequest.Create(ctx, jr); err != nil {
		s.logger.Error("create join request failed", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}
	resp := toJoinRequestResponse(jr)
	return &resp, nil
}

// ────────────────────── Approve ──────────────────────

func (s *joinRequestService) Approve(ctx context.Context, id uint) (*dto.JoinRequestResponse, error) {
	jr, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	jr.Status = model.JoinRequestApproved
	jr.HandledAt = &now
	if err := s.repo.JoinRequest.Update(ctx, jr); err != nil {
		s.logger.Error("approve join request failed", zap.Uint("join_request_id", id), zap.Error(err))
		return nil, err
	}

	// membership only after the request is stored as approved
	if err := s.ensureMembership(ctx, jr.ClassroomID, jr.StudentID, now); err != nil {
		return nil, err
	}

	resp := toJoinRequestResponse(jr)
	return &resp, nil
}

// ────────────────────── Reject ──────────────────────

func (s *joinRequestService) Reject(ctx context.Context, id uint) (*dto.JoinRequestResponse, error) {
	jr, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch jr.Status {
	case model.JoinRequestRejected:
		return nil, ErrJoinRequestRejected
	case model.JoinRequestApproved:
		return nil, ErrJoinRequestApproved
	}

	now := s.now()
	jr.Status = model.JoinRequestRejected
	jr.HandledAt = &now
	if err := s.repo.JoinRequest.Update(ctx, jr); err != nil {
		s.logger.Error("reject join request failed", zap.Uint("join_request_id", id), zap.Error(err))
		return nil, err
	}
	resp := toJoinRequestResponse(jr)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *joinRequestService) List(ctx context.Context, query *dto.JoinRequestListQuery) ([]dto.JoinRequestResponse, int64, error) {
	return s.list(ctx, query, repository.JoinRequestFilter{
		ClassroomID: query.ClassroomID,
		Status:      model.JoinRequestStatus(query.Status),
	})
}

func (s *joinRequestService) ListMine(ctx context.Context, studentID uint, query *dto.JoinRequestListQuery) ([]dto.JoinRequestResponse, int64, error) {
	return s.list(ctx, query, repository.JoinRequestFilter{
		StudentID:   studentID,
		ClassroomID: query.ClassroomID,
		Status:      model.JoinRequestStatus(query.Status),
	})
}

func (s *joinRequestService) list(ctx context.Context, query *dto.JoinRequestListQuery, filter repository.JoinRequestFilter) ([]dto.JoinRequestResponse, int64, error) {
	params := repository.ListParams{
		Offset:  query.GetOffset(),
		Limit:   query.GetLimit(),
		OrderBy: query.OrderBy(joinRequestSortColumns, "requestedAt"),
	}
	requests, total, err := s.repo.JoinRequest.List(ctx, params, filter)
	if err != nil {
		s.logger.Error("list join requests failed", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.JoinRequestResponse, 0, len(requests))
	for i := range requests {
		list = append(list, toJoinRequestResponse(&requests[i]))
	}
	return list, total, nil
}

// ── helpers ──

func (s *joinRequestService) get(ctx context.Context, id uint) (*model.JoinRequest, error) {
	jr, err := s.repo.JoinRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJoinRequestNotFound
		}
		s.logger.Error("lookup join request failed", zap.Uint("join_request_id", id), zap.Error(err))
		return nil, err
	}
	return jr, nil
}

// ensureMembership leaves exactly one live, active membership for the pair
func (s *joinRequestService) ensureMembership(ctx context.Context, classroomID, studentID uint, now time.Time) error {
	member, err := s.repo.ClassroomStudent.GetByPairWithDeleted(ctx, classroomID, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("lookup membership failed", zap.Uint("classroom_id", classroomID), zap.Error(err))
			return err
		}
		member = &model.ClassroomStudent{
			ClassroomID: classroomID,
			StudentID:   studentID,
			IsActive:    true,
			JoinedAt:    now,
		}
		if err := s.repo.ClassroomStudent.Create(ctx, member); err != nil {
			s.logger.Error("create membership failed", zap.Uint("classroom_id", classroomID), zap.Error(err))
			return err
		}
		return nil
	}

	if member.IsDeleted() || !member.IsActive {
		if err := s.repo.ClassroomStudent.Restore(ctx, member.ID); err != nil {
			s.logger.Error("restore membership failed", zap.Uint("member_id", member.ID), zap.Error(err))
			return err
		}
	}
	return nil
}
