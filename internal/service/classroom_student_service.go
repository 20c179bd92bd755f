package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
)

var ErrMembershipNotFound = apperr.NotFound(31001, "student is not a member of this classroom")

var memberSortColumns = map[string]string{
	"id":       "classroom_students.id",
	"joinedAt": "classroom_students.joined_at",
	"fullName": "users.full_name",
	"email":    "users.email",
}

// ClassroomStudentService classroom membership management
type ClassroomStudentService interface {
	ListStudents(ctx context.Context, classroomID uint, query *dto.PageQuery) ([]dto.MemberResponse, int64, error)
	MyClassrooms(ctx context.Context, studentID uint) ([]dto.MyClassroomResponse, error)
	Leave(ctx context.Context, studentID, classroomID uint) error
	Remove(ctx context.Context, classroomID, studentID uint) error
	Block(ctx context.Context, classroomID, studentID uint) error
	Unblock(ctx context.Context, classroomID, studentID uint) error
}

type classroomStudentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassroomStudentService creates a ClassroomStudentService
func NewClassroomStudentService(repo *repository.Repository, logger *zap.Logger) ClassroomStudentService {
	return &classroomStudentService{repo: repo, logger: logger}
}

func (s *classroomStudentService) ListStudents(ctx context.Context, classroomID uint, query *dto.PageQuery) ([]dto.MemberResponse, int64, error) {
	if _, err := getClassroom(ctx, s.repo, s.logger, classroomID); err != nil {
		return nil, 0, err
	}

	params := repository.ListParams{
		Offset:  query.GetOffset(),
		Limit:   query.GetLimit(),
		OrderBy: query.OrderBy(memberSortColumns, "joinedAt"),
		Search:  query.GetSearch(),
	}
	members, total, err := s.repo.ClassroomStudent.ListByClassroom(ctx, classroomID, params)
	if err != nil {
		s.logger.Error("list classroom students failed", zap.Uint("classroom_id", classroomID), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		list = append(list, toMemberResponse(&members[i]))
	}
	return list, total, nil
}

func (s *classroomStudentService) MyClassrooms(ctx context.Context, studentID uint) ([]dto.MyClassroomResponse, error) {
	members, err := s.repo.ClassroomStudent.ListActiveByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("list student classrooms failed", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.MyClassroomResponse, 0, len(members))
	for _, m := range members {
		if m.Classroom == nil {
			continue
		}
		list = append(list, dto.MyClassroomResponse{
			JoinedAt:  m.JoinedAt,
			Classroom: toClassroomResponse(m.Classroom),
		})
	}
	return list, nil
}

// Leave and Remove end the membership and drop the join request, so the
// student can ask to join again later.
func (s *classroomStudentService) Leave(ctx context.Context, studentID, classroomID uint) error {
	return s.endMembership(ctx, classroomID, studentID)
}

func (s *classroomStudentService) Remove(ctx context.Context, classroomID, studentID uint) error {
	return s.endMembership(ctx, classroomID, studentID)
}

func (s *classroomStudentService) Block(ctx context.Context, classroomID, studentID uint) error {
	member, err := s.getMember(ctx, classroomID, studentID)
	if err != nil {
		return err
	}
	if err := s.repo.ClassroomStudent.SetActive(ctx, member.ID, false); err != nil {
		s.logger.Error("block student failed", zap.Uint("member_id", member.ID), zap.Error(err))
		return err
	}
	return s.dropJoinRequest(ctx, classroomID, studentID)
}

func (s *classroomStudentService) Unblock(ctx context.Context, classroomID, studentID uint) error {
	member, err := s.getMember(ctx, classroomID, studentID)
	if err != nil {
		return err
	}
	if err := s.repo.ClassroomStudent.SetActive(ctx, member.ID, true); err != nil {
		s.logger.Error("unblock student failed", zap.Uint("member_id", member.ID), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *classroomStudentService) endMembership(ctx context.Context, classroomID, studentID uint) error {
	member, err := s.getMember(ctx, classroomID, studentID)
	if err != nil {
		return err
	}
	if err := s.repo.ClassroomStudent.SoftDelete(ctx, member.ID); err != nil {
		s.logger.Error("delete membership failed", zap.Uint("member_id", member.ID), zap.Error(err))
		return err
	}
	return s.dropJoinRequest(ctx, classroomID, studentID)
}

func (s *classroomStudentService) dropJoinRequest(ctx context.Context, classroomID, studentID uint) error {
	if err := s.repo.JoinRequest.DeleteByPair(ctx, studentID, classroomID); err != nil {
		s.logger.Error("delete join request failed",
			zap.Uint("classroom_id", classroomID), zap.Uint("student_id", studentID), zap.Error(err))
		return err
	}
	return nil
}

func (s *classroomStudentService) getMember(ctx context.Context, classroomID, studentID uint) (*model.ClassroomStudent, error) {
	member, err := s.repo.ClassroomStudent.GetByPair(ctx, classroomID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		s.logger.Error("lookup membership failed",
			zap.Uint("classroom_id", classroomID), zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return member, nil
}
