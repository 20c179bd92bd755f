package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
)

// ── Lecture errors ──

var (
	ErrLectureNotFound  = apperr.NotFound(33001, "lecture not found")
	ErrInvalidParent    = apperr.Unprocessable(33002, "parent lecture must belong to the same classroom")
	ErrLectureCycle     = apperr.Unprocessable(33003, "a lecture cannot be moved under itself or its descendants")
	ErrLectureForbidden = apperr.Forbidden(33004, "no access to this lecture")
)

// LectureService classroom content trees
type LectureService interface {
	Create(ctx context.Context, req *dto.CreateLectureRequest) (*dto.LectureResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateLectureRequest) (*dto.LectureResponse, error)
	// Delete removes the lecture with its whole subtree
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, callerID uint, role string, id uint) (*dto.LectureResponse, error)
	Tree(ctx context.Context, callerID uint, role string, classroomID uint) ([]*dto.LectureNode, error)
}

type lectureService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLectureService creates a LectureService
func NewLectureService(repo *repository.Repository, logger *zap.Logger) LectureService {
	return &lectureService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *lectureService) Create(ctx context.Context, req *dto.CreateLectureRequest) (*dto.LectureResponse, error) {
	if _, err := getClassroom(ctx, s.repo, s.logger, req.ClassroomID); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if _, err := s.getParent(ctx, *req.ParentID, req.ClassroomID); err != nil {
			return nil, err
		}
	}
	if req.MediaID != nil {
		if err := ensureMediaExists(ctx, s.repo, s.logger, *req.MediaID); err != nil {
			return nil, err
		}
	}

	lecture := &model.Lecture{
		ClassroomID: req.ClassroomID,
		ParentID:    req.ParentID,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		MediaID:     req.MediaID,
		OrderIndex:  req.OrderIndex,
		IsPublished: req.IsPublished,
	}
	if err := s.repo.Lecture.Create(ctx, lecture); err != nil {
		s.logger.Error("create lecture failed", zap.Uint("classroom_id", req.ClassroomID), zap.Error(err))
		return nil, err
	}
	resp := toLectureResponse(lecture)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *lectureService) Update(ctx context.Context, id uint, req *dto.UpdateLectureRequest) (*dto.LectureResponse, error) {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parentID := *req.ParentID
		if parentID != 0 {
			if parentID == id {
				return nil, ErrLectureCycle
			}
			if _, err := s.getParent(ctx, parentID, lecture.ClassroomID); err != nil {
				return nil, err
			}
			all, err := s.listClassroom(ctx, lecture.ClassroomID)
			if err != nil {
				return nil, err
			}
			if containsID(descendantIDs(all, id), parentID) {
				return nil, ErrLectureCycle
			}
		}
		lecture.ParentID = optionalID(parentID)
	}
	if req.Title != nil {
		lecture.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		lecture.Content = req.Content
	}
	if req.MediaID != nil {
		if *req.MediaID != 0 {
			if err := ensureMediaExists(ctx, s.repo, s.logger, *req.MediaID); err != nil {
				return nil, err
			}
		}
		lecture.MediaID = optionalID(*req.MediaID)
	}
	if req.OrderIndex != nil {
		lecture.OrderIndex = *req.OrderIndex
	}
	if req.IsPublished != nil {
		lecture.IsPublished = *req.IsPublished
	}

	if err := s.repo.Lecture.Update(ctx, lecture); err != nil {
		s.logger.Error("update lecture failed", zap.Uint("lecture_id", id), zap.Error(err))
		return nil, err
	}
	resp := toLectureResponse(lecture)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *lectureService) Delete(ctx context.Context, id uint) error {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	all, err := s.listClassroom(ctx, lecture.ClassroomID)
	if err != nil {
		return err
	}

	ids := append([]uint{id}, descendantIDs(all, id)...)
	if err := s.repo.Lecture.DeleteByIDs(ctx, ids); err != nil {
		s.logger.Error("delete lecture subtree failed", zap.Uint("lecture_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Read ──────────────────────

func (s *lectureService) Get(ctx context.Context, callerID uint, role string, id uint) (*dto.LectureResponse, error) {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := getClassroom(ctx, s.repo, s.logger, lecture.ClassroomID); err != nil {
		return nil, err
	}

	if role != model.RoleAdmin {
		if err := s.ensureMember(ctx, lecture.ClassroomID, callerID); err != nil {
			return nil, err
		}
		all, err := s.listClassroom(ctx, lecture.ClassroomID)
		if err != nil {
			return nil, err
		}
		if !visibleToStudents(all, lecture) {
			return nil, ErrLectureForbidden
		}
	}

	resp := toLectureResponse(lecture)
	return &resp, nil
}

func (s *lectureService) Tree(ctx context.Context, callerID uint, role string, classroomID uint) ([]*dto.LectureNode, error) {
	if _, err := getClassroom(ctx, s.repo, s.logger, classroomID); err != nil {
		return nil, err
	}
	publishedOnly := role != model.RoleAdmin
	if publishedOnly {
		if err := s.ensureMember(ctx, classroomID, callerID); err != nil {
			return nil, err
		}
	}

	all, err := s.listClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	return buildLectureTree(all, publishedOnly), nil
}

// ── helpers ──

func (s *lectureService) get(ctx context.Context, id uint) (*model.Lecture, error) {
	lecture, err := s.repo.Lecture.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLectureNotFound
		}
		s.logger.Error("lookup lecture failed", zap.Uint("lecture_id", id), zap.Error(err))
		return nil, err
	}
	return lecture, nil
}

func (s *lectureService) getParent(ctx context.Context, parentID, classroomID uint) (*model.Lecture, error) {
	parent, err := s.repo.Lecture.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidParent
		}
		s.logger.Error("lookup parent lecture failed", zap.Uint("lecture_id", parentID), zap.Error(err))
		return nil, err
	}
	if parent.ClassroomID != classroomID {
		return nil, ErrInvalidParent
	}
	return parent, nil
}

func (s *lectureService) listClassroom(ctx context.Context, classroomID uint) ([]model.Lecture, error) {
	all, err := s.repo.Lecture.ListByClassroom(ctx, classroomID)
	if err != nil {
		s.logger.Error("list lectures failed", zap.Uint("classroom_id", classroomID), zap.Error(err))
		return nil, err
	}
	return all, nil
}

func (s *lectureService) ensureMember(ctx context.Context, classroomID, studentID uint) error {
	ok, err := s.repo.ClassroomStudent.IsActiveMember(ctx, classroomID, studentID)
	if err != nil {
		s.logger.Error("check membership failed", zap.Uint("classroom_id", classroomID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrLectureForbidden
	}
	return nil
}

// descendantIDs every lecture below root, breadth first
func descendantIDs(all []model.Lecture, root uint) []uint {
	children := make(map[uint][]uint)
	for _, l := range all {
		if l.ParentID != nil {
			children[*l.ParentID] = append(children[*l.ParentID], l.ID)
		}
	}

	var out []uint
	seen := map[uint]bool{root: true}
	queue := []uint{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range children[cur] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// visibleToStudents a lecture is visible when it and all its ancestors are published
func visibleToStudents(all []model.Lecture, lecture *model.Lecture) bool {
	byID := make(map[uint]*model.Lecture, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	cur := lecture
	for depth := 0; cur != nil && depth <= len(all); depth++ {
		if !cur.IsPublished {
			return false
		}
		if cur.ParentID == nil {
			return true
		}
		cur = byID[*cur.ParentID]
	}
	return false
}

// buildLectureTree nests lectures under their parents ordered by orderIndex, id.
// With publishedOnly an unpublished node hides its whole subtree.
func buildLectureTree(all []model.Lecture, publishedOnly bool) []*dto.LectureNode {
	sorted := make([]model.Lecture, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].OrderIndex != sorted[j].OrderIndex {
			return sorted[i].OrderIndex < sorted[j].OrderIndex
		}
		return sorted[i].ID < sorted[j].ID
	})

	children := make(map[uint][]*model.Lecture)
	var roots []*model.Lecture
	ids := make(map[uint]bool, len(sorted))
	for i := range sorted {
		ids[sorted[i].ID] = true
	}
	for i := range sorted {
		l := &sorted[i]
		if l.ParentID == nil || !ids[*l.ParentID] {
			roots = append(roots, l)
			continue
		}
		children[*l.ParentID] = append(children[*l.ParentID], l)
	}

	var build func(l *model.Lecture) *dto.LectureNode
	build = func(l *model.Lecture) *dto.LectureNode {
		node := &dto.LectureNode{LectureResponse: toLectureResponse(l), Children: []*dto.LectureNode{}}
		for _, c := range children[l.ID] {
			if publishedOnly && !c.IsPublished {
				continue
			}
			node.Children = append(node.Children, build(c))
		}
		return node
	}

	tree := make([]*dto.LectureNode, 0, len(roots))
	for _, r := range roots {
		if publishedOnly && !r.IsPublished {
			continue
		}
		tree = append(tree, build(r))
	}
	return tree
}
